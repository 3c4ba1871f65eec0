package handlers

import (
	"mime/multipart"
	"net/http"

	"repertoire/config"
	"repertoire/db"
	"repertoire/models"
	"repertoire/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VariationInfo struct {
	ID            uint64   `json:"id"`
	OpeningID     uint64   `json:"opening_id"`
	Name          string   `json:"name"`
	Moves         string   `json:"moves"`
	LichessLink   string   `json:"lichess_link"`
	ImageFilename *string  `json:"image_filename"`
	Notes         *string  `json:"notes"`
	Position      int      `json:"position"`
	UpdatedAt     int64    `json:"updated_at"`
	Tutorials     []string `json:"tutorials"`
}

type OpeningInfo struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Side       models.Side     `json:"side"`
	IsFavorite bool            `json:"is_favorite"`
	IsPublic   bool            `json:"is_public"`
	Position   int             `json:"position"`
	UpdatedAt  int64           `json:"updated_at"`
	Variations []VariationInfo `json:"variations"`
}

type OpeningListRequest struct {
	Mode      string `form:"mode" binding:"omitempty,oneof=public private"`
	Favorites bool   `form:"favorites"`
}

type OpeningAddRequest struct {
	Name          string   `form:"name" binding:"required,max=100"`
	Side          string   `form:"side" binding:"required,oneof=white black"`
	Moves         string   `form:"moves" binding:"required,max=500"`
	Notes         *string  `form:"notes"`
	VariationName string   `form:"variation_name" binding:"max=100"`
	Tutorials     []string `form:"tutorials"`
}

type OpeningRenameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func NewOpeningInfo(o *models.Opening) OpeningInfo {
	info := OpeningInfo{
		ID:         o.ID,
		Name:       o.Name,
		Side:       o.Side,
		IsFavorite: o.IsFavorite,
		IsPublic:   o.OwnedBy().IsPublic(),
		Position:   o.Position,
		UpdatedAt:  o.UpdatedAt,
		Variations: []VariationInfo{},
	}
	for i := range o.Variations {
		v := &o.Variations[i]
		info.Variations = append(info.Variations, VariationInfo{
			ID:            v.ID,
			OpeningID:     v.OpeningID,
			Name:          v.Name,
			Moves:         v.Moves,
			LichessLink:   v.LichessLink,
			ImageFilename: v.ImageFilename,
			Notes:         v.Notes,
			Position:      v.Position,
			UpdatedAt:     v.UpdatedAt,
			Tutorials:     v.TutorialURLs(),
		})
	}
	return info
}

// tutorialURLs accepts both "tutorials" and "tutorials[]" form keys
func tutorialURLs(c *gin.Context, bound []string) []string {
	if len(bound) > 0 {
		return bound
	}
	return c.PostFormArray("tutorials[]")
}

// storeUploadedImage saves the optional "image" file for owner; it returns nil when nothing was uploaded
func storeUploadedImage(c *gin.Context, owner models.Owner) (*string, error) {
	file, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if file.Size > int64(config.MAX_UPLOAD_MB)<<20 {
		return nil, &models.Error{Kind: models.ErrValidation, Message: "Image is too large"}
	}
	name, err := saveMultipartImage(owner, file)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func saveMultipartImage(owner models.Owner, file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()
	return models.SaveImage(owner, file.Filename, reader)
}

// OpeningList returns public openings, or the caller's own with mode=private
func OpeningList(c *gin.Context, identity models.Identity) {
	r := OpeningListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		bindError(c, err)
		return
	}
	owner := models.Public
	if r.Mode == "private" && identity.IsAuthenticated() {
		owner = identity.Owner()
	}
	openings, err := models.ListOpenings(db.Instance, owner, r.Favorites)
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	result := make([]OpeningInfo, 0, len(openings))
	for i := range openings {
		result = append(result, NewOpeningInfo(&openings[i]))
	}
	c.JSON(http.StatusOK, result)
}

// OpeningAdd adds a variation, creating its opening in the caller's scope when needed
func OpeningAdd(c *gin.Context, identity models.Identity) {
	if !models.CanEdit(identity, nil) {
		c.JSON(http.StatusForbidden, Response{"Permission denied. Login or enter admin password."})
		return
	}
	r := OpeningAddRequest{}
	if err := c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	image, err := storeUploadedImage(c, identity.Owner())
	if err != nil {
		respondError(c, err, StorageResponse)
		return
	}
	var opening models.Opening
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		opening, err = models.AddVariation(tx, identity, utils.CleanText(r.Name), models.Side(r.Side), models.VariationInput{
			Name:          utils.CleanText(r.VariationName),
			Moves:         r.Moves,
			Notes:         utils.TrimTextPtr(r.Notes),
			ImageFilename: image,
			Tutorials:     tutorialURLs(c, r.Tutorials),
		})
		return err
	})
	if err != nil {
		if image != nil {
			models.RemoveImages([]string{*image})
		}
		respondError(c, err, DBError1Response)
		return
	}
	c.JSON(http.StatusCreated, NewOpeningInfo(&opening))
}

func OpeningRename(c *gin.Context, identity models.Identity) {
	id := IDRequest{}
	if err := c.ShouldBindUri(&id); err != nil {
		bindError(c, err)
		return
	}
	r := OpeningRenameRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	var opening models.Opening
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		opening, err = models.RenameOpening(tx, identity, id.ID, utils.CleanText(r.Name))
		return
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, NewOpeningInfo(&opening))
}

func OpeningDelete(c *gin.Context, identity models.Identity) {
	id := IDRequest{}
	if err := c.ShouldBindUri(&id); err != nil {
		bindError(c, err)
		return
	}
	var orphans []string
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		orphans, err = models.DeleteOpening(tx, identity, id.ID)
		return
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	models.RemoveImages(orphans)
	c.JSON(http.StatusOK, MessageResponse{"Deleted successfully"})
}

func OpeningFavorite(c *gin.Context, identity models.Identity) {
	id := IDRequest{}
	if err := c.ShouldBindUri(&id); err != nil {
		bindError(c, err)
		return
	}
	var opening models.Opening
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		opening, err = models.ToggleFavorite(tx, identity, id.ID)
		return
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, NewOpeningInfo(&opening))
}

func OpeningsReorder(c *gin.Context, identity models.Identity) {
	r := OrderRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		return models.ReorderOpenings(tx, identity, r.IDs)
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
