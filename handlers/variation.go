package handlers

import (
	"net/http"

	"repertoire/db"
	"repertoire/models"
	"repertoire/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VariationUpdateRequest struct {
	VariationName string   `form:"variation_name" binding:"max=100"`
	Moves         string   `form:"moves" binding:"required,max=500"`
	Notes         *string  `form:"notes"`
	DeleteImage   bool     `form:"delete_image"`
	Tutorials     []string `form:"tutorials"`
}

// VariationUpdate replaces name, moves, notes and tutorials; the image is replaced by a new upload or dropped with delete_image
func VariationUpdate(c *gin.Context, identity models.Identity) {
	id := IDRequest{}
	if err := c.ShouldBindUri(&id); err != nil {
		bindError(c, err)
		return
	}
	// Check before storing any uploaded file
	current, err := models.LoadVariation(db.Instance, id.ID)
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	if !models.CanEdit(identity, &current.Opening) {
		c.JSON(http.StatusForbidden, NopeResponse)
		return
	}
	r := VariationUpdateRequest{}
	if err = c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	image, err := storeUploadedImage(c, current.Opening.OwnedBy())
	if err != nil {
		respondError(c, err, StorageResponse)
		return
	}
	var (
		opening models.Opening
		orphans []string
	)
	err = db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		opening, orphans, err = models.UpdateVariation(tx, identity, id.ID, models.VariationUpdate{
			Name:        utils.CleanText(r.VariationName),
			Moves:       r.Moves,
			Notes:       utils.TrimTextPtr(r.Notes),
			NewImage:    image,
			DeleteImage: r.DeleteImage,
			Tutorials:   tutorialURLs(c, r.Tutorials),
		})
		return
	})
	if err != nil {
		if image != nil {
			models.RemoveImages([]string{*image})
		}
		respondError(c, err, DBError2Response)
		return
	}
	models.RemoveImages(orphans)
	c.JSON(http.StatusOK, NewOpeningInfo(&opening))
}

func VariationDelete(c *gin.Context, identity models.Identity) {
	id := IDRequest{}
	if err := c.ShouldBindUri(&id); err != nil {
		bindError(c, err)
		return
	}
	var orphans []string
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		orphans, err = models.DeleteVariation(tx, identity, id.ID)
		return
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	models.RemoveImages(orphans)
	c.JSON(http.StatusOK, MessageResponse{"Deleted successfully"})
}

func VariationsReorder(c *gin.Context, identity models.Identity) {
	r := OrderRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		return models.ReorderVariations(tx, identity, r.IDs)
	})
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
