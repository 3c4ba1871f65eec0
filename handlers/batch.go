package handlers

import (
	"net/http"

	"repertoire/db"
	"repertoire/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BatchDeleteRequest struct {
	OpeningIDs   []uint64 `json:"openings"`
	VariationIDs []uint64 `json:"variations"`
}

type BatchDeleteResponse struct {
	Message    string `json:"message"`
	Openings   int    `json:"openings"`
	Variations int    `json:"variations"`
	Skipped    int    `json:"skipped"`
}

// BatchDelete removes everything the caller may edit in one transaction, other ids are skipped
func BatchDelete(c *gin.Context, identity models.Identity) {
	r := BatchDeleteRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	var result models.BatchDeleteResult
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		result, err = models.BatchDelete(tx, identity, r.OpeningIDs, r.VariationIDs)
		return
	})
	if err != nil {
		respondError(c, err, Response{"Batch delete failed"})
		return
	}
	models.RemoveImages(result.Images)
	c.JSON(http.StatusOK, BatchDeleteResponse{
		Message:    "Batch delete successful",
		Openings:   result.Openings,
		Variations: result.Variations,
		Skipped:    result.Skipped,
	})
}
