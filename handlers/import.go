package handlers

import (
	"fmt"
	"net/http"

	"repertoire/db"
	"repertoire/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ImportRequest struct {
	IDs []uint64 `json:"opening_ids"`
}

type ImportResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

// Import copies public openings (with variations, tutorials and images) into the caller's repertoire
func Import(c *gin.Context, identity models.Identity) {
	if !identity.IsAuthenticated() {
		c.JSON(http.StatusUnauthorized, Response{"Must be logged in to import"})
		return
	}
	r := ImportRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	var result models.ImportResult
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		result, err = models.ImportOpenings(tx, identity, r.IDs)
		return
	})
	if err != nil {
		models.RemoveImages(result.Copied)
		respondError(c, err, Response{"Import failed"})
		return
	}
	c.JSON(http.StatusOK, ImportResponse{
		Message:  fmt.Sprintf("Imported %d openings", result.Imported),
		Imported: result.Imported,
	})
}
