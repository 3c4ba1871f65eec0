package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"repertoire/auth"
	"repertoire/backup"
	"repertoire/config"
	"repertoire/db"
	"repertoire/models"
	"repertoire/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VerifyAdminRequest struct {
	Password string `json:"password" binding:"required"`
}

type StorageInfo struct {
	Type      string `json:"type"`
	Location  string `json:"location"`
	FreeSpace uint64 `json:"free_space"`
}

type StatusResponse struct {
	models.Stats
	Storage StorageInfo `json:"storage"`
}

// AdminVerify turns on guest admin mode when the password matches ADMIN_PASSWORD
func AdminVerify(c *gin.Context) {
	r := VerifyAdminRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	if config.ADMIN_PASSWORD == "" ||
		subtle.ConstantTimeCompare([]byte(r.Password), []byte(config.ADMIN_PASSWORD)) != 1 {

		c.JSON(http.StatusUnauthorized, Response{"Incorrect password"})
		return
	}
	if err := auth.LoadSession(c).SetAdminMode(true); err != nil {
		zap.L().Error("cannot save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{"Session error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func AdminExit(c *gin.Context) {
	if err := auth.LoadSession(c).SetAdminMode(false); err != nil {
		zap.L().Error("cannot save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{"Session error"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"Exited admin mode"})
}

func AdminStatus(c *gin.Context, identity models.Identity) {
	if !identity.IsGuestAdmin() {
		c.JSON(http.StatusForbidden, NopeResponse)
		return
	}
	stats, err := models.GetStats(db.Instance)
	if err != nil {
		respondError(c, err, DBError1Response)
		return
	}
	s := storage.GetDefaultStorage()
	bucket := s.GetBucket()
	storageType := "disk"
	if bucket.IsS3() {
		storageType = "s3"
	}
	c.JSON(http.StatusOK, StatusResponse{
		Stats: stats,
		Storage: StorageInfo{
			Type:      storageType,
			Location:  bucket.String(),
			FreeSpace: s.GetFreeSpace(),
		},
	})
}

// AdminBackup streams a zip with the database and all uploaded files
func AdminBackup(c *gin.Context, identity models.Identity) {
	if !identity.IsGuestAdmin() {
		c.JSON(http.StatusForbidden, Response{"Admin mode required"})
		return
	}
	filename := fmt.Sprintf("backup_%s.zip", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := backup.Write(c.Writer, db.Instance, storage.GetDefaultStorage()); err != nil {
		// Headers are already sent, the client gets a truncated archive
		zap.L().Error("backup failed", zap.Error(err))
	}
}
