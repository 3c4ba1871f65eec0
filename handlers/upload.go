package handlers

import (
	"bytes"
	"net/http"

	"repertoire/storage"
	"repertoire/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadRequest struct {
	Filename string `uri:"filename" binding:"required"`
	Size     uint   `form:"size" binding:"max=2048"`
}

// UploadFetch serves a stored image, or a JPEG thumbnail of it when ?size=N is given
func UploadFetch(c *gin.Context) {
	r := UploadRequest{}
	if err := c.ShouldBindUri(&r); err != nil {
		c.JSON(http.StatusNotFound, Response{"Not found"})
		return
	}
	if err := c.ShouldBindQuery(&r); err != nil {
		bindError(c, err)
		return
	}
	s := storage.GetDefaultStorage()
	if !storage.ValidName(r.Filename) || !s.Exists(r.Filename) {
		c.JSON(http.StatusNotFound, Response{"Not found"})
		return
	}
	if r.Size == 0 {
		s.Serve(r.Filename, c.Request, c.Writer)
		return
	}
	var original, thumb bytes.Buffer
	if _, err := s.Load(r.Filename, &original); err != nil {
		zap.L().Error("cannot load image", zap.String("file", r.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, StorageResponse)
		return
	}
	if err := utils.CreateThumb(r.Size, &original, &thumb); err != nil {
		c.JSON(http.StatusUnprocessableEntity, Response{"Cannot create thumbnail"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", thumb.Bytes())
}
