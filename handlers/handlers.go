package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"repertoire/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Response struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type IDRequest struct {
	ID uint64 `uri:"id" binding:"required"`
}

type OrderRequest struct {
	IDs []uint64 `json:"ids" binding:"required"`
}

var (
	// Predefined errors
	NopeResponse     = Response{"Permission denied"}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
	DBError3Response = Response{"DB Error 3"}
	StorageResponse  = Response{"Storage Error"}
)

// statusFor maps business errors to HTTP codes, 0 means unexpected
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return 0
}

// respondError writes err as JSON; unexpected errors are logged and replaced with fallback
func respondError(c *gin.Context, err error, fallback Response) {
	if status := statusFor(err); status != 0 {
		c.JSON(status, Response{err.Error()})
		return
	}
	zap.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, fallback)
}

// bindError renders binding/validation failures as short messages
func bindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	messages := []string{}
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" is required")
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}
	c.JSON(http.StatusBadRequest, Response{strings.Join(messages, "; ")})
}
