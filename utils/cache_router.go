package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheWeek    = 7 * 86400
)

// CacheControl sets the cache-control header before the handler runs, handlers may still override it
func CacheControl(maxAge int) gin.HandlerFunc {
	value := "no-cache"
	if maxAge != CacheNoCache {
		value = "private, max-age=" + strconv.Itoa(maxAge)
	}
	return func(c *gin.Context) {
		c.Header("cache-control", value)
		c.Next()
	}
}
