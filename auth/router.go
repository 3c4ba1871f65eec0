package auth

import (
	"net/http"

	"repertoire/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc runs for logged in users only
type HandlerFunc func(c *gin.Context, user *models.User)

// IdentityHandlerFunc runs for everyone, with the resolved identity
type IdentityHandlerFunc func(c *gin.Context, identity models.Identity)

// Router is a wrapper that resolves the session into a User or an Identity before calling handlers
type Router struct {
	Base gin.IRoutes
}

func (cr *Router) userExec(c *gin.Context, handler HandlerFunc) {
	user := LoadSession(c).User()
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	handler(c, &user)
}

func (cr *Router) identityExec(c *gin.Context, handler IdentityHandlerFunc) {
	handler(c, LoadSession(c).Identity())
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.userExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.userExec(c, handler)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.userExec(c, handler)
	})
}

func (cr *Router) IdentityGET(path string, handler IdentityHandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.identityExec(c, handler)
	})
}

func (cr *Router) IdentityPOST(path string, handler IdentityHandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.identityExec(c, handler)
	})
}

func (cr *Router) IdentityPUT(path string, handler IdentityHandlerFunc) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.identityExec(c, handler)
	})
}

func (cr *Router) IdentityDELETE(path string, handler IdentityHandlerFunc) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.identityExec(c, handler)
	})
}
