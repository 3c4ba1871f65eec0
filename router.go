package main

import (
	"net/http"
	"time"

	"repertoire/auth"
	"repertoire/config"
	"repertoire/handlers"
	"repertoire/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session"

func setupRouter(store sessions.Store) *gin.Engine {
	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if config.DEBUG_MODE {
		router.Use(gin.Logger(), utils.ErrorLogMiddleware)
	}
	_ = router.SetTrustedProxies([]string{})
	router.MaxMultipartMemory = int64(config.MAX_UPLOAD_MB) << 20
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CorsOrigins(),
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.SESSION_MAX_AGE,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionCookieName, store))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{"^/api/uploads/", "^/api/admin/export-backup"})))
	}
	router.Use(utils.CacheControl(utils.CacheNoCache)) // Individual end-points can override that

	api := router.Group("/api")
	authRouter := &auth.Router{Base: api}
	// Openings
	authRouter.IdentityGET("/openings", handlers.OpeningList)
	authRouter.IdentityPOST("/openings", handlers.OpeningAdd)
	authRouter.IdentityPOST("/openings/reorder", handlers.OpeningsReorder)
	authRouter.IdentityPUT("/openings/:id", handlers.OpeningRename)
	authRouter.IdentityDELETE("/openings/:id", handlers.OpeningDelete)
	authRouter.IdentityPOST("/openings/:id/favorite", handlers.OpeningFavorite)
	// Variations
	authRouter.IdentityPOST("/variations/reorder", handlers.VariationsReorder)
	authRouter.IdentityPUT("/variations/:id", handlers.VariationUpdate)
	authRouter.IdentityDELETE("/variations/:id", handlers.VariationDelete)
	// Bulk operations
	authRouter.IdentityPOST("/batch-delete", handlers.BatchDelete)
	authRouter.IdentityPOST("/import", handlers.Import)
	// Images
	api.GET("/uploads/:filename", utils.CacheControl(utils.CacheWeek), handlers.UploadFetch)
	// Admin
	authRouter.IdentityGET("/admin/export-backup", handlers.AdminBackup)
	authRouter.IdentityGET("/admin/status", handlers.AdminStatus)

	// Accounts and guest admin mode
	accounts := api.Group("/auth")
	accountRouter := &auth.Router{Base: accounts}
	accounts.POST("/signup", handlers.UserSignup)
	accounts.POST("/login", handlers.UserLogin)
	accountRouter.POST("/logout", handlers.UserLogout)
	accounts.GET("/me", handlers.UserMe)
	accountRouter.PUT("/profile", handlers.UserProfile)
	accounts.POST("/verify-admin", handlers.AdminVerify)
	accounts.POST("/exit-admin", handlers.AdminExit)

	return router
}
