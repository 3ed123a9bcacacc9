package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviews-web/internal/shared/middleware"
	"reviews-web/internal/shared/response"
	"reviews-web/pkg/container"
)

// maxUploadMemory bounds multipart parsing; oversized photos are rejected by the draft
const maxUploadMemory = 8 << 20

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.GET("/health", healthCheckHandler(c))

	setupSessionRoutes(router, c)
	setupReviewRoutes(router, c)

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "page not found")
	})

	return router
}

// ========================================
// SESSION ROUTES
// ========================================
func setupSessionRoutes(r *gin.Engine, c *container.Container) {
	r.GET("/login", c.SessionHandler.Status)
	r.POST("/login", c.SessionHandler.Login)
	r.GET("/register", c.SessionHandler.Status)
	r.POST("/register", c.SessionHandler.Register)
	r.POST("/logout", c.SessionHandler.Logout)
	r.GET("/session", c.SessionHandler.Status)
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(r *gin.Engine, c *container.Container) {
	// Public
	r.GET("/", c.ReviewHandler.Home)
	r.GET("/reviews", c.ReviewHandler.List)
	r.POST("/reviews/:id/vote", c.ReviewHandler.Vote)
	r.DELETE("/reviews/:id", c.ReviewHandler.Delete)

	// Signed-in only
	gated := r.Group("/")
	gated.Use(middleware.RequireSession(c.Sessions))
	{
		gated.GET("/reviews/create", c.ReviewHandler.NewForm)
		gated.POST("/reviews/create", c.ReviewHandler.Create)
		gated.GET("/reviews/edit/:id", c.ReviewHandler.EditForm)
		gated.POST("/reviews/edit/:id", c.ReviewHandler.Edit)
		gated.POST("/upload", c.ReviewHandler.Upload)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"api":       appCtx.Config.API.BaseURL,
			"signed_in": appCtx.Sessions.Current().Authenticated(),
		}

		storageStatus := "ok"
		if err := appCtx.StorageHealth(c.Request.Context()); err != nil {
			storageStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}
		health["services"] = gin.H{
			"session_store": gin.H{
				"driver": appCtx.Config.Session.Store,
				"status": storageStatus,
			},
		}

		response.Success(c, http.StatusOK, health)
	}
}
