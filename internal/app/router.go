package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
	"carpool/internal/session"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PoolHandler *handler.PoolHandler
	AuthHandler *handler.AuthHandler
	Gate        *session.Gate
	RedisClient *redis.Client
	NewRelicApp *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	protected := middleware.SessionGate(deps.Gate, session.ViewProtected)
	entry := middleware.SessionGate(deps.Gate, session.ViewEntry)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Page-level views, gated by the session state machine.
	router.GET("/login", entry, deps.AuthHandler.EntryPage)
	router.GET("/pools", protected, deps.PoolHandler.List)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/google", entry, deps.AuthHandler.GoogleLogin)
			auth.PUT("/register-info", entry, deps.AuthHandler.RegisterInfo)
			auth.POST("/logout", protected, deps.AuthHandler.Logout)
			auth.GET("/me", protected, deps.AuthHandler.Me)
		}

		pools := v1.Group("/pools", protected)
		{
			pools.GET("", deps.PoolHandler.List)
			pools.POST("", deps.PoolHandler.Create)
			pools.GET("/:id", deps.PoolHandler.Get)
			pools.PUT("/:id", deps.PoolHandler.Update)
			pools.PATCH("/:id", deps.PoolHandler.Patch)
			pools.DELETE("/:id", deps.PoolHandler.Delete)
			pools.POST("/:id/join", deps.PoolHandler.Join)
		}
	}

	return router
}
