package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dealscout/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		deals := v1.Group("/deals")
		deals.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
		{
			deals.POST("/search", handler.SearchDeals)
		}
	}

	return router
}
