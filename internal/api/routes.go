package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(gin.Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		contributors := v1.Group("/contributors")
		{
			contributors.GET("", handler.ListContributors)
			contributors.POST("", handler.CreateContributor)
			contributors.GET("/:username", handler.GetContributor)
			contributors.POST("/:username/achievements", handler.CreateAchievement)
		}

		achievements := v1.Group("/achievements")
		{
			achievements.GET("/lookup", handler.LookupAchievement)
		}
	}

	return router
}
