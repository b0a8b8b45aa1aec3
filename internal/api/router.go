package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pubmap/areas-backend-go/internal/config"
	"github.com/pubmap/areas-backend-go/internal/database"
	"github.com/pubmap/areas-backend-go/internal/handler"
	"github.com/pubmap/areas-backend-go/internal/middleware"
	"github.com/pubmap/areas-backend-go/internal/repository"
	"github.com/pubmap/areas-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers into the Gin engine
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	db := database.GetDB()
	venueRepo := repository.NewVenueRepository(db)
	runRepo := repository.NewRunRepository(db)

	venueHandler := handler.NewVenueHandler(service.NewVenueService(venueRepo))
	statsHandler := handler.NewStatsHandler(service.NewStatsService(venueRepo))
	consolidationHandler := handler.NewConsolidationHandler(
		service.NewConsolidationService(runRepo, venueRepo))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Areas Backend API is running",
		})
	})

	// Public API
	api := r.Group("/api/v1")
	{
		venues := api.Group("/venues")
		{
			venues.GET("", venueHandler.GetVenues)
			venues.GET("/:id", venueHandler.GetVenue)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/areas", statsHandler.GetAreaStatistics)
		}
	}

	// Admin API: consolidation runs mutate the store
	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(cfg.JWTSecret))
	admin.Use(middleware.RateLimit(10, time.Minute))
	{
		runs := admin.Group("/consolidation/runs")
		{
			runs.POST("", consolidationHandler.CreateRun)
			runs.GET("", consolidationHandler.ListRuns)
			runs.GET("/:id", consolidationHandler.GetRun)
		}
	}

	return r
}
