package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oncoscope/oncoscope-backend/internal/handlers"
	"github.com/oncoscope/oncoscope-backend/internal/middleware"
)

type RouterConfig struct {
	StrategyHandler     *handlers.StrategyHandler
	DruggabilityHandler *handlers.DruggabilityHandler
	VariantHandler      *handlers.VariantHandler
	DashboardHandler    *handlers.DashboardHandler
	AllowedOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Strategy
		api.GET("/strategy/brief/:indication/:biomarker", cfg.StrategyHandler.GetBrief)
		api.GET("/strategy/opportunity-matrix", cfg.StrategyHandler.GetOpportunityMatrix)
		// Druggability
		api.GET("/druggability/:indication", cfg.DruggabilityHandler.GetMatrix)
		api.GET("/druggability/:indication/evidence", cfg.DruggabilityHandler.GetEvidence)
		api.GET("/druggability/:indication/:biomarker/drugs", cfg.DruggabilityHandler.GetDrugs)
		// Variants
		api.GET("/variants/:gene/landscape", cfg.VariantHandler.GetLandscape)
		api.GET("/variants/:gene/:variant/card", cfg.VariantHandler.GetCard)
		api.GET("/variants/:gene/:variant/funnel", cfg.VariantHandler.GetFunnel)
		// Dashboard
		api.GET("/dashboard/stats", cfg.DashboardHandler.GetGlobalStats)
		api.GET("/dashboard/stats/:indication", cfg.DashboardHandler.GetStats)
	}

	return router
}
