// Package router assembles the HTTP surface: middleware, API routes and the
// Swagger UI.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/heleneolivares/portfolio-evolution/internal/config"
	_ "github.com/heleneolivares/portfolio-evolution/internal/docs" // Import swagger docs
	"github.com/heleneolivares/portfolio-evolution/internal/handlers"
	"github.com/heleneolivares/portfolio-evolution/internal/middleware"
	"github.com/heleneolivares/portfolio-evolution/internal/services"
	"github.com/heleneolivares/portfolio-evolution/internal/store"
)

// New wires services and handlers over db and returns the Gin engine.
func New(db *gorm.DB, cfg *config.Config) *gin.Engine {
	st := store.New(db)

	// Services
	auditService := services.NewAuditService(db)
	ingestionService := services.NewIngestionService(st, auditService, cfg.PortfolioNames, cfg.InitialValue)
	evolutionService := services.NewEvolutionService(st)
	portfolioService := services.NewPortfolioService(st)

	// Handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, evolutionService)
	pipelineHandler := handlers.NewPipelineHandler(ingestionService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	portfolios := v1.Group("/portfolios")
	portfolios.GET("", portfolioHandler.ListPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolio)
	portfolios.GET("/:id/snapshot", portfolioHandler.GetSnapshot)
	portfolios.GET("/:id/evolution", portfolioHandler.GetEvolution)

	// Pipeline routes (API key auth)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.Use(middleware.MaxBodySize(cfg.MaxUploadMB))
	pipeline.POST("/load", pipelineHandler.LoadWorkbook)

	return router
}
