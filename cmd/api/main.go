package main

import (
	"fmt"
	"os"

	"github.com/heleneolivares/portfolio-evolution/internal/config"
	"github.com/heleneolivares/portfolio-evolution/internal/database"
	"github.com/heleneolivares/portfolio-evolution/internal/logger"
	"github.com/heleneolivares/portfolio-evolution/internal/router"
	"github.com/heleneolivares/portfolio-evolution/internal/validator"
)

// @title           Portfolio Evolution API
// @version         1.0
// @description     Loads model portfolios from a weights and prices workbook and reports their value and composition over time.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey PipelineAPIKey
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators
	validator.Register()

	r := router.New(dbManager.DB(), appConfig)

	if appConfig.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY is not set; workbook uploads are disabled")
	}
	log.Infof("Starting portfolio evolution server on port %s (db driver %s)", appConfig.Port, dbConfig.Driver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return r.Run(":" + appConfig.Port)
}
