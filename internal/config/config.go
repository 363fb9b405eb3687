package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Runtime environment: production, development or test
	Env string

	// Server
	Port        string
	MaxUploadMB int64

	// Pipeline
	PipelineAPIKey string

	// Ingestion
	ExcelPath      string
	InitialValue   decimal.Decimal
	PortfolioNames []string
}

// DefaultInitialValue is the money amount every portfolio starts with.
var DefaultInitialValue = decimal.NewFromInt(1_000_000_000)

// DefaultPortfolioNames lists the portfolios materialized by a load, in weight-column order.
var DefaultPortfolioNames = []string{"Portfolio 1", "Portfolio 2"}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:            getEnv("ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 20),
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),
		ExcelPath:      getEnv("EXCEL_PATH", "data/datos.xlsx"),
		InitialValue:   DefaultInitialValue,
		PortfolioNames: DefaultPortfolioNames,
	}

	if raw := getEnv("PORTFOLIO_INITIAL_VALUE", ""); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			log.Printf("Warning: invalid PORTFOLIO_INITIAL_VALUE value '%s', falling back to %s\n", raw, DefaultInitialValue)
		} else {
			config.InitialValue = v
		}
	}

	if raw := getEnv("PORTFOLIO_NAMES", ""); raw != "" {
		config.PortfolioNames = splitNames(raw)
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func splitNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return DefaultPortfolioNames
	}
	return names
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
