package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kurihiro0119/property-analytics/internal/analytics"
	"github.com/kurihiro0119/property-analytics/internal/api"
	"github.com/kurihiro0119/property-analytics/internal/collector"
	"github.com/kurihiro0119/property-analytics/internal/config"
	"github.com/kurihiro0119/property-analytics/internal/storage"
	"github.com/kurihiro0119/property-analytics/internal/storage/postgres"
	"github.com/kurihiro0119/property-analytics/internal/storage/sqlite"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "analytics-api").Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger = logger.Level(cfg.Level())

	// Initialize storage
	var store storage.RecordStore
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL storage")
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize SQLite storage")
		}
	}
	defer store.Close()

	// Initialize analytics engine
	engine := analytics.New(collector.NewStoreSources(store), analytics.Options{
		TrendBuckets: cfg.TrendMonths,
		TopN:         cfg.TopProperties,
	}, nil)

	// Initialize handler
	handler := api.NewHandler(engine)

	// Setup routes
	if cfg.Level() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRoutes(handler, logger)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info().Str("addr", addr).Str("storage", cfg.StorageType).Msg("starting API server")

	if err := router.Run(addr); err != nil {
		logger.Error().Err(err).Msg("failed to start server")
		store.Close()
		os.Exit(1)
	}
}
