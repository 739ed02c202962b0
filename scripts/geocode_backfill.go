package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	database "github.com/wandernear/nearby-places/app/db"
	"github.com/wandernear/nearby-places/app/observability/metrics"
	"github.com/wandernear/nearby-places/config"
	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/api/geocode"
)

// One-shot geocode backfill: resolves every place in the catalog that has
// an address but no coordinates, warming the persistent cache so the
// server starts with a fully positioned catalog.
//
// Usage: go run scripts/geocode_backfill.go
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	metrics.InitAppMetrics()

	catalogRepo := catalog.NewFileRepository(cfg.Catalog.CitiesPath, cfg.Catalog.PlacesPath, logger)
	catalogService := catalog.NewServiceImpl(catalogRepo, logger)
	if err := catalogService.Load(ctx); err != nil {
		logger.Error("Failed to load catalog", slog.Any("error", err))
		os.Exit(1)
	}

	var geocodeRepo geocode.Repository
	if cfg.Repositories.Postgres.Host != "" {
		dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			os.Exit(1)
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.Any("error", err))
			os.Exit(1)
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		geocodeRepo = geocode.NewPostgresRepository(pool, logger)
	}

	client := geocode.NewNominatimClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent)
	geocodeService := geocode.NewServiceImpl(client, geocodeRepo, catalogService, cfg.Geocoder.MinRequestInterval, logger)

	if err := geocodeService.Run(ctx); err != nil {
		logger.Error("Backfill failed", slog.Any("error", err))
		os.Exit(1)
	}

	c, err := catalogService.Catalog()
	if err != nil {
		logger.Error("Failed to read catalog back", slog.Any("error", err))
		os.Exit(1)
	}
	unresolved := 0
	for _, p := range c.Places {
		if !p.HasPosition() {
			unresolved++
		}
	}
	logger.Info("Backfill complete",
		slog.Int("places", len(c.Places)),
		slog.Int("unresolved", unresolved),
	)
}
