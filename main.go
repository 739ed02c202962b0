package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	database "github.com/wandernear/nearby-places/app/db"
	appLogger "github.com/wandernear/nearby-places/app/logger"
	"github.com/wandernear/nearby-places/app/observability/metrics"
	"github.com/wandernear/nearby-places/app/tracer"
	"github.com/wandernear/nearby-places/config"
	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/api/geocode"
	"github.com/wandernear/nearby-places/internal/api/links"
	"github.com/wandernear/nearby-places/internal/api/recommend"
	"github.com/wandernear/nearby-places/internal/api/session"
	api "github.com/wandernear/nearby-places/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(":" + cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// --- Catalog ---
	catalogRepo := catalog.NewFileRepository(cfg.Catalog.CitiesPath, cfg.Catalog.PlacesPath, logger)
	catalogService := catalog.NewServiceImpl(catalogRepo, logger)
	if err := catalogService.Load(ctx); err != nil {
		logger.Error("Failed to load catalog", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Optional geocode cache database ---
	var geocodeRepo geocode.Repository
	if cfg.Repositories.Postgres.Host != "" {
		dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			os.Exit(1)
		}

		// Run migrations *before* initializing the main pool
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

		if !database.WaitForDB(ctx, pool, logger) {
			logger.Error("Database not ready after waiting, exiting.")
			os.Exit(1)
		}
		geocodeRepo = geocode.NewPostgresRepository(pool, logger)
	} else {
		logger.Info("No Postgres configured, geocode cache is memory-only")
	}

	// --- Dependency Injection ---
	sessionService := session.NewServiceImpl(catalogService, logger)
	recommendService := recommend.NewServiceImpl(engineConfig(&cfg), catalogService, sessionService, logger)

	catalogHandler := catalog.NewHandler(catalogService, logger)
	sessionHandler := session.NewHandler(sessionService, logger)
	recommendHandler := recommend.NewHandler(recommendService, logger)
	linksHandler := links.NewHandler(catalogService, sessionService, recommendService, logger)

	routerConfig := &api.Config{
		CatalogHandler:   catalogHandler,
		SessionHandler:   sessionHandler,
		RecommendHandler: recommendHandler,
		LinksHandler:     linksHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			return err
		}
		return nil
	})

	if cfg.Geocoder.Enabled {
		geocodeClient := geocode.NewNominatimClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent)
		geocodeService := geocode.NewServiceImpl(geocodeClient, geocodeRepo, catalogService, cfg.Geocoder.MinRequestInterval, logger)
		g.Go(func() error {
			return geocodeService.Run(gctx)
		})
	}

	<-gctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	if err := g.Wait(); err != nil {
		logger.Error("Background worker exited with error", slog.Any("error", err))
	}

	logger.Info("Application shut down complete.")
}

// engineConfig maps the loaded config onto the recommendation thresholds.
func engineConfig(cfg *config.Config) recommend.EngineConfig {
	ec := recommend.DefaultEngineConfig()
	r := cfg.Recommendation
	if r.WalkMaxKm > 0 {
		ec.WalkMaxKm = r.WalkMaxKm
	}
	if r.WalkOrRideMaxKm > 0 {
		ec.WalkOrRideMaxKm = r.WalkOrRideMaxKm
	}
	if r.ModerateRideMaxKm > 0 {
		ec.ModerateRideMaxKm = r.ModerateRideMaxKm
	}
	if r.WalkSpeedKmh > 0 {
		ec.WalkSpeedKmh = r.WalkSpeedKmh
	}
	if r.ModerateRideSpeedKmh > 0 {
		ec.ModerateRideSpeedKmh = r.ModerateRideSpeedKmh
	}
	if r.LongRideSpeedKmh > 0 {
		ec.LongRideSpeedKmh = r.LongRideSpeedKmh
	}
	if r.RushHourMultiplier > 0 {
		ec.RushHourMultiplier = r.RushHourMultiplier
	}
	if r.FareLowPerKm > 0 {
		ec.FareLowPerKm = r.FareLowPerKm
	}
	if r.FareHighPerKm > 0 {
		ec.FareHighPerKm = r.FareHighPerKm
	}
	if r.MinWalkMinutes > 0 {
		ec.MinWalkMinutes = r.MinWalkMinutes
	}

	c := cfg.Classifier
	if c.HotStartHour > 0 || c.HotEndHour > 0 {
		ec.Classifier = recommend.ClassifierConfig{
			NightStartHour:     c.NightStartHour,
			NightEndHour:       c.NightEndHour,
			HotStartHour:       c.HotStartHour,
			HotEndHour:         c.HotEndHour,
			MorningRushStart:   c.MorningRushStart,
			MorningRushEnd:     c.MorningRushEnd,
			EveningRushStart:   c.EveningRushStart,
			EveningRushEnd:     c.EveningRushEnd,
			PreSabbathFriHour:  c.PreSabbathFriHour,
			SabbathEndsSatHour: c.SabbathEndsSatHour,
		}
	}
	return ec
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
