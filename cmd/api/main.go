package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"macrolog/internal/cache"
	"macrolog/internal/catalog"
	"macrolog/internal/config"
	"macrolog/internal/database"
	"macrolog/internal/estimation"
	"macrolog/internal/handler"
	"macrolog/internal/repository"
	"macrolog/internal/resolution"
	"macrolog/internal/router"
	"macrolog/internal/template"
	"macrolog/internal/usage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting macrolog API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provision the schema before anything touches the database.
	if err := database.Migrate(ctx, cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	foodRepo := repository.NewFoodRepository(pool, logger)
	logRepo := repository.NewLogRepository(pool, logger)
	usageRepo := repository.NewUsageRepository(pool, logger)
	templateRepo := repository.NewTemplateRepository(pool, logger)

	// Open the local query cache
	cacheManager, err := cache.Open(cfg.Cache.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cacheManager.Close()

	// Initialize services
	catalogService := catalog.NewService(foodRepo, logger)
	tracker := usage.NewTracker(usageRepo, logger)
	templateService := template.NewService(templateRepo, logger)
	estimator := estimation.NewClient(cfg.Estimator, logger)
	workflow := resolution.NewWorkflow(catalogService, estimator, logRepo, tracker, cacheManager, logger)

	// One-time cleanup of category tags still embedded in descriptions.
	if migrated, err := templateService.MigrateLegacyCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("legacy category migration incomplete, reads still fold tags")
	} else if migrated > 0 {
		logger.Info().Int("count", migrated).Msg("migrated legacy template categories")
	}

	// Warm the autocomplete snapshot and keep it fresh in the background.
	if err := catalogService.RefreshSnapshot(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial catalogue snapshot load failed")
	}
	catalogService.StartSnapshotRefresh(ctx, cfg.Catalog.SnapshotRefresh)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Estimate: handler.NewEstimateHandler(estimator, logger),
		Food:     handler.NewFoodHandler(catalogService, logger),
		Log:      handler.NewLogHandler(workflow, logRepo, cacheManager, logger),
		Frequent: handler.NewFrequentHandler(tracker, cacheManager, logger),
		Template: handler.NewTemplateHandler(templateService, logger),
		Cache:    handler.NewCacheHandler(cacheManager, logger),
	}

	// Initialize router
	mux := router.New(handlers, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
