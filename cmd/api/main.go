package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"larder/internal/backup"
	"larder/internal/classifier"
	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/events"
	"larder/internal/expiry"
	"larder/internal/handler"
	"larder/internal/ledger"
	"larder/internal/lookup"
	"larder/internal/metrics"
	"larder/internal/repository"
	"larder/internal/router"
	"larder/internal/service"
	"larder/internal/storage"
	"larder/internal/taxonomy"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
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
	logger.Info().Msg("starting larder API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Load persisted state
	tax, err := taxonomy.NewStore(storage.NewJSONFile(cfg.Storage.OptionsFile, logger), logger)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	inventory := ledger.New(storage.NewJSONFile(cfg.Storage.DataFile, logger), logger)
	if err := inventory.Load(); err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	// Initialize barcode lookup, optionally backed by the Postgres cache
	providers, err := lookup.NewProviders(cfg.Lookup.Providers, lookup.Endpoints{
		OpenFoodFacts: cfg.Lookup.OpenFoodFactsURL,
		UPCItemDB:     cfg.Lookup.UPCItemDBURL,
		OpenGTINDB:    cfg.Lookup.OpenGTINDBURL,
	}, &http.Client{Timeout: cfg.Lookup.Timeout}, logger)
	if err != nil {
		return fmt.Errorf("failed to configure lookup providers: %w", err)
	}

	cascadeOpts := []lookup.Option{lookup.WithMetrics(m)}
	if cfg.Cache.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		cache := repository.NewLookupCacheRepository(pool, cfg.Cache.TTL, logger)
		if err := cache.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare lookup cache: %w", err)
		}
		if cfg.Cache.TTL > 0 {
			if purged, err := cache.Purge(ctx, time.Now().Add(-cfg.Cache.TTL)); err != nil {
				logger.Warn().Err(err).Msg("failed to purge stale lookup cache entries")
			} else if purged > 0 {
				logger.Info().Int64("purged", purged).Msg("stale lookup cache entries purged")
			}
		}
		cascadeOpts = append(cascadeOpts, lookup.WithCache(cache))
	} else {
		logger.Info().Msg("lookup cache disabled")
	}
	cascade := lookup.NewCascade(providers, cfg.Lookup.Timeout, logger, cascadeOpts...)

	emitter := events.NewEmitter(events.DefaultOutboxSize, logger)
	if err := emitter.Subscribe(events.TopicProductExpiring, logExpiring(logger)); err != nil {
		return fmt.Errorf("failed to subscribe to expiry events: %w", err)
	}

	// Initialize export archives with S3 and local fallback
	archives := newBackupStore(ctx, cfg.Backup, logger)

	// Initialize services
	svc := service.NewInventoryService(service.Dependencies{
		Ledger:     inventory,
		Taxonomy:   tax,
		Classifier: classifier.NewDefault(),
		Lookup:     cascade,
		Events:     emitter,
		Backup:     archives,
		Metrics:    m,
	}, logger, service.WithSettings(service.Settings{
		SoonDays:       cfg.Expiry.SoonDays,
		SummaryDays:    cfg.Expiry.SummaryDays,
		NotifyInterval: cfg.Expiry.NotifyInterval,
	}))

	scheduler, err := expiry.NewScheduler(cfg.Expiry.SweepSchedule, svc, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize expiry scheduler: %w", err)
	}
	scheduler.Start()
	scheduler.RunNow()

	// Initialize router
	mux := router.New(router.Handlers{
		Products:   handler.NewProductHandler(svc, logger),
		Categories: handler.NewTaxonomyHandler(svc, taxonomy.KindCategory, logger),
		Zones:      handler.NewTaxonomyHandler(svc, taxonomy.KindZone, logger),
		Transfer:   handler.NewTransferHandler(svc, logger),
		Metrics:    promhttp.Handler(),
	}, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

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
		scheduler.Stop(context.Background())
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		scheduler.Stop(shutdownCtx)

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

func newBackupStore(ctx context.Context, cfg config.BackupConfig, logger zerolog.Logger) backup.Store {
	dirStore := backup.NewDirStore(cfg.Dir, logger)
	if !cfg.S3.Enabled {
		logger.Info().Str("dir", cfg.Dir).Msg("using local file system for export archives (S3 disabled)")
		return dirStore
	}

	s3Store, err := backup.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 store, falling back to local file system only")
		return dirStore
	}

	return backup.NewFallbackStore(s3Store, dirStore, cfg.S3.Prefix, true, logger)
}

func logExpiring(logger zerolog.Logger) func(events.Event) {
	logger = logger.With().Str("component", "expiry-notifier").Logger()
	return func(ev events.Event) {
		data, ok := ev.Data.(events.ProductExpiring)
		if !ok {
			return
		}
		logger.Info().
			Str("product_id", data.ProductID).
			Str("name", data.Name).
			Str("location", string(data.Location)).
			Int("days_until_expiry", data.DaysUntilExpiry).
			Str("notification_type", data.NotificationType).
			Msg("product expiry notification")
	}
}
