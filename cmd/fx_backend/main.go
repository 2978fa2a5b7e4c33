package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/rental_fx/internal/adapters/cache"
	"github.com/SscSPs/rental_fx/internal/adapters/provider/exchangerate"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/core/services"
	"github.com/SscSPs/rental_fx/internal/handlers"
	"github.com/SscSPs/rental_fx/internal/middleware"
	"github.com/SscSPs/rental_fx/internal/platform/config"
	"github.com/SscSPs/rental_fx/internal/platform/events"
	"github.com/SscSPs/rental_fx/internal/platform/metrics"
	"github.com/SscSPs/rental_fx/internal/repositories/database/pgsql"
	"github.com/SscSPs/rental_fx/internal/scheduler"
	"github.com/SscSPs/rental_fx/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goRedis "github.com/redis/go-redis/v9"
)

// @title Rental FX API
// @version 1.0
// @description Exchange rate sync and currency conversion for rental pricing.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rateMetrics := metrics.NewRateMetrics(registry)

	publisher := newEventPublisher(cfg, logger)
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	snapshotStore, closeStore, err := newSnapshotStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Scheduled, manual and self-healing refreshes share one in-flight guard.
	refreshGate := services.NewRefreshGate()
	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.Dependencies{
		Provider:      exchangerate.NewClient(cfg.RateProviderURL, cfg.RateProviderTimeout, logger),
		SnapshotStore: snapshotStore,
		Publisher:     publisher,
		Metrics:       rateMetrics,
		RefreshGate:   refreshGate,
	})

	sched, err := startScheduler(ctx, cfg, container, refreshGate, logger)
	if err != nil {
		return err
	}
	defer sched.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	if err := handlers.RegisterRoutes(r, cfg, container, registry); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
	return nil
}

func newEventPublisher(cfg *config.Config, logger *slog.Logger) portssvc.RateEventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, rate events are not published")
		return events.NoopPublisher{}
	}
	logger.Info("Publishing rate events to Kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaRatesTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaRatesTopic)
}

// newSnapshotStore opens the cache client's local store for the configured backend.
func newSnapshotStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RateSnapshotStore, func(), error) {
	noop := func() {}
	switch cfg.RateCacheBackend {
	case config.CacheBackendSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.RateCacheSQLitePath)
		if err != nil {
			return nil, noop, err
		}
		store, err := cache.NewSQLiteStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Info("Rate cache backed by SQLite", slog.String("path", cfg.RateCacheSQLitePath))
		return store, func() { _ = db.Close() }, nil
	case config.CacheBackendRedis:
		opts, err := goRedis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := goRedis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			// The cache client tolerates store failures, so keep going.
			logger.Warn("Redis unreachable at startup", slog.String("error", err.Error()))
		}
		logger.Info("Rate cache backed by Redis", slog.String("addr", opts.Addr))
		return cache.NewRedisStore(client, cache.DefaultRedisKey), func() { _ = client.Close() }, nil
	default:
		return cache.NewMemoryStore(), noop, nil
	}
}

// startScheduler registers the refresh and cleanup jobs, refreshes stale rates
// once, and starts the cron loop. The refresh job also backs manual refreshes.
func startScheduler(ctx context.Context, cfg *config.Config, container *portssvc.ServiceContainer, gate *services.RefreshGate, logger *slog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(logger)

	refreshJob := scheduler.NewRefreshJob(container.ExchangeRate, cfg.RateRefreshMaxRetries, scheduler.WithRefreshGate(gate))
	container.Refresher = refreshJob

	if err := sched.AddJob(cfg.RateRefreshSchedule, refreshJob); err != nil {
		return nil, err
	}
	cleanupJob := scheduler.NewHistoryCleanupJob(container.ExchangeRate, cfg.RateHistoryRetention)
	if err := sched.AddJob(cfg.RateHistoryCleanupSchedule, cleanupJob); err != nil {
		return nil, err
	}

	now := time.Now()
	period, err := scheduler.SchedulePeriod(cfg.RateRefreshSchedule, now)
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.RefreshIfStale(ctx, container.ExchangeRate, refreshJob, period, now); err != nil {
		// Serving stale or bootstrap rates beats refusing to start.
		logger.Warn("Startup refresh failed", slog.String("error", err.Error()))
	}

	sched.Start()
	return sched, nil
}
