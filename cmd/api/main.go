package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeserve_backend/internal/adapters"
	"homeserve_backend/internal/adapters/storage"
	"homeserve_backend/internal/catalog"
	"homeserve_backend/internal/email"
	"homeserve_backend/internal/events"
	"homeserve_backend/internal/exports"
	apphttp "homeserve_backend/internal/http"
	"homeserve_backend/internal/http/router"
	"homeserve_backend/internal/identity"
	"homeserve_backend/internal/notification"
	"homeserve_backend/internal/requests"
	"homeserve_backend/internal/scheduler"
	"homeserve_backend/platform/config"
	"homeserve_backend/platform/db"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sweepClient, closeSweepClient := initSweepClient(cfg, log)
	if closeSweepClient != nil {
		defer closeSweepClient()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Object storage for export artifacts (optional)
	var artifactStore storage.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinIOExportsBucket())
		}); err != nil {
			log.Error("failed to ensure exports bucket exists", "error", err, "bucket", cfg.GetMinIOExportsBucket())
			panic("failed to ensure exports bucket exists: " + err.Error())
		}
		artifactStore = minioSvc
		log.Info("storage service initialized", "exportsBucket", cfg.GetMinIOExportsBucket())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	identityModule := identity.NewModule(pool, cfg, eventBus, val, log)
	catalogModule := catalog.NewModule(pool, val, log)

	catalogReader := adapters.NewCatalogReader(catalogModule.Service())
	professionalReader := adapters.NewProfessionalReader(identityModule.Service())
	requestsModule := requests.NewModule(pool, catalogReader, professionalReader, eventBus, val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	chatClient := notification.NewChatClient(cfg, log)
	detailsReader := adapters.NewRequestDetailsReader(requestsModule.Repository(), identityModule.Repository(), catalogModule.Repository())
	notificationModule := notification.New(sender, chatClient, detailsReader, log)
	notificationModule.RegisterHandlers(eventBus)

	// A typed nil *Client must not leak into the interface field.
	var sweepScheduler scheduler.SweepScheduler
	if sweepClient != nil {
		sweepScheduler = sweepClient
	}
	exportsModule := exports.NewModule(pool, cfg, artifactStore, sweepScheduler, val, log)

	modules := []apphttp.Module{
		identityModule,
		catalogModule,
		requestsModule,
		exportsModule,
	}
	if sweepClient != nil {
		modules = append(modules, scheduler.NewModule(sweepClient, log))
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initSweepClient creates the asynq client used to enqueue sweeps and async
// exports. The API degrades gracefully without redis: exports run inline and
// sweep triggers are unavailable.
func initSweepClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; sweep triggers and async exports disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
