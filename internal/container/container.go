// Package container provides dependency injection.
package container

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmmsmind/backend/internal/archive"
	"github.com/cmmsmind/backend/internal/config"
	"github.com/cmmsmind/backend/internal/handler"
	"github.com/cmmsmind/backend/internal/jobs"
	"github.com/cmmsmind/backend/internal/notification"
	"github.com/cmmsmind/backend/internal/report"
	"github.com/cmmsmind/backend/internal/repository"
	"github.com/cmmsmind/backend/internal/repository/memory"
	"github.com/cmmsmind/backend/internal/repository/seed"
	"github.com/cmmsmind/backend/internal/repository/sqlstore"
)

const (
	jobLimiterSweep      = "rate-limit-sweep"
	limiterSweepSchedule = "0 */10 * * * *"
	limiterIdleTTL       = 10 * time.Minute
)

// Container holds all application dependencies.
type Container struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     repository.Store
	scheduler *jobs.Scheduler
	runner    *jobs.MaintenanceRunner
	limiter   *handler.RateLimiter

	// Services
	notifService *notification.Service
	publisher    *notification.Publisher
	reports      *report.Service
	archive      *archive.Archive
}

// New creates a new dependency container.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		cfg:    cfg,
		logger: logger,
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.store = store

	if cfg.Storage.SeedDemoData {
		loaded, err := seed.LoadDemoIfEmpty(ctx, store)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		if loaded {
			logger.Info("demo data loaded")
		}
	}

	c.notifService = notification.NewService(notification.Config{
		SlackWebhookURL: cfg.Notification.SlackWebhookURL,
		EmailSMTPHost:   cfg.Notification.EmailSMTPHost,
		EmailSMTPPort:   cfg.Notification.EmailSMTPPort,
		EmailFrom:       cfg.Notification.EmailFrom,
		EmailPassword:   cfg.Notification.EmailPassword,
		EmailRecipients: cfg.Notification.EmailTo,
		WebhookURLs:     cfg.Notification.WebhookURLs,
		MaxAttempts:     cfg.Resilience.RetryMaxAttempts,
		RetryDelay:      cfg.Resilience.RetryBaseDelay,
	}, logger)
	c.publisher = notification.NewPublisher(store.Notifications(), c.notifService, logger)
	logger.Info("notification service initialized", "enabled", c.notifService.Enabled())

	c.reports = report.NewService(store)

	var uploader jobs.Uploader
	if cfg.Archive.Enabled {
		c.archive, err = archive.New(ctx, cfg.Archive, logger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to initialize report archive: %w", err)
		}
		uploader = c.archive
		logger.Info("report archive initialized", "bucket", cfg.Archive.Bucket, "region", cfg.Archive.Region)
	}

	c.scheduler = jobs.NewScheduler(cfg.Jobs.Timeout, logger)
	c.runner = jobs.NewMaintenanceRunner(store, c.publisher, c.reports, uploader, logger)
	c.limiter = handler.NewRateLimiter(cfg.Resilience.RateLimitRPS, cfg.Resilience.RateLimitBurst)

	return c, nil
}

// openStore connects the configured storage backend and applies migrations.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		logger.Info("using in-memory storage")
		return memory.New(), nil
	}

	dialect, err := sqlstore.ParseDialect(cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == sqlstore.SQLite {
		// sqlite serialises writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.MaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := sqlstore.New(db, dialect)
	applied, err := store.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database connected", "driver", dialect, "migrations_applied", len(applied))

	return store, nil
}

// Start registers and starts background jobs.
func (c *Container) Start() error {
	if !c.cfg.Jobs.Enabled {
		c.logger.Info("background jobs disabled")
		return nil
	}

	err := c.runner.Register(c.scheduler, jobs.Schedules{
		Overdue:       c.cfg.Jobs.OverdueSchedule,
		LowStock:      c.cfg.Jobs.LowStockSchedule,
		Upcoming:      c.cfg.Jobs.UpcomingSchedule,
		ReportArchive: c.cfg.Jobs.ReportArchiveSchedule,
	})
	if err != nil {
		return err
	}

	err = c.scheduler.Register(jobLimiterSweep, limiterSweepSchedule, func(context.Context) error {
		if n := c.limiter.Sweep(limiterIdleTTL); n > 0 {
			c.logger.Debug("rate limiters swept", "removed", n)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.scheduler.Start()
	return nil
}

// Stop gracefully stops all components.
func (c *Container) Stop(ctx context.Context) error {
	c.logger.Info("stopping container components")

	done := make(chan struct{})
	go func() {
		c.scheduler.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		c.logger.Warn("scheduler did not stop in time", "error", ctx.Err())
	}

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// RouterDeps assembles the HTTP layer's collaborators.
func (c *Container) RouterDeps() handler.Deps {
	deps := handler.Deps{
		Store:          c.store,
		Publisher:      c.publisher,
		Reports:        c.reports,
		Jobs:           c.scheduler,
		Limiter:        c.limiter,
		Logger:         c.logger,
		AllowedOrigins: c.cfg.Server.AllowedOrigins,
		RequestTimeout: c.cfg.Server.RequestTimeout,
	}
	if c.archive != nil {
		deps.Archive = c.archive
	}
	return deps
}

// Accessors

func (c *Container) Config() *config.Config                     { return c.cfg }
func (c *Container) Logger() *slog.Logger                       { return c.logger }
func (c *Container) Store() repository.Store                    { return c.store }
func (c *Container) Scheduler() *jobs.Scheduler                 { return c.scheduler }
func (c *Container) NotificationService() *notification.Service { return c.notifService }
func (c *Container) Publisher() *notification.Publisher         { return c.publisher }
func (c *Container) Reports() *report.Service                   { return c.reports }
func (c *Container) Archive() *archive.Archive                  { return c.archive }
func (c *Container) MaintenanceRunner() *jobs.MaintenanceRunner { return c.runner }
