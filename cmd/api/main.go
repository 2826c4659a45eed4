package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/analysis"
	analysishandler "github.com/mesour/brick-offers-sub007/internal/analysis/handler"
	"github.com/mesour/brick-offers-sub007/internal/auth"
	"github.com/mesour/brick-offers-sub007/internal/discovery"
	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	"github.com/mesour/brick-offers-sub007/internal/http/router"
	"github.com/mesour/brick-offers-sub007/internal/leads"
	"github.com/mesour/brick-offers-sub007/internal/outreach"
	outreachsvc "github.com/mesour/brick-offers-sub007/internal/outreach/service"
	"github.com/mesour/brick-offers-sub007/internal/proposals"
	proposalssvc "github.com/mesour/brick-offers-sub007/internal/proposals/service"
	"github.com/mesour/brick-offers-sub007/internal/scheduler"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/db"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
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

	// Task queue client. Optional: without Redis, background work runs inline
	// in the request path.
	taskClient, closeTaskClient := initTaskClient(cfg, log)
	if closeTaskClient != nil {
		defer closeTaskClient()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, eventBus, log)
	leadsModule := leads.NewModule(pool, eventBus, log)

	analysisModule := analysis.NewModule(pool, leadsModule.Repository(), cfg, analysisEnqueuer(taskClient), eventBus, log)

	discoveryModule, err := discovery.NewModule(pool, leadsModule.Service(), cfg, analysisEnqueuer(taskClient), eventBus, log)
	if err != nil {
		log.Error("failed to initialize discovery module", "error", err)
		panic("failed to initialize discovery module: " + err.Error())
	}

	proposalsModule, err := proposals.NewModule(ctx, pool, leadsModule.Repository(), analysisModule.Service(), cfg, proposalEnqueuer(taskClient), eventBus, log)
	if err != nil {
		log.Error("failed to initialize proposals module", "error", err)
		panic("failed to initialize proposals module: " + err.Error())
	}

	outreachModule, err := outreach.NewModule(pool, leadsModule.Repository(), proposalsModule.Service(), cfg, dispatchEnqueuer(taskClient), eventBus, log)
	if err != nil {
		log.Error("failed to initialize outreach module", "error", err)
		panic("failed to initialize outreach module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			discoveryModule,
			analysisModule,
			proposalsModule,
			outreachModule,
		},
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

// initTaskClient builds the asynq client when Redis is configured. The
// returned close function is nil when the queue is disabled.
func initTaskClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background tasks run inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// The enqueuer helpers keep a nil *scheduler.Client from turning into a
// non-nil interface value. Modules treat a nil enqueuer as "run inline";
// a typed nil would pass their nil check and silently swallow the work.

func analysisEnqueuer(c *scheduler.Client) analysishandler.Enqueuer {
	if c == nil {
		return nil
	}
	return c
}

func proposalEnqueuer(c *scheduler.Client) proposalssvc.Enqueuer {
	if c == nil {
		return nil
	}
	return c
}

func dispatchEnqueuer(c *scheduler.Client) outreachsvc.Enqueuer {
	if c == nil {
		return nil
	}
	return c
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
