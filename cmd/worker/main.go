package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/analysis"
	"github.com/mesour/brick-offers-sub007/internal/discovery"
	"github.com/mesour/brick-offers-sub007/internal/leads"
	"github.com/mesour/brick-offers-sub007/internal/outreach"
	"github.com/mesour/brick-offers-sub007/internal/proposals"
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
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// The worker enqueues follow-up tasks itself: analysis after discovery,
	// dispatch after a send request, crawls on the periodic schedule.
	taskClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		panic("failed to initialize task queue client: " + err.Error())
	}
	defer func() { _ = taskClient.Close() }()

	// Worker-side module wiring (no HTTP handlers required).
	leadsModule := leads.NewModule(pool, eventBus, log)

	analysisModule := analysis.NewModule(pool, leadsModule.Repository(), cfg, taskClient, eventBus, log)

	discoveryModule, err := discovery.NewModule(pool, leadsModule.Service(), cfg, taskClient, eventBus, log)
	if err != nil {
		log.Error("failed to initialize discovery module", "error", err)
		panic("failed to initialize discovery module: " + err.Error())
	}

	proposalsModule, err := proposals.NewModule(ctx, pool, leadsModule.Repository(), analysisModule.Service(), cfg, taskClient, eventBus, log)
	if err != nil {
		log.Error("failed to initialize proposals module", "error", err)
		panic("failed to initialize proposals module: " + err.Error())
	}

	outreachModule, err := outreach.NewModule(pool, leadsModule.Repository(), proposalsModule.Service(), cfg, taskClient, eventBus, log)
	if err != nil {
		log.Error("failed to initialize outreach module", "error", err)
		panic("failed to initialize outreach module: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, pool, scheduler.Services{
		Discovery: discoveryModule.Service(),
		Analysis:  analysisModule.Service(),
		Proposals: proposalsModule.Service(),
		Outreach:  outreachModule.Service(),
	}, taskClient, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
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
