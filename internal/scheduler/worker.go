package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	analysissvc "github.com/mesour/brick-offers-sub007/internal/analysis/service"
	discoverysvc "github.com/mesour/brick-offers-sub007/internal/discovery/service"
	outreachsvc "github.com/mesour/brick-offers-sub007/internal/outreach/service"
	proposalssvc "github.com/mesour/brick-offers-sub007/internal/proposals/service"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// Services bundles the domain services the worker executes tasks against.
type Services struct {
	Discovery *discoverysvc.Service
	Analysis  *analysissvc.Service
	Proposals *proposalssvc.Service
	Outreach  *outreachsvc.Service
}

// Worker consumes the task queue and triggers the periodic discovery crawl.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	client   *Client
	pool     *pgxpool.Pool
	services Services
	interval time.Duration
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, services Services, client *Client, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		client:   client,
		pool:     pool,
		services: services,
		interval: cfg.GetDiscoveryInterval(),
		log:      log,
	}

	mux.HandleFunc(TaskDiscoveryCrawl, w.handleDiscoveryCrawl)
	mux.HandleFunc(TaskAnalysisRun, w.handleAnalysisRun)
	mux.HandleFunc(TaskProposalGenerate, w.handleProposalGenerate)
	mux.HandleFunc(TaskOfferDispatch, w.handleOfferDispatch)

	return w, nil
}

// Run blocks until ctx is cancelled. The periodic discovery loop only starts
// when a discovery interval is configured.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if w.interval > 0 {
		go w.runDiscoveryLoop(ctx)
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// runDiscoveryLoop enqueues one crawl task per tenant every interval. The
// work itself goes through the queue so it gets the usual retry handling.
func (w *Worker) runDiscoveryLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.enqueueCrawls(ctx); err != nil {
				w.log.Error("periodic discovery scheduling failed", "error", err)
			}
		}
	}
}

func (w *Worker) enqueueCrawls(ctx context.Context) error {
	tenantIDs, err := w.listTenantIDs(ctx)
	if err != nil {
		return err
	}

	for _, tenantID := range tenantIDs {
		if err := w.client.EnqueueDiscovery(ctx, tenantID); err != nil {
			w.log.Error("failed to enqueue discovery crawl", "tenantId", tenantID, "error", err)
		}
	}
	return nil
}

func (w *Worker) listTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := w.pool.Query(ctx, `SELECT id FROM organizations ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan organization id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (w *Worker) handleDiscoveryCrawl(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDiscoveryCrawlPayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}

	result, err := w.services.Discovery.Run(ctx, tenantID, "")
	if err != nil {
		return err
	}

	w.log.Info("discovery crawl finished",
		"tenantId", tenantID,
		"sources", result.SourcesRun,
		"found", result.Found,
		"created", result.Created,
	)
	return nil
}

func (w *Worker) handleAnalysisRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAnalysisRunPayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	_, err = w.services.Analysis.Analyze(ctx, tenantID, leadID)
	return err
}

func (w *Worker) handleProposalGenerate(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseProposalGeneratePayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}
	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return err
	}

	return w.services.Proposals.Generate(ctx, tenantID, jobID)
}

func (w *Worker) handleOfferDispatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOfferDispatchPayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return err
	}
	offerID, err := uuid.Parse(payload.OfferID)
	if err != nil {
		return err
	}

	return w.services.Outreach.Dispatch(ctx, tenantID, offerID)
}
