package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mesour/brick-offers-sub007/platform/config"
)

// Client enqueues background tasks. It satisfies the enqueuer interfaces of
// the discovery, analysis, proposals and outreach modules.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueDiscovery schedules a discovery crawl for one tenant.
func (c *Client) EnqueueDiscovery(ctx context.Context, tenantID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewDiscoveryCrawlTask(DiscoveryCrawlPayload{TenantID: tenantID.String()})
	if err != nil {
		return err
	}

	// Crawls are slow and external; cap retries so a dead source does not
	// cycle through the queue all day.
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(2), asynq.Timeout(10*time.Minute))
	return err
}

// EnqueueAnalysis schedules an analysis run for a lead's website.
func (c *Client) EnqueueAnalysis(ctx context.Context, tenantID, leadID uuid.UUID, _ string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAnalysisRunTask(AnalysisRunPayload{
		TenantID: tenantID.String(),
		LeadID:   leadID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3), asynq.Timeout(2*time.Minute))
	return err
}

// EnqueueProposal schedules generation of a queued proposal job.
func (c *Client) EnqueueProposal(ctx context.Context, tenantID, jobID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewProposalGenerateTask(ProposalGeneratePayload{
		TenantID: tenantID.String(),
		JobID:    jobID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
	return err
}

// EnqueueDispatch schedules delivery of a queued offer.
func (c *Client) EnqueueDispatch(ctx context.Context, tenantID, offerID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewOfferDispatchTask(OfferDispatchPayload{
		TenantID: tenantID.String(),
		OfferID:  offerID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3), asynq.Timeout(time.Minute))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
