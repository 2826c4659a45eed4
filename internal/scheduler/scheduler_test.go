package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string                 { return c.redisURL }
func (c testConfig) GetRedisTLSInsecure() bool           { return false }
func (c testConfig) GetAsynqQueueName() string           { return "offers" }
func (c testConfig) GetAsynqConcurrency() int            { return 2 }
func (c testConfig) GetDiscoveryInterval() time.Duration { return 0 }

func TestAnalysisRunPayloadRoundTrip(t *testing.T) {
	task, err := NewAnalysisRunTask(AnalysisRunPayload{
		TenantID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
		LeadID:   "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
	})
	if err != nil {
		t.Fatalf("NewAnalysisRunTask: %v", err)
	}
	if task.Type() != TaskAnalysisRun {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskAnalysisRun)
	}

	payload, err := ParseAnalysisRunPayload(task)
	if err != nil {
		t.Fatalf("ParseAnalysisRunPayload: %v", err)
	}
	if payload.TenantID != "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d" {
		t.Errorf("tenant id = %q", payload.TenantID)
	}
	if payload.LeadID != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("lead id = %q", payload.LeadID)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testConfig{}); err == nil {
		t.Fatal("expected error for empty redis url")
	}
}

func TestClientEnqueuesTasks(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	if err := client.EnqueueAnalysis(ctx, tenantID, uuid.New(), ""); err != nil {
		t.Fatalf("EnqueueAnalysis: %v", err)
	}
	if err := client.EnqueueDispatch(ctx, tenantID, uuid.New()); err != nil {
		t.Fatalf("EnqueueDispatch: %v", err)
	}
	if err := client.EnqueueProposal(ctx, tenantID, uuid.New()); err != nil {
		t.Fatalf("EnqueueProposal: %v", err)
	}
	if err := client.EnqueueDiscovery(ctx, tenantID); err != nil {
		t.Fatalf("EnqueueDiscovery: %v", err)
	}

	// Tasks land in the configured queue, not the default one.
	var sawQueue bool
	for _, key := range mr.Keys() {
		if strings.Contains(key, "{offers}") {
			sawQueue = true
			break
		}
	}
	if !sawQueue {
		t.Fatalf("no keys for queue %q, got %v", "offers", mr.Keys())
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var client *Client
	ctx := context.Background()

	if err := client.EnqueueAnalysis(ctx, uuid.New(), uuid.New(), ""); err != nil {
		t.Fatalf("nil client EnqueueAnalysis: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client Close: %v", err)
	}
}
