// Package repository provides persistence for proposals and generation jobs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/platform/apperr"
)

// Job states. A job is created as queued, picked up as running, and ends as
// completed or failed.
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Proposal is a generated redesign pitch for a lead.
type Proposal struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	LeadID       uuid.UUID
	Title        string
	Body         string
	MockupObject string
	CreatedAt    time.Time
}

// Job tracks one asynchronous proposal generation.
type Job struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	LeadID     uuid.UUID
	ProposalID *uuid.UUID
	Status     string
	Error      string
	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Repository persists proposals scoped to a tenant.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a proposal repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateProposal inserts a proposal.
func (r *Repository) CreateProposal(ctx context.Context, p *Proposal) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO proposals (id, tenant_id, lead_id, title, body, mockup_object)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		p.ID, p.TenantID, p.LeadID, p.Title, p.Body, p.MockupObject,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}
	return nil
}

// GetProposal fetches a proposal within the tenant.
func (r *Repository) GetProposal(ctx context.Context, tenantID, id uuid.UUID) (Proposal, error) {
	var p Proposal
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, lead_id, title, body, mockup_object, created_at
		 FROM proposals WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&p.ID, &p.TenantID, &p.LeadID, &p.Title, &p.Body, &p.MockupObject, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proposal{}, apperr.NotFound("proposal not found")
		}
		return Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

// ListProposalsForLead returns proposals for a lead, newest first.
func (r *Repository) ListProposalsForLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]Proposal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, lead_id, title, body, mockup_object, created_at
		 FROM proposals WHERE tenant_id = $1 AND lead_id = $2
		 ORDER BY created_at DESC`,
		tenantID, leadID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []Proposal
	for rows.Next() {
		var p Proposal
		if err := rows.Scan(&p.ID, &p.TenantID, &p.LeadID, &p.Title, &p.Body, &p.MockupObject, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return proposals, nil
}

// DeleteProposal removes a proposal within the tenant.
func (r *Repository) DeleteProposal(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM proposals WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("proposal not found")
	}
	return nil
}

// SetMockupObject records the uploaded mockup key on a proposal.
func (r *Repository) SetMockupObject(ctx context.Context, tenantID, id uuid.UUID, objectName string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE proposals SET mockup_object = $3 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, objectName)
	if err != nil {
		return fmt.Errorf("set mockup object: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("proposal not found")
	}
	return nil
}

// CreateJob inserts a queued generation job.
func (r *Repository) CreateJob(ctx context.Context, job *Job) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO proposal_jobs (id, tenant_id, lead_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		job.ID, job.TenantID, job.LeadID, JobStatusQueued,
	).Scan(&job.CreatedAt)
	if err != nil {
		return fmt.Errorf("create proposal job: %w", err)
	}
	job.Status = JobStatusQueued
	return nil
}

// GetJob fetches a job within the tenant.
func (r *Repository) GetJob(ctx context.Context, tenantID, id uuid.UUID) (Job, error) {
	var j Job
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, lead_id, proposal_id, status, error, created_at, finished_at
		 FROM proposal_jobs WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&j.ID, &j.TenantID, &j.LeadID, &j.ProposalID, &j.Status, &j.Error, &j.CreatedAt, &j.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound("proposal job not found")
		}
		return Job{}, fmt.Errorf("get proposal job: %w", err)
	}
	return j, nil
}

// MarkJobRunning transitions a queued job to running. Returns a conflict if
// the job is not queued, which keeps duplicate queue deliveries harmless.
func (r *Repository) MarkJobRunning(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE proposal_jobs SET status = $2 WHERE id = $1 AND status = $3`,
		id, JobStatusRunning, JobStatusQueued)
	if err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("job is not queued")
	}
	return nil
}

// CompleteJob links the generated proposal and marks the job done.
func (r *Repository) CompleteJob(ctx context.Context, id, proposalID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE proposal_jobs
		 SET status = $2, proposal_id = $3, finished_at = now()
		 WHERE id = $1`,
		id, JobStatusCompleted, proposalID)
	if err != nil {
		return fmt.Errorf("complete proposal job: %w", err)
	}
	return nil
}

// FailJob marks a job as failed with a reason.
func (r *Repository) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE proposal_jobs
		 SET status = $2, error = $3, finished_at = now()
		 WHERE id = $1`,
		id, JobStatusFailed, reason)
	if err != nil {
		return fmt.Errorf("fail proposal job: %w", err)
	}
	return nil
}
