// Package repository provides persistence for analysis runs and their issues.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/scoring"
	"github.com/mesour/brick-offers-sub007/platform/apperr"
)

// Run states. A run is created as running and moves to exactly one of
// completed or failed.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one analysis pass over a lead's website.
type Run struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	LeadID         uuid.UUID
	WebsiteURL     string
	Status         string
	TotalScore     int
	LeadStatus     scoring.LeadStatus
	HasCritical    bool
	IssueCount     int
	CategoryScores map[string]int
	Error          string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// Issue is a persisted scoring issue belonging to a run.
type Issue struct {
	ID          uuid.UUID
	RunID       uuid.UUID
	Category    string
	Severity    string
	Code        string
	Title       string
	Description string
}

// Repository persists analysis data scoped to a tenant.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates an analysis repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateRun inserts a new running analysis run.
func (r *Repository) CreateRun(ctx context.Context, run *Run) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO analysis_runs (id, tenant_id, lead_id, website_url, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING started_at`,
		run.ID, run.TenantID, run.LeadID, run.WebsiteURL, RunStatusRunning,
	).Scan(&run.StartedAt)
	if err != nil {
		return fmt.Errorf("create analysis run: %w", err)
	}
	run.Status = RunStatusRunning
	return nil
}

// CompleteRun stores the scoring outcome and the issue list in one
// transaction, so a completed run always has its issues.
func (r *Repository) CompleteRun(ctx context.Context, run *Run, issues []scoring.Issue) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	categoryScores := make(map[string]int, len(run.CategoryScores))
	for k, v := range run.CategoryScores {
		categoryScores[k] = v
	}

	_, err = tx.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $2, total_score = $3, lead_status = $4, has_critical = $5,
		     issue_count = $6, category_scores = $7, finished_at = now()
		 WHERE id = $1`,
		run.ID, RunStatusCompleted, run.TotalScore, run.LeadStatus, run.HasCritical,
		len(issues), categoryScores)
	if err != nil {
		return fmt.Errorf("complete analysis run: %w", err)
	}

	for _, issue := range issues {
		_, err = tx.Exec(ctx,
			`INSERT INTO analysis_issues (id, run_id, category, severity, code, title, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), run.ID, issue.Category.String(), issue.Severity.String(),
			issue.Code, issue.Title, issue.Description)
		if err != nil {
			return fmt.Errorf("insert analysis issue: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	run.Status = RunStatusCompleted
	run.IssueCount = len(issues)
	return nil
}

// FailRun marks a run as failed with a reason.
func (r *Repository) FailRun(ctx context.Context, runID uuid.UUID, reason string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $2, error = $3, finished_at = now()
		 WHERE id = $1`,
		runID, RunStatusFailed, reason)
	if err != nil {
		return fmt.Errorf("fail analysis run: %w", err)
	}
	return nil
}

const runColumns = `id, tenant_id, lead_id, website_url, status, total_score, lead_status,
	has_critical, issue_count, category_scores, error, started_at, finished_at`

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.TenantID, &run.LeadID, &run.WebsiteURL, &run.Status,
		&run.TotalScore, &run.LeadStatus, &run.HasCritical, &run.IssueCount,
		&run.CategoryScores, &run.Error, &run.StartedAt, &run.FinishedAt)
	return run, err
}

// GetRun fetches a run within the tenant.
func (r *Repository) GetRun(ctx context.Context, tenantID, id uuid.UUID) (Run, error) {
	run, err := scanRun(r.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM analysis_runs WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, apperr.NotFound("analysis run not found")
		}
		return Run{}, fmt.Errorf("get analysis run: %w", err)
	}
	return run, nil
}

// LatestRunForLead fetches the most recent run for a lead.
func (r *Repository) LatestRunForLead(ctx context.Context, tenantID, leadID uuid.UUID) (Run, error) {
	run, err := scanRun(r.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM analysis_runs
		 WHERE tenant_id = $1 AND lead_id = $2
		 ORDER BY started_at DESC LIMIT 1`,
		tenantID, leadID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, apperr.NotFound("no analysis run for this lead")
		}
		return Run{}, fmt.Errorf("get latest analysis run: %w", err)
	}
	return run, nil
}

// ListRunsForLead returns all runs for a lead, newest first.
func (r *Repository) ListRunsForLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]Run, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+` FROM analysis_runs
		 WHERE tenant_id = $1 AND lead_id = $2
		 ORDER BY started_at DESC`,
		tenantID, leadID)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	return runs, nil
}

// ListIssues returns the issues recorded for a run.
func (r *Repository) ListIssues(ctx context.Context, runID uuid.UUID) ([]Issue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, run_id, category, severity, code, title, description
		 FROM analysis_issues WHERE run_id = $1
		 ORDER BY severity DESC, category`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("list analysis issues: %w", err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		var i Issue
		if err := rows.Scan(&i.ID, &i.RunID, &i.Category, &i.Severity, &i.Code, &i.Title, &i.Description); err != nil {
			return nil, fmt.Errorf("scan analysis issue: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list analysis issues: %w", err)
	}
	return issues, nil
}
