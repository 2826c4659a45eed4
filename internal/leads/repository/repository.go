// Package repository provides persistence for leads and lead notes.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/scoring"
	"github.com/mesour/brick-offers-sub007/platform/apperr"
)

// Lead is a candidate client discovered for outreach.
type Lead struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	WebsiteID      *uuid.UUID
	CompanyName    string
	ContactName    string
	Email          string
	Phone          string
	Domain         string
	Status         scoring.LeadStatus
	TotalScore     int
	HasCritical    bool
	Source         string
	LastAnalyzedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Note is a free-form annotation on a lead.
type Note struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

// ListFilter narrows, orders and pages lead listings.
type ListFilter struct {
	Status *scoring.LeadStatus
	Source string
	Search string
	// Sort picks the ORDER BY column by API key; empty or unknown keys
	// fall back to creation time. Asc flips the default descending order.
	Sort   string
	Asc    bool
	Limit  int
	Offset int
}

// sortColumns whitelists ORDER BY targets. Keys are the API's camelCase
// field names; only columns listed here ever reach the query.
var sortColumns = map[string]string{
	"createdAt":      "created_at",
	"companyName":    "company_name",
	"domain":         "domain",
	"status":         "status",
	"score":          "total_score",
	"lastAnalyzedAt": "last_analyzed_at",
}

// ValidSortKey reports whether key is an allowed ListFilter.Sort value.
func ValidSortKey(key string) bool {
	_, ok := sortColumns[key]
	return ok
}

// Repository persists leads scoped to a tenant.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a lead repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, tenant_id, website_id, company_name, contact_name, email, phone,
	domain, status, total_score, has_critical, source, last_analyzed_at, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.TenantID, &l.WebsiteID, &l.CompanyName, &l.ContactName,
		&l.Email, &l.Phone, &l.Domain, &l.Status, &l.TotalScore, &l.HasCritical,
		&l.Source, &l.LastAnalyzedAt, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts a lead. Duplicate (tenant_id, domain) maps to a conflict.
func (r *Repository) Create(ctx context.Context, lead *Lead) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO leads (id, tenant_id, website_id, company_name, contact_name, email,
			phone, domain, status, total_score, has_critical, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		lead.ID, lead.TenantID, lead.WebsiteID, lead.CompanyName, lead.ContactName,
		lead.Email, lead.Phone, lead.Domain, lead.Status, lead.TotalScore,
		lead.HasCritical, lead.Source,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("lead for this domain already exists")
		}
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// GetByID fetches a lead within the given tenant.
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// GetByDomain fetches a lead by its normalized domain within a tenant.
func (r *Repository) GetByDomain(ctx context.Context, tenantID uuid.UUID, domain string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("get lead by domain: %w", err)
	}
	return lead, nil
}

// List returns leads matching the filter plus the total count. Default
// order is newest first.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]Lead, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{tenantID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		where += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (company_name ILIKE $%d OR domain ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM leads "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	orderBy := "created_at"
	if col, ok := sortColumns[filter.Sort]; ok {
		orderBy = col
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}

	args = append(args, limit, filter.Offset)
	// id as tiebreaker keeps paging stable on equal sort values.
	query := fmt.Sprintf(`SELECT %s FROM leads %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		leadColumns, where, orderBy, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	return leads, total, nil
}

// UpdateContact updates the editable contact fields of a lead.
func (r *Repository) UpdateContact(ctx context.Context, tenantID, id uuid.UUID, companyName, contactName, email, phone string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads
		 SET company_name = $3, contact_name = $4, email = $5, phone = $6, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, companyName, contactName, email, phone)
	if err != nil {
		return fmt.Errorf("update lead contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

// UpdateScore writes the outcome of an analysis run onto the lead.
func (r *Repository) UpdateScore(ctx context.Context, tenantID, id uuid.UUID, status scoring.LeadStatus, totalScore int, hasCritical bool, analyzedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads
		 SET status = $3, total_score = $4, has_critical = $5, last_analyzed_at = $6, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, status, totalScore, hasCritical, analyzedAt)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

// Delete removes a lead and its notes.
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

// CreateNote attaches a note to a lead.
func (r *Repository) CreateNote(ctx context.Context, note *Note) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lead_notes (id, lead_id, author_id, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		note.ID, note.LeadID, note.AuthorID, note.Body,
	).Scan(&note.CreatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// ListNotes returns all notes for a lead, newest first.
func (r *Repository) ListNotes(ctx context.Context, leadID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lead_id, author_id, body, created_at
		 FROM lead_notes WHERE lead_id = $1
		 ORDER BY created_at DESC`,
		leadID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.LeadID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
