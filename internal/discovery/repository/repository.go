// Package repository provides persistence for discovered websites and
// discovery run bookkeeping.
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

	"github.com/mesour/brick-offers-sub007/platform/apperr"
)

// Website is a site found by a discovery source, before or after analysis.
type Website struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Domain       string
	URL          string
	Title        string
	Source       string
	DiscoveredAt time.Time
}

// SourceState records when a catalog source last ran and what it yielded.
type SourceState struct {
	Name      string
	TenantID  uuid.UUID
	LastRunAt *time.Time
	LastFound int
	LastError string
}

// Repository persists discovery data scoped to a tenant.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a discovery repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateWebsite inserts a discovered website. Duplicate (tenant_id, domain)
// maps to a conflict so callers can treat re-discovery as a no-op.
func (r *Repository) CreateWebsite(ctx context.Context, site *Website) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO websites (id, tenant_id, domain, url, title, source)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING discovered_at`,
		site.ID, site.TenantID, site.Domain, site.URL, site.Title, site.Source,
	).Scan(&site.DiscoveredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("website already discovered")
		}
		return fmt.Errorf("create website: %w", err)
	}
	return nil
}

// GetWebsiteByDomain fetches a website by its normalized domain.
func (r *Repository) GetWebsiteByDomain(ctx context.Context, tenantID uuid.UUID, domain string) (Website, error) {
	var w Website
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, domain, url, title, source, discovered_at
		 FROM websites WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain,
	).Scan(&w.ID, &w.TenantID, &w.Domain, &w.URL, &w.Title, &w.Source, &w.DiscoveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Website{}, apperr.NotFound("website not found")
		}
		return Website{}, fmt.Errorf("get website by domain: %w", err)
	}
	return w, nil
}

// GetWebsiteByID fetches a website within the tenant.
func (r *Repository) GetWebsiteByID(ctx context.Context, tenantID, id uuid.UUID) (Website, error) {
	var w Website
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, domain, url, title, source, discovered_at
		 FROM websites WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&w.ID, &w.TenantID, &w.Domain, &w.URL, &w.Title, &w.Source, &w.DiscoveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Website{}, apperr.NotFound("website not found")
		}
		return Website{}, fmt.Errorf("get website by id: %w", err)
	}
	return w, nil
}

// ListWebsites returns discovered websites, newest first.
func (r *Repository) ListWebsites(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Website, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, domain, url, title, source, discovered_at
		 FROM websites WHERE tenant_id = $1
		 ORDER BY discovered_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	defer rows.Close()

	var sites []Website
	for rows.Next() {
		var w Website
		if err := rows.Scan(&w.ID, &w.TenantID, &w.Domain, &w.URL, &w.Title, &w.Source, &w.DiscoveredAt); err != nil {
			return nil, fmt.Errorf("scan website: %w", err)
		}
		sites = append(sites, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return sites, nil
}

// UpsertSourceState records the outcome of a source run.
func (r *Repository) UpsertSourceState(ctx context.Context, state SourceState) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO discovery_sources (name, tenant_id, last_run_at, last_found, last_error)
		 VALUES ($1, $2, now(), $3, $4)
		 ON CONFLICT (tenant_id, name)
		 DO UPDATE SET last_run_at = now(), last_found = $3, last_error = $4`,
		state.Name, state.TenantID, state.LastFound, state.LastError)
	if err != nil {
		return fmt.Errorf("upsert source state: %w", err)
	}
	return nil
}

// ListSourceStates returns the recorded state for every source the tenant has run.
func (r *Repository) ListSourceStates(ctx context.Context, tenantID uuid.UUID) ([]SourceState, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, tenant_id, last_run_at, last_found, last_error
		 FROM discovery_sources WHERE tenant_id = $1
		 ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list source states: %w", err)
	}
	defer rows.Close()

	var states []SourceState
	for rows.Next() {
		var s SourceState
		if err := rows.Scan(&s.Name, &s.TenantID, &s.LastRunAt, &s.LastFound, &s.LastError); err != nil {
			return nil, fmt.Errorf("scan source state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list source states: %w", err)
	}
	return states, nil
}
