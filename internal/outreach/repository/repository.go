// Package repository provides persistence for offers, their event log and
// the suppression list.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/platform/apperr"
)

// Offer is one outreach email to a lead, tracked end to end.
type Offer struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	LeadID     uuid.UUID
	ProposalID *uuid.UUID
	ToEmail    string
	ToName     string
	Subject    string
	BodyHTML   string
	Status     string
	// Token is the opaque identifier baked into tracking URLs. It carries
	// no tenant or lead information.
	Token     string
	TargetURL string
	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is one entry in an offer's tracking log.
type Event struct {
	ID        uuid.UUID
	OfferID   uuid.UUID
	Type      string
	Detail    string
	CreatedAt time.Time
}

// BlacklistEntry is a suppressed email address.
type BlacklistEntry struct {
	TenantID  uuid.UUID
	Email     string
	Reason    string
	CreatedAt time.Time
}

// Repository persists outreach data scoped to a tenant.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates an outreach repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const offerColumns = `id, tenant_id, lead_id, proposal_id, to_email, to_name, subject,
	body_html, status, token, target_url, sent_at, created_at, updated_at`

func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	err := row.Scan(&o.ID, &o.TenantID, &o.LeadID, &o.ProposalID, &o.ToEmail, &o.ToName,
		&o.Subject, &o.BodyHTML, &o.Status, &o.Token, &o.TargetURL, &o.SentAt,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// CreateOffer inserts a draft offer.
func (r *Repository) CreateOffer(ctx context.Context, o *Offer) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO offers (id, tenant_id, lead_id, proposal_id, to_email, to_name,
			subject, body_html, status, token, target_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		o.ID, o.TenantID, o.LeadID, o.ProposalID, o.ToEmail, o.ToName,
		o.Subject, o.BodyHTML, o.Status, o.Token, o.TargetURL,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("offer token collision")
		}
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

// GetOffer fetches an offer within the tenant.
func (r *Repository) GetOffer(ctx context.Context, tenantID, id uuid.UUID) (Offer, error) {
	offer, err := scanOffer(r.pool.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, apperr.NotFound("offer not found")
		}
		return Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return offer, nil
}

// GetOfferByToken fetches an offer by its tracking token. Tracking endpoints
// are unauthenticated, so this is the only lookup not scoped by tenant.
func (r *Repository) GetOfferByToken(ctx context.Context, token string) (Offer, error) {
	offer, err := scanOffer(r.pool.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE token = $1`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, apperr.NotFound("offer not found")
		}
		return Offer{}, fmt.Errorf("get offer by token: %w", err)
	}
	return offer, nil
}

// ListOffers returns offers for a tenant, optionally filtered by status.
func (r *Repository) ListOffers(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]Offer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT ` + offerColumns + ` FROM offers WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// ListOffersForLead returns all offers sent to a lead, newest first.
func (r *Repository) ListOffersForLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]Offer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+offerColumns+` FROM offers
		 WHERE tenant_id = $1 AND lead_id = $2
		 ORDER BY created_at DESC`,
		tenantID, leadID)
	if err != nil {
		return nil, fmt.Errorf("list offers for lead: %w", err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offers for lead: %w", err)
	}
	return offers, nil
}

// TransitionStatus moves an offer between statuses with an optimistic guard
// on the current status. Returns false when the offer was not in fromStatus,
// which callers use to make tracking callbacks idempotent.
func (r *Repository) TransitionStatus(ctx context.Context, offerID uuid.UUID, fromStatus, toStatus string) (bool, error) {
	query := `UPDATE offers SET status = $3, updated_at = now()`
	if toStatus == "sent" {
		query += `, sent_at = now()`
	}
	query += ` WHERE id = $1 AND status = $2`

	tag, err := r.pool.Exec(ctx, query, offerID, fromStatus, toStatus)
	if err != nil {
		return false, fmt.Errorf("transition offer status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordEvent appends an entry to the offer's tracking log.
func (r *Repository) RecordEvent(ctx context.Context, offerID uuid.UUID, eventType, detail string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO offer_events (id, offer_id, type, detail)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), offerID, eventType, detail)
	if err != nil {
		return fmt.Errorf("record offer event: %w", err)
	}
	return nil
}

// ListEvents returns the tracking log for an offer, oldest first.
func (r *Repository) ListEvents(ctx context.Context, offerID uuid.UUID) ([]Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, offer_id, type, detail, created_at
		 FROM offer_events WHERE offer_id = $1
		 ORDER BY created_at`,
		offerID)
	if err != nil {
		return nil, fmt.Errorf("list offer events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.OfferID, &e.Type, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan offer event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offer events: %w", err)
	}
	return events, nil
}

// AddToBlacklist suppresses an address. Adding an already suppressed
// address is a no-op.
func (r *Repository) AddToBlacklist(ctx context.Context, tenantID uuid.UUID, email, reason string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO email_blacklist (tenant_id, email, reason)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id, email) DO NOTHING`,
		tenantID, normalizeEmail(email), reason)
	if err != nil {
		return fmt.Errorf("add to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether an address is suppressed for the tenant.
func (r *Repository) IsBlacklisted(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM email_blacklist WHERE tenant_id = $1 AND email = $2)`,
		tenantID, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return exists, nil
}

// ListBlacklist returns the tenant's suppression list, newest first.
func (r *Repository) ListBlacklist(ctx context.Context, tenantID uuid.UUID) ([]BlacklistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tenant_id, email, reason, created_at
		 FROM email_blacklist WHERE tenant_id = $1
		 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list blacklist: %w", err)
	}
	defer rows.Close()

	var entries []BlacklistEntry
	for rows.Next() {
		var e BlacklistEntry
		if err := rows.Scan(&e.TenantID, &e.Email, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blacklist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blacklist: %w", err)
	}
	return entries, nil
}

// RemoveFromBlacklist lifts a suppression.
func (r *Repository) RemoveFromBlacklist(ctx context.Context, tenantID uuid.UUID, email string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM email_blacklist WHERE tenant_id = $1 AND email = $2`,
		tenantID, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("remove from blacklist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("address is not blacklisted")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
