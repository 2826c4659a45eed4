// Package service implements lead management business logic.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domainevents "github.com/mesour/brick-offers-sub007/internal/events"
	"github.com/mesour/brick-offers-sub007/internal/leads/repository"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
	"github.com/mesour/brick-offers-sub007/platform/apperr"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
	"github.com/mesour/brick-offers-sub007/platform/phone"
)

// Service implements lead management operations.
type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a lead service.
func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// CreateInput carries the fields accepted when creating a lead manually.
type CreateInput struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Domain      string
	Source      string
}

// Create registers a new lead. The phone number is normalized to E.164 and
// the domain is lowercased before storage. New leads start at StatusUnknown
// until their first analysis run completes.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, input CreateInput) (repository.Lead, error) {
	domain := NormalizeDomain(input.Domain)
	if domain == "" {
		return repository.Lead{}, apperr.Validation("domain is required")
	}

	source := input.Source
	if source == "" {
		source = "manual"
	}

	lead := repository.Lead{
		ID:          uuid.New(),
		TenantID:    tenantID,
		CompanyName: input.CompanyName,
		ContactName: input.ContactName,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       phone.NormalizeE164(input.Phone),
		Domain:      domain,
		Status:      scoring.StatusUnknown,
		Source:      source,
	}
	if err := s.repo.Create(ctx, &lead); err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, domainevents.LeadCreated{
		BaseEvent:  domainevents.NewBaseEvent(),
		LeadID:     lead.ID,
		TenantID:   tenantID,
		WebsiteURL: "https://" + domain,
		Source:     source,
	})

	return lead, nil
}

// CreateFromDiscovery registers a lead found by a discovery source. Unlike
// Create it tolerates an existing lead for the domain and returns it instead.
func (s *Service) CreateFromDiscovery(ctx context.Context, tenantID uuid.UUID, websiteID uuid.UUID, companyName, domain, source string) (repository.Lead, bool, error) {
	domain = NormalizeDomain(domain)

	if existing, err := s.repo.GetByDomain(ctx, tenantID, domain); err == nil {
		return existing, false, nil
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return repository.Lead{}, false, err
	}

	lead := repository.Lead{
		ID:          uuid.New(),
		TenantID:    tenantID,
		WebsiteID:   &websiteID,
		CompanyName: companyName,
		Domain:      domain,
		Status:      scoring.StatusUnknown,
		Source:      source,
	}
	if err := s.repo.Create(ctx, &lead); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// Raced with a concurrent discovery run for the same domain.
			existing, getErr := s.repo.GetByDomain(ctx, tenantID, domain)
			if getErr != nil {
				return repository.Lead{}, false, getErr
			}
			return existing, false, nil
		}
		return repository.Lead{}, false, err
	}

	s.bus.Publish(ctx, domainevents.LeadCreated{
		BaseEvent:  domainevents.NewBaseEvent(),
		LeadID:     lead.ID,
		TenantID:   tenantID,
		WebsiteURL: "https://" + domain,
		Source:     source,
	})

	return lead, true, nil
}

// Get returns a single lead.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// List returns leads matching the filter.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter repository.ListFilter) ([]repository.Lead, int, error) {
	return s.repo.List(ctx, tenantID, filter)
}

// UpdateContact changes the contact details of a lead.
func (s *Service) UpdateContact(ctx context.Context, tenantID, id uuid.UUID, companyName, contactName, email, phoneNumber string) (repository.Lead, error) {
	if err := s.repo.UpdateContact(ctx, tenantID, id, companyName, contactName,
		strings.ToLower(strings.TrimSpace(email)), phone.NormalizeE164(phoneNumber)); err != nil {
		return repository.Lead{}, err
	}
	return s.repo.GetByID(ctx, tenantID, id)
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// AddNote attaches a note to a lead after verifying tenant ownership.
func (s *Service) AddNote(ctx context.Context, tenantID, leadID, authorID uuid.UUID, body string) (repository.Note, error) {
	if _, err := s.repo.GetByID(ctx, tenantID, leadID); err != nil {
		return repository.Note{}, err
	}
	note := repository.Note{
		ID:       uuid.New(),
		LeadID:   leadID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.CreateNote(ctx, &note); err != nil {
		return repository.Note{}, err
	}
	return note, nil
}

// ListNotes returns the notes attached to a lead.
func (s *Service) ListNotes(ctx context.Context, tenantID, leadID uuid.UUID) ([]repository.Note, error) {
	if _, err := s.repo.GetByID(ctx, tenantID, leadID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, leadID)
}

// Subscribe registers event handlers that keep leads in sync with analysis
// results. Called once from the composition root.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe("analysis.run.completed", events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		completed, ok := e.(domainevents.AnalysisCompleted)
		if !ok {
			return nil
		}
		return s.applyAnalysisResult(ctx, completed)
	}))
}

func (s *Service) applyAnalysisResult(ctx context.Context, e domainevents.AnalysisCompleted) error {
	lead, err := s.repo.GetByID(ctx, e.TenantID, e.LeadID)
	if err != nil {
		return err
	}

	newStatus := scoring.ParseLeadStatus(e.Status)
	if newStatus == scoring.StatusUnknown {
		newStatus = scoring.DetermineLeadStatus(e.TotalScore, e.HasCritical)
	}

	if err := s.repo.UpdateScore(ctx, e.TenantID, e.LeadID, newStatus, e.TotalScore, e.HasCritical, time.Now().UTC()); err != nil {
		return err
	}

	if lead.Status != newStatus {
		s.bus.Publish(ctx, domainevents.LeadStatusChanged{
			BaseEvent: domainevents.NewBaseEvent(),
			LeadID:    e.LeadID,
			TenantID:  e.TenantID,
			OldStatus: lead.Status.String(),
			NewStatus: newStatus.String(),
			Score:     e.TotalScore,
		})
	}
	return nil
}

// NormalizeDomain lowercases a domain and strips scheme, www prefix, path
// and port so the same site always maps to one lead.
func NormalizeDomain(raw string) string {
	d := strings.TrimSpace(strings.ToLower(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	return d
}
