// Package service implements the offer lifecycle: drafting, delivery and
// tracking callbacks.
package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/auth/token"
	domainevents "github.com/mesour/brick-offers-sub007/internal/events"
	leadsrepo "github.com/mesour/brick-offers-sub007/internal/leads/repository"
	"github.com/mesour/brick-offers-sub007/internal/outreach/email"
	"github.com/mesour/brick-offers-sub007/internal/outreach/repository"
	proposalsrepo "github.com/mesour/brick-offers-sub007/internal/proposals/repository"
	"github.com/mesour/brick-offers-sub007/platform/apperr"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// Event log entry types.
const (
	eventQueued       = "queued"
	eventSent         = "sent"
	eventOpened       = "opened"
	eventClicked      = "clicked"
	eventUnsubscribed = "unsubscribed"
	eventBounced      = "bounced"
	eventFailed       = "failed"
)

const reasonHardBounce = "hard bounce"

// LeadLookup gives the outreach service read access to leads.
type LeadLookup interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (leadsrepo.Lead, error)
}

// ProposalLookup gives the outreach service read access to proposals.
type ProposalLookup interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (proposalsrepo.Proposal, error)
}

// Enqueuer schedules offer dispatch on the task queue. Nil dispatches inline.
type Enqueuer interface {
	EnqueueDispatch(ctx context.Context, tenantID, offerID uuid.UUID) error
}

// Service manages offers end to end.
type Service struct {
	repo      *repository.Repository
	leads     LeadLookup
	proposals ProposalLookup
	sender    email.Sender
	enqueuer  Enqueuer
	bus       events.Bus
	log       *logger.Logger

	fromName    string
	trackingURL string
}

// New creates an outreach service.
func New(repo *repository.Repository, leads LeadLookup, proposals ProposalLookup, sender email.Sender, cfg config.EmailConfig, enqueuer Enqueuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		leads:       leads,
		proposals:   proposals,
		sender:      sender,
		enqueuer:    enqueuer,
		bus:         bus,
		log:         log,
		fromName:    cfg.GetEmailFromName(),
		trackingURL: strings.TrimRight(cfg.GetTrackingBaseURL(), "/"),
	}
}

// DraftInput carries the fields for creating an offer draft.
type DraftInput struct {
	LeadID     uuid.UUID
	ProposalID *uuid.UUID
	Subject    string
	TargetURL  string
}

// CreateDraft builds an offer draft for a lead. The body comes from the
// referenced proposal; the lead must have an email address and must not be
// suppressed.
func (s *Service) CreateDraft(ctx context.Context, tenantID uuid.UUID, input DraftInput) (repository.Offer, error) {
	lead, err := s.leads.GetByID(ctx, tenantID, input.LeadID)
	if err != nil {
		return repository.Offer{}, err
	}
	if lead.Email == "" {
		return repository.Offer{}, apperr.Validation("lead has no email address")
	}

	blacklisted, err := s.repo.IsBlacklisted(ctx, tenantID, lead.Email)
	if err != nil {
		return repository.Offer{}, err
	}
	if blacklisted {
		return repository.Offer{}, apperr.Conflict("recipient has unsubscribed")
	}

	var body string
	if input.ProposalID != nil {
		proposal, err := s.proposals.Get(ctx, tenantID, *input.ProposalID)
		if err != nil {
			return repository.Offer{}, err
		}
		if proposal.LeadID != input.LeadID {
			return repository.Offer{}, apperr.Validation("proposal belongs to a different lead")
		}
		body = proposal.Body
	}
	if body == "" {
		return repository.Offer{}, apperr.Validation("offer needs a proposal to build its body from")
	}
	if input.TargetURL == "" {
		return repository.Offer{}, apperr.Validation("target url is required")
	}

	trackingToken, err := token.GenerateRandomToken(24)
	if err != nil {
		return repository.Offer{}, fmt.Errorf("generate tracking token: %w", err)
	}

	subject := input.Subject
	if subject == "" {
		subject = fmt.Sprintf("An idea for %s", displayName(lead))
	}

	offer := repository.Offer{
		ID:         uuid.New(),
		TenantID:   tenantID,
		LeadID:     input.LeadID,
		ProposalID: input.ProposalID,
		ToEmail:    lead.Email,
		ToName:     lead.ContactName,
		Subject:    subject,
		BodyHTML:   string(textToHTML(body)),
		Status:     StatusDraft,
		Token:      trackingToken,
		TargetURL:  input.TargetURL,
	}
	if err := s.repo.CreateOffer(ctx, &offer); err != nil {
		return repository.Offer{}, err
	}
	return offer, nil
}

// Send queues a draft offer for delivery.
func (s *Service) Send(ctx context.Context, tenantID, offerID uuid.UUID) (repository.Offer, error) {
	offer, err := s.repo.GetOffer(ctx, tenantID, offerID)
	if err != nil {
		return repository.Offer{}, err
	}
	if !CanTransition(offer.Status, StatusQueued) {
		return repository.Offer{}, apperr.Conflict(fmt.Sprintf("offer is %s, only drafts can be sent", offer.Status))
	}

	moved, err := s.repo.TransitionStatus(ctx, offer.ID, offer.Status, StatusQueued)
	if err != nil {
		return repository.Offer{}, err
	}
	if !moved {
		return repository.Offer{}, apperr.Conflict("offer was already queued")
	}
	if err := s.repo.RecordEvent(ctx, offer.ID, eventQueued, ""); err != nil {
		return repository.Offer{}, err
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueDispatch(ctx, tenantID, offer.ID); err != nil {
			return repository.Offer{}, fmt.Errorf("enqueue dispatch: %w", err)
		}
	} else if err := s.Dispatch(ctx, tenantID, offer.ID); err != nil {
		return repository.Offer{}, err
	}

	return s.repo.GetOffer(ctx, tenantID, offerID)
}

// Dispatch delivers one queued offer. Called by the queue worker (or inline
// when no queue is configured). A suppressed recipient fails the offer.
func (s *Service) Dispatch(ctx context.Context, tenantID, offerID uuid.UUID) error {
	offer, err := s.repo.GetOffer(ctx, tenantID, offerID)
	if err != nil {
		return err
	}
	if offer.Status != StatusQueued {
		// Duplicate delivery of the dispatch task.
		return nil
	}

	blacklisted, err := s.repo.IsBlacklisted(ctx, tenantID, offer.ToEmail)
	if err != nil {
		return err
	}
	if blacklisted {
		return s.failOffer(ctx, offer, "recipient unsubscribed before delivery")
	}

	html, err := email.RenderOfferEmail(email.OfferEmailData{
		Title:          offer.Subject,
		Heading:        offer.Subject,
		BodyHTML:       template.HTML(offer.BodyHTML),
		CTALabel:       "See what we would change",
		CTAURL:         s.clickURL(offer.Token),
		UnsubscribeURL: s.unsubscribeURL(offer.Token),
		PixelURL:       s.pixelURL(offer.Token),
		FromName:       s.fromName,
	})
	if err != nil {
		return s.failOffer(ctx, offer, err.Error())
	}

	sendErr := s.sender.Send(ctx, email.Message{
		ToEmail: offer.ToEmail,
		ToName:  offer.ToName,
		Subject: offer.Subject,
		HTML:    html,
	})
	s.log.EmailEvent(s.sender.Provider(), offer.ToEmail, sendErr)
	if sendErr != nil {
		if email.IsPermanent(sendErr) {
			return s.bounceOffer(ctx, offer, sendErr.Error())
		}
		return s.failOffer(ctx, offer, sendErr.Error())
	}

	if _, err := s.repo.TransitionStatus(ctx, offer.ID, StatusQueued, StatusSent); err != nil {
		return err
	}
	if err := s.repo.RecordEvent(ctx, offer.ID, eventSent, s.sender.Provider()); err != nil {
		return err
	}

	s.bus.Publish(ctx, domainevents.OfferSent{
		BaseEvent: domainevents.NewBaseEvent(),
		OfferID:   offer.ID,
		LeadID:    offer.LeadID,
		TenantID:  tenantID,
		ToEmail:   offer.ToEmail,
	})
	return nil
}

func (s *Service) failOffer(ctx context.Context, offer repository.Offer, reason string) error {
	if _, err := s.repo.TransitionStatus(ctx, offer.ID, StatusQueued, StatusFailed); err != nil {
		return err
	}
	return s.repo.RecordEvent(ctx, offer.ID, eventFailed, reason)
}

// bounceOffer handles a hard bounce: the provider told us the mailbox will
// never accept mail, so the recipient is suppressed alongside the status
// change.
func (s *Service) bounceOffer(ctx context.Context, offer repository.Offer, reason string) error {
	if _, err := s.repo.TransitionStatus(ctx, offer.ID, StatusQueued, StatusBounced); err != nil {
		return err
	}
	if err := s.repo.RecordEvent(ctx, offer.ID, eventBounced, reason); err != nil {
		return err
	}
	if err := s.repo.AddToBlacklist(ctx, offer.TenantID, offer.ToEmail, reasonHardBounce); err != nil {
		return err
	}

	s.bus.Publish(ctx, domainevents.EmailBlacklisted{
		BaseEvent: domainevents.NewBaseEvent(),
		TenantID:  offer.TenantID,
		Email:     offer.ToEmail,
		Reason:    reasonHardBounce,
	})
	return nil
}

// TrackOpen records a tracking pixel hit. Only the first open moves the
// status; later hits just extend the event log.
func (s *Service) TrackOpen(ctx context.Context, trackingToken, detail string) error {
	offer, err := s.repo.GetOfferByToken(ctx, trackingToken)
	if err != nil {
		return err
	}
	if err := s.repo.RecordEvent(ctx, offer.ID, eventOpened, detail); err != nil {
		return err
	}

	moved, err := s.repo.TransitionStatus(ctx, offer.ID, StatusSent, StatusOpened)
	if err != nil {
		return err
	}
	if moved {
		s.bus.Publish(ctx, domainevents.OfferOpened{
			BaseEvent: domainevents.NewBaseEvent(),
			OfferID:   offer.ID,
			LeadID:    offer.LeadID,
			TenantID:  offer.TenantID,
		})
	}
	return nil
}

// TrackClick records a link click and returns the redirect target. The
// status moves from sent or opened to clicked exactly once.
func (s *Service) TrackClick(ctx context.Context, trackingToken, detail string) (string, error) {
	offer, err := s.repo.GetOfferByToken(ctx, trackingToken)
	if err != nil {
		return "", err
	}
	if err := s.repo.RecordEvent(ctx, offer.ID, eventClicked, detail); err != nil {
		return "", err
	}

	moved, err := s.repo.TransitionStatus(ctx, offer.ID, StatusSent, StatusClicked)
	if err != nil {
		return "", err
	}
	if !moved {
		moved, err = s.repo.TransitionStatus(ctx, offer.ID, StatusOpened, StatusClicked)
		if err != nil {
			return "", err
		}
	}
	if moved {
		s.bus.Publish(ctx, domainevents.OfferClicked{
			BaseEvent: domainevents.NewBaseEvent(),
			OfferID:   offer.ID,
			LeadID:    offer.LeadID,
			TenantID:  offer.TenantID,
		})
	}

	return offer.TargetURL, nil
}

// Unsubscribe suppresses the offer's recipient for the tenant.
func (s *Service) Unsubscribe(ctx context.Context, trackingToken string) error {
	offer, err := s.repo.GetOfferByToken(ctx, trackingToken)
	if err != nil {
		return err
	}
	if err := s.repo.AddToBlacklist(ctx, offer.TenantID, offer.ToEmail, "unsubscribed"); err != nil {
		return err
	}
	if err := s.repo.RecordEvent(ctx, offer.ID, eventUnsubscribed, ""); err != nil {
		return err
	}

	s.bus.Publish(ctx, domainevents.EmailBlacklisted{
		BaseEvent: domainevents.NewBaseEvent(),
		TenantID:  offer.TenantID,
		Email:     offer.ToEmail,
		Reason:    "unsubscribed",
	})
	return nil
}

// Get returns an offer.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (repository.Offer, error) {
	return s.repo.GetOffer(ctx, tenantID, id)
}

// List returns offers for a tenant, optionally filtered by status.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]repository.Offer, error) {
	if status != "" && !validStatus(status) {
		return nil, apperr.Validation("invalid offer status filter")
	}
	return s.repo.ListOffers(ctx, tenantID, status, limit, offset)
}

// ListForLead returns all offers for a lead.
func (s *Service) ListForLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]repository.Offer, error) {
	return s.repo.ListOffersForLead(ctx, tenantID, leadID)
}

// Events returns the tracking log of an offer.
func (s *Service) Events(ctx context.Context, tenantID, offerID uuid.UUID) ([]repository.Event, error) {
	if _, err := s.repo.GetOffer(ctx, tenantID, offerID); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, offerID)
}

// Blacklist management.

func (s *Service) AddToBlacklist(ctx context.Context, tenantID uuid.UUID, emailAddr, reason string) error {
	if err := s.repo.AddToBlacklist(ctx, tenantID, emailAddr, reason); err != nil {
		return err
	}
	s.bus.Publish(ctx, domainevents.EmailBlacklisted{
		BaseEvent: domainevents.NewBaseEvent(),
		TenantID:  tenantID,
		Email:     emailAddr,
		Reason:    reason,
	})
	return nil
}

func (s *Service) ListBlacklist(ctx context.Context, tenantID uuid.UUID) ([]repository.BlacklistEntry, error) {
	return s.repo.ListBlacklist(ctx, tenantID)
}

func (s *Service) RemoveFromBlacklist(ctx context.Context, tenantID uuid.UUID, emailAddr string) error {
	return s.repo.RemoveFromBlacklist(ctx, tenantID, emailAddr)
}

func (s *Service) pixelURL(token string) string {
	return s.trackingURL + "/t/o/" + token + ".gif"
}

func (s *Service) clickURL(token string) string {
	return s.trackingURL + "/t/c/" + token
}

func (s *Service) unsubscribeURL(token string) string {
	return s.trackingURL + "/t/u/" + token
}

func validStatus(status string) bool {
	switch status {
	case StatusDraft, StatusQueued, StatusSent,
		StatusOpened, StatusClicked, StatusBounced,
		StatusFailed:
		return true
	}
	return false
}

func displayName(lead leadsrepo.Lead) string {
	if lead.CompanyName != "" {
		return lead.CompanyName
	}
	return lead.Domain
}

// textToHTML converts plain proposal text to minimal HTML: escaped, with
// blank-line separated paragraphs.
func textToHTML(text string) template.HTML {
	var sb strings.Builder
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := template.HTMLEscapeString(para)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>")
		sb.WriteString("<p>" + escaped + "</p>\n")
	}
	return template.HTML(sb.String())
}
