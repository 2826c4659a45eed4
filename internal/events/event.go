// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/mesour/brick-offers-sub007/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new admin user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID   uuid.UUID `json:"userId"`
	TenantID uuid.UUID `json:"tenantId"`
	Email    string    `json:"email"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Discovery Domain Events
// =============================================================================

// WebsiteDiscovered is published when a discovery source finds a new
// candidate client website.
type WebsiteDiscovered struct {
	BaseEvent
	WebsiteID uuid.UUID `json:"websiteId"`
	LeadID    uuid.UUID `json:"leadId"`
	TenantID  uuid.UUID `json:"tenantId"`
	Domain    string    `json:"domain"`
	Source    string    `json:"source"`
}

func (e WebsiteDiscovered) EventName() string { return "discovery.website.discovered" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created, manually or by discovery.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	TenantID   uuid.UUID `json:"tenantId"`
	WebsiteURL string    `json:"websiteUrl"`
	Source     string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when scoring moves a lead to a new quality tier.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	TenantID  uuid.UUID `json:"tenantId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Score     int       `json:"score"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// =============================================================================
// Analysis Domain Events
// =============================================================================

// AnalysisCompleted is published when a website analysis run finishes.
type AnalysisCompleted struct {
	BaseEvent
	RunID       uuid.UUID `json:"runId"`
	LeadID      uuid.UUID `json:"leadId"`
	TenantID    uuid.UUID `json:"tenantId"`
	TotalScore  int       `json:"totalScore"`
	Status      string    `json:"status"`
	IssueCount  int       `json:"issueCount"`
	HasCritical bool      `json:"hasCritical"`
}

func (e AnalysisCompleted) EventName() string { return "analysis.run.completed" }

// AnalysisFailed is published when a website cannot be analyzed.
type AnalysisFailed struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	Reason   string    `json:"reason"`
}

func (e AnalysisFailed) EventName() string { return "analysis.run.failed" }

// =============================================================================
// Proposals Domain Events
// =============================================================================

// ProposalGenerated is published when an AI proposal generation job completes.
type ProposalGenerated struct {
	BaseEvent
	ProposalID uuid.UUID `json:"proposalId"`
	JobID      uuid.UUID `json:"jobId"`
	LeadID     uuid.UUID `json:"leadId"`
	TenantID   uuid.UUID `json:"tenantId"`
}

func (e ProposalGenerated) EventName() string { return "proposals.proposal.generated" }

// =============================================================================
// Outreach Domain Events
// =============================================================================

// OfferSent is published when an offer email has been handed to the provider.
type OfferSent struct {
	BaseEvent
	OfferID  uuid.UUID `json:"offerId"`
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	ToEmail  string    `json:"toEmail"`
}

func (e OfferSent) EventName() string { return "outreach.offer.sent" }

// OfferOpened is published the first time the tracking pixel for an offer fires.
type OfferOpened struct {
	BaseEvent
	OfferID  uuid.UUID `json:"offerId"`
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
}

func (e OfferOpened) EventName() string { return "outreach.offer.opened" }

// OfferClicked is published the first time the recipient follows the offer link.
type OfferClicked struct {
	BaseEvent
	OfferID  uuid.UUID `json:"offerId"`
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
}

func (e OfferClicked) EventName() string { return "outreach.offer.clicked" }

// EmailBlacklisted is published when an address is added to the suppression list.
type EmailBlacklisted struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	Email    string    `json:"email"`
	Reason   string    `json:"reason"`
}

func (e EmailBlacklisted) EventName() string { return "outreach.email.blacklisted" }
