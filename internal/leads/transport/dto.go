// Package transport defines request and response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/leads/repository"
)

// CreateLeadRequest is the payload for creating a lead manually.
type CreateLeadRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
	ContactName string `json:"contactName" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=32"`
	Domain      string `json:"domain" validate:"required,min=3,max=255"`
}

// UpdateLeadRequest is the payload for editing lead contact details.
type UpdateLeadRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
	ContactName string `json:"contactName" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=32"`
}

// CreateNoteRequest is the payload for attaching a note to a lead.
type CreateNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	WebsiteID      *uuid.UUID `json:"websiteId,omitempty"`
	CompanyName    string     `json:"companyName"`
	ContactName    string     `json:"contactName,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Domain         string     `json:"domain"`
	Status         string     `json:"status"`
	TotalScore     int        `json:"totalScore"`
	HasCritical    bool       `json:"hasCritical"`
	Source         string     `json:"source"`
	LastAnalyzedAt *time.Time `json:"lastAnalyzedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ListLeadsResponse pages leads with a total count.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

// NoteResponse is the API representation of a lead note.
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToLeadResponse maps a lead to its API representation.
func ToLeadResponse(l repository.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		WebsiteID:      l.WebsiteID,
		CompanyName:    l.CompanyName,
		ContactName:    l.ContactName,
		Email:          l.Email,
		Phone:          l.Phone,
		Domain:         l.Domain,
		Status:         l.Status.String(),
		TotalScore:     l.TotalScore,
		HasCritical:    l.HasCritical,
		Source:         l.Source,
		LastAnalyzedAt: l.LastAnalyzedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ToNoteResponse maps a note to its API representation.
func ToNoteResponse(n repository.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		AuthorID:  n.AuthorID,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}
