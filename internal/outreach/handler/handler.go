// Package handler provides HTTP handlers for the outreach module: the
// authenticated admin API and the public tracking endpoints.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/outreach/repository"
	"github.com/mesour/brick-offers-sub007/internal/outreach/service"
	"github.com/mesour/brick-offers-sub007/platform/httpkit"
	"github.com/mesour/brick-offers-sub007/platform/validator"
)

// Handler handles authenticated outreach requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new outreach handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts outreach admin routes on the authenticated group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/leads/:id/offers", h.CreateDraft)
	group.GET("/leads/:id/offers", h.ListForLead)

	offers := group.Group("/offers")
	offers.GET("", h.List)
	offers.GET("/:id", h.Get)
	offers.POST("/:id/send", h.Send)
	offers.GET("/:id/events", h.Events)

	blacklist := group.Group("/blacklist")
	blacklist.GET("", h.ListBlacklist)
	blacklist.POST("", h.AddToBlacklist)
	blacklist.DELETE("/:email", h.RemoveFromBlacklist)
}

// createOfferRequest is the payload for drafting an offer.
type createOfferRequest struct {
	ProposalID *uuid.UUID `json:"proposalId" validate:"required"`
	Subject    string     `json:"subject" validate:"max=200"`
	TargetURL  string     `json:"targetUrl" validate:"required,url"`
}

type blacklistRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Reason string `json:"reason" validate:"max=200"`
}

// offerResponse is the API representation of an offer.
type offerResponse struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     uuid.UUID  `json:"leadId"`
	ProposalID *uuid.UUID `json:"proposalId,omitempty"`
	ToEmail    string     `json:"toEmail"`
	ToName     string     `json:"toName,omitempty"`
	Subject    string     `json:"subject"`
	Status     string     `json:"status"`
	TargetURL  string     `json:"targetUrl"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type eventResponse struct {
	Type      string    `json:"type"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toOfferResponse(o repository.Offer) offerResponse {
	return offerResponse{
		ID:         o.ID,
		LeadID:     o.LeadID,
		ProposalID: o.ProposalID,
		ToEmail:    o.ToEmail,
		ToName:     o.ToName,
		Subject:    o.Subject,
		Status:     o.Status,
		TargetURL:  o.TargetURL,
		SentAt:     o.SentAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// CreateDraft drafts an offer for a lead from a proposal.
// POST /api/v1/leads/:id/offers
func (h *Handler) CreateDraft(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	offer, err := h.svc.CreateDraft(c.Request.Context(), identity.TenantID(), service.DraftInput{
		LeadID:     leadID,
		ProposalID: req.ProposalID,
		Subject:    req.Subject,
		TargetURL:  req.TargetURL,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toOfferResponse(offer))
}

// Send queues a draft offer for delivery.
// POST /api/v1/offers/:id/send
func (h *Handler) Send(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id", nil)
		return
	}

	offer, err := h.svc.Send(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toOfferResponse(offer))
}

// Get returns one offer.
// GET /api/v1/offers/:id
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id", nil)
		return
	}

	offer, err := h.svc.Get(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toOfferResponse(offer))
}

// List returns offers, optionally filtered by status.
// GET /api/v1/offers?status=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	offers, err := h.svc.List(c.Request.Context(), identity.TenantID(), c.Query("status"), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		resp = append(resp, toOfferResponse(o))
	}
	httpkit.OK(c, resp)
}

// ListForLead returns all offers for a lead.
// GET /api/v1/leads/:id/offers
func (h *Handler) ListForLead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	offers, err := h.svc.ListForLead(c.Request.Context(), identity.TenantID(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		resp = append(resp, toOfferResponse(o))
	}
	httpkit.OK(c, resp)
}

// Events returns the tracking log of an offer.
// GET /api/v1/offers/:id/events
func (h *Handler) Events(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id", nil)
		return
	}

	events, err := h.svc.Events(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, eventResponse{Type: e.Type, Detail: e.Detail, CreatedAt: e.CreatedAt})
	}
	httpkit.OK(c, resp)
}

// AddToBlacklist suppresses an address manually.
// POST /api/v1/blacklist
func (h *Handler) AddToBlacklist(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req blacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "manual"
	}
	if err := h.svc.AddToBlacklist(c.Request.Context(), identity.TenantID(), req.Email, reason); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// ListBlacklist returns the tenant's suppression list.
// GET /api/v1/blacklist
func (h *Handler) ListBlacklist(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	entries, err := h.svc.ListBlacklist(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, entries)
}

// RemoveFromBlacklist lifts a suppression.
// DELETE /api/v1/blacklist/:email
func (h *Handler) RemoveFromBlacklist(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.RemoveFromBlacklist(c.Request.Context(), identity.TenantID(), c.Param("email")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
