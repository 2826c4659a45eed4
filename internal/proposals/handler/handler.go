// Package handler provides HTTP handlers for the proposals module.
package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/proposals/repository"
	"github.com/mesour/brick-offers-sub007/internal/proposals/service"
	"github.com/mesour/brick-offers-sub007/platform/httpkit"
)

const maxMockupBytes = 10 << 20

// Handler handles HTTP requests for proposals.
type Handler struct {
	svc *service.Service
}

// New creates a new proposals handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts proposal routes on the authenticated group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/leads/:id/proposals", h.Request)
	group.GET("/leads/:id/proposals", h.ListForLead)

	proposals := group.Group("/proposals")
	proposals.GET("/:id", h.Get)
	proposals.DELETE("/:id", h.Delete)
	proposals.GET("/:id/mockup-url", h.MockupURL)
	proposals.POST("/:id/mockup", h.UploadMockup)
	proposals.GET("/jobs/:id", h.GetJob)
}

// proposalResponse is the API representation of a proposal.
type proposalResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	HasMockup bool      `json:"hasMockup"`
	CreatedAt time.Time `json:"createdAt"`
}

type jobResponse struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     uuid.UUID  `json:"leadId"`
	ProposalID *uuid.UUID `json:"proposalId,omitempty"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

func toProposalResponse(p repository.Proposal) proposalResponse {
	return proposalResponse{
		ID:        p.ID,
		LeadID:    p.LeadID,
		Title:     p.Title,
		Body:      p.Body,
		HasMockup: p.MockupObject != "",
		CreatedAt: p.CreatedAt,
	}
}

func toJobResponse(j repository.Job) jobResponse {
	return jobResponse{
		ID:         j.ID,
		LeadID:     j.LeadID,
		ProposalID: j.ProposalID,
		Status:     j.Status,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		FinishedAt: j.FinishedAt,
	}
}

// Request queues proposal generation for a lead.
// POST /api/v1/leads/:id/proposals
func (h *Handler) Request(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	job, err := h.svc.Request(c.Request.Context(), identity.TenantID(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, toJobResponse(job))
}

// GetJob returns the state of a generation job.
// GET /api/v1/proposals/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid job id", nil)
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), identity.TenantID(), jobID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toJobResponse(job))
}

// Get returns a proposal.
// GET /api/v1/proposals/:id
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid proposal id", nil)
		return
	}

	proposal, err := h.svc.Get(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProposalResponse(proposal))
}

// ListForLead returns all proposals for a lead.
// GET /api/v1/leads/:id/proposals
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

	proposals, err := h.svc.ListForLead(c.Request.Context(), identity.TenantID(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]proposalResponse, 0, len(proposals))
	for _, p := range proposals {
		resp = append(resp, toProposalResponse(p))
	}
	httpkit.OK(c, resp)
}

// Delete removes a proposal and its stored mockup.
// DELETE /api/v1/proposals/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid proposal id", nil)
		return
	}

	err = h.svc.Delete(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// UploadMockup accepts a mockup image as multipart form data.
// POST /api/v1/proposals/:id/mockup
func (h *Handler) UploadMockup(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid proposal id", nil)
		return
	}

	file, err := c.FormFile("mockup")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "mockup file is required", nil)
		return
	}
	if file.Size > maxMockupBytes {
		httpkit.Error(c, http.StatusBadRequest, "mockup file too large", nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		httpkit.Error(c, http.StatusBadRequest, "unsupported mockup format", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "cannot read mockup file", nil)
		return
	}
	defer src.Close()

	err = h.svc.UploadMockup(c.Request.Context(), identity.TenantID(), id, contentType, ext, src, file.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// MockupURL returns a presigned download URL for the mockup.
// GET /api/v1/proposals/:id/mockup-url
func (h *Handler) MockupURL(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid proposal id", nil)
		return
	}

	url, err := h.svc.MockupURL(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"url": url})
}
