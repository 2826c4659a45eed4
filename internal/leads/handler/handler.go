// Package handler provides HTTP handlers for the leads module.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/leads/repository"
	"github.com/mesour/brick-offers-sub007/internal/leads/service"
	"github.com/mesour/brick-offers-sub007/internal/leads/transport"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
	"github.com/mesour/brick-offers-sub007/platform/httpkit"
	"github.com/mesour/brick-offers-sub007/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler handles HTTP requests for lead management.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts lead routes on the authenticated group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	leads := group.Group("/leads")
	leads.POST("", h.Create)
	leads.GET("", h.List)
	leads.GET("/:id", h.Get)
	leads.PUT("/:id", h.Update)
	leads.DELETE("/:id", h.Delete)
	leads.POST("/:id/notes", h.AddNote)
	leads.GET("/:id/notes", h.ListNotes)
}

// Create registers a new lead.
// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), identity.TenantID(), service.CreateInput{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Domain:      req.Domain,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToLeadResponse(lead))
}

// List returns leads for the tenant with optional filters.
// GET /api/v1/leads?status=&source=&search=&sort=&order=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	filter := repository.ListFilter{
		Source: c.Query("source"),
		Search: c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		status := scoring.ParseLeadStatus(raw)
		if status == scoring.StatusUnknown && raw != "unknown" {
			httpkit.Error(c, http.StatusBadRequest, "invalid status filter", nil)
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("sort"); raw != "" {
		if !repository.ValidSortKey(raw) {
			httpkit.Error(c, http.StatusBadRequest, "invalid sort key", nil)
			return
		}
		filter.Sort = raw
	}
	filter.Asc = c.Query("order") == "asc"
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	leads, total, err := h.svc.List(c.Request.Context(), identity.TenantID(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ListLeadsResponse{
		Leads: make([]transport.LeadResponse, 0, len(leads)),
		Total: total,
	}
	for _, l := range leads {
		resp.Leads = append(resp.Leads, transport.ToLeadResponse(l))
	}
	httpkit.OK(c, resp)
}

// Get returns a single lead.
// GET /api/v1/leads/:id
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Update edits lead contact details.
// PUT /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.UpdateContact(c.Request.Context(), identity.TenantID(), id,
		req.CompanyName, req.ContactName, req.Email, req.Phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Delete removes a lead.
// DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.TenantID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

// AddNote attaches a note to a lead.
// POST /api/v1/leads/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	var req transport.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), identity.TenantID(), id, identity.UserID(), req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToNoteResponse(note))
}

// ListNotes returns all notes for a lead.
// GET /api/v1/leads/:id/notes
func (h *Handler) ListNotes(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, transport.ToNoteResponse(n))
	}
	httpkit.OK(c, resp)
}
