// Package handler provides HTTP handlers for the discovery module.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/discovery/service"
	"github.com/mesour/brick-offers-sub007/platform/httpkit"
)

// Handler handles HTTP requests for website discovery.
type Handler struct {
	svc *service.Service
}

// New creates a new discovery handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts discovery routes on the authenticated group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	discovery := group.Group("/discovery")
	discovery.POST("/run", h.Run)
	discovery.GET("/sources", h.ListSources)
	discovery.GET("/websites", h.ListWebsites)
}

// runRequest narrows a manual run. Both fields are optional: an empty body
// runs every enabled source with no query.
type runRequest struct {
	Source string `json:"source"`
	Query  string `json:"query"`
}

// Run triggers a synchronous discovery run for the tenant, either across
// all enabled sources or scoped to one named source. Scheduled runs go
// through the task queue instead; this endpoint exists for manual kicks
// from the admin panel.
// POST /api/v1/discovery/run
func (h *Handler) Run(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req runRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
			return
		}
	}

	var result service.RunResult
	var err error
	if req.Source != "" {
		result, err = h.svc.RunSource(c.Request.Context(), identity.TenantID(), req.Source, req.Query)
	} else {
		result, err = h.svc.Run(c.Request.Context(), identity.TenantID(), req.Query)
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListSources returns the configured catalog with per-source run state.
// GET /api/v1/discovery/sources
func (h *Handler) ListSources(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	sources, err := h.svc.Sources(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, sources)
}

// websiteResponse is the API representation of a discovered website.
type websiteResponse struct {
	ID           uuid.UUID `json:"id"`
	Domain       string    `json:"domain"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Source       string    `json:"source"`
	DiscoveredAt time.Time `json:"discoveredAt"`
}

// ListWebsites returns discovered websites for the tenant.
// GET /api/v1/discovery/websites?limit=&offset=
func (h *Handler) ListWebsites(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sites, err := h.svc.ListWebsites(c.Request.Context(), identity.TenantID(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]websiteResponse, 0, len(sites))
	for _, s := range sites {
		resp = append(resp, websiteResponse{
			ID:           s.ID,
			Domain:       s.Domain,
			URL:          s.URL,
			Title:        s.Title,
			Source:       s.Source,
			DiscoveredAt: s.DiscoveredAt,
		})
	}
	httpkit.OK(c, resp)
}
