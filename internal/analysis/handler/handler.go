// Package handler provides HTTP handlers for the analysis module.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesour/brick-offers-sub007/internal/analysis/repository"
	"github.com/mesour/brick-offers-sub007/internal/analysis/service"
	"github.com/mesour/brick-offers-sub007/platform/httpkit"
)

// Enqueuer schedules an analysis run on the task queue.
type Enqueuer interface {
	EnqueueAnalysis(ctx context.Context, tenantID, leadID uuid.UUID, targetURL string) error
}

// Handler handles HTTP requests for website analysis.
type Handler struct {
	svc      *service.Service
	enqueuer Enqueuer
}

// New creates a new analysis handler. A nil enqueuer makes Trigger run the
// analysis inline, which is what tests and single-process setups use.
func New(svc *service.Service, enqueuer Enqueuer) *Handler {
	return &Handler{svc: svc, enqueuer: enqueuer}
}

// RegisterRoutes mounts analysis routes on the authenticated group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/leads/:id/analyze", h.Trigger)
	group.GET("/leads/:id/analysis", h.Latest)
	group.GET("/leads/:id/analysis/history", h.History)
	group.GET("/analysis/runs/:id", h.GetRun)
}

// runResponse is the API representation of an analysis run.
type runResponse struct {
	ID             uuid.UUID       `json:"id"`
	LeadID         uuid.UUID       `json:"leadId"`
	WebsiteURL     string          `json:"websiteUrl"`
	Status         string          `json:"status"`
	TotalScore     int             `json:"totalScore"`
	LeadStatus     string          `json:"leadStatus"`
	HasCritical    bool            `json:"hasCritical"`
	IssueCount     int             `json:"issueCount"`
	CategoryScores map[string]int  `json:"categoryScores,omitempty"`
	Error          string          `json:"error,omitempty"`
	StartedAt      time.Time       `json:"startedAt"`
	FinishedAt     *time.Time      `json:"finishedAt,omitempty"`
	Issues         []issueResponse `json:"issues,omitempty"`
}

type issueResponse struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func toRunResponse(run repository.Run, issues []repository.Issue) runResponse {
	resp := runResponse{
		ID:             run.ID,
		LeadID:         run.LeadID,
		WebsiteURL:     run.WebsiteURL,
		Status:         run.Status,
		TotalScore:     run.TotalScore,
		LeadStatus:     run.LeadStatus.String(),
		HasCritical:    run.HasCritical,
		IssueCount:     run.IssueCount,
		CategoryScores: run.CategoryScores,
		Error:          run.Error,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
	for _, i := range issues {
		resp.Issues = append(resp.Issues, issueResponse{
			Category:    i.Category,
			Severity:    i.Severity,
			Code:        i.Code,
			Title:       i.Title,
			Description: i.Description,
		})
	}
	return resp
}

// Trigger queues (or runs) an analysis for a lead.
// POST /api/v1/leads/:id/analyze
func (h *Handler) Trigger(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	if h.enqueuer != nil {
		if err := h.enqueuer.EnqueueAnalysis(c.Request.Context(), identity.TenantID(), leadID, ""); err != nil {
			httpkit.Error(c, http.StatusInternalServerError, "failed to queue analysis", nil)
			return
		}
		httpkit.JSON(c, http.StatusAccepted, gin.H{"queued": true})
		return
	}

	run, err := h.svc.Analyze(c.Request.Context(), identity.TenantID(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toRunResponse(run, nil))
}

// Latest returns the newest analysis run for a lead, with issues.
// GET /api/v1/leads/:id/analysis
func (h *Handler) Latest(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	run, issues, err := h.svc.LatestForLead(c.Request.Context(), identity.TenantID(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toRunResponse(run, issues))
}

// History returns every analysis run for a lead.
// GET /api/v1/leads/:id/analysis/history
func (h *Handler) History(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	runs, err := h.svc.HistoryForLead(c.Request.Context(), identity.TenantID(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run, nil))
	}
	httpkit.OK(c, resp)
}

// GetRun returns one analysis run with its issues.
// GET /api/v1/analysis/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid run id", nil)
		return
	}

	run, issues, err := h.svc.GetRun(c.Request.Context(), identity.TenantID(), runID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toRunResponse(run, issues))
}
