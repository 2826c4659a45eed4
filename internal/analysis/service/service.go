// Package service orchestrates website analysis runs.
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mesour/brick-offers-sub007/internal/analysis/analyzers"
	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/analysis/repository"
	domainevents "github.com/mesour/brick-offers-sub007/internal/events"
	leadsrepo "github.com/mesour/brick-offers-sub007/internal/leads/repository"
	"github.com/mesour/brick-offers-sub007/internal/scoring"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// LeadLookup gives the analysis service read access to leads without
// depending on the leads module wiring.
type LeadLookup interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (leadsrepo.Lead, error)
}

// Service runs analyses and records their outcome.
type Service struct {
	repo      *repository.Repository
	leads     LeadLookup
	fetcher   *fetcher.Fetcher
	analyzers []analyzers.Analyzer
	bus       events.Bus
	log       *logger.Logger
}

// New creates an analysis service with the full analyzer set.
func New(repo *repository.Repository, leads LeadLookup, f *fetcher.Fetcher, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		leads:     leads,
		fetcher:   f,
		analyzers: analyzers.All(),
		bus:       bus,
		log:       log,
	}
}

// Analyze fetches the lead's website, runs every analyzer, scores the
// findings and persists the run. The lead itself is updated by the leads
// module reacting to the AnalysisCompleted event.
func (s *Service) Analyze(ctx context.Context, tenantID, leadID uuid.UUID) (repository.Run, error) {
	lead, err := s.leads.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return repository.Run{}, err
	}

	run := repository.Run{
		ID:         uuid.New(),
		TenantID:   tenantID,
		LeadID:     leadID,
		WebsiteURL: "https://" + lead.Domain,
	}
	if err := s.repo.CreateRun(ctx, &run); err != nil {
		return repository.Run{}, err
	}

	page, err := s.fetcher.Fetch(ctx, lead.Domain)
	if err != nil {
		s.log.Warn("analysis fetch failed", "leadId", leadID, "domain", lead.Domain, "error", err)
		if failErr := s.repo.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			return repository.Run{}, failErr
		}
		run.Status = repository.RunStatusFailed
		run.Error = err.Error()
		s.bus.Publish(ctx, domainevents.AnalysisFailed{
			BaseEvent: domainevents.NewBaseEvent(),
			LeadID:    leadID,
			TenantID:  tenantID,
			Reason:    err.Error(),
		})
		return run, nil
	}

	issues := s.runAnalyzers(ctx, page)
	result := scoring.Calculate(issues)
	hasCritical := scoring.HasCritical(issues)
	status := scoring.DetermineLeadStatus(result.TotalScore, hasCritical)

	run.TotalScore = result.TotalScore
	run.LeadStatus = status
	run.HasCritical = hasCritical
	run.CategoryScores = make(map[string]int, len(result.CategoryScores))
	for cat, score := range result.CategoryScores {
		run.CategoryScores[cat.String()] = score
	}

	if err := s.repo.CompleteRun(ctx, &run, issues); err != nil {
		return repository.Run{}, err
	}

	s.bus.Publish(ctx, domainevents.AnalysisCompleted{
		BaseEvent:   domainevents.NewBaseEvent(),
		RunID:       run.ID,
		LeadID:      leadID,
		TenantID:    tenantID,
		TotalScore:  result.TotalScore,
		Status:      status.String(),
		IssueCount:  len(issues),
		HasCritical: hasCritical,
	})

	s.log.Info("analysis completed",
		"leadId", leadID,
		"totalScore", result.TotalScore,
		"status", status.String(),
		"issues", len(issues))

	return run, nil
}

// runAnalyzers executes all analyzers concurrently over the same page.
// Analyzers only read the page, so no locking beyond the result slice is
// needed.
func (s *Service) runAnalyzers(ctx context.Context, page *fetcher.Page) []scoring.Issue {
	var (
		mu     sync.Mutex
		issues []scoring.Issue
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range s.analyzers {
		g.Go(func() error {
			found := a.Analyze(gctx, page)
			mu.Lock()
			issues = append(issues, found...)
			mu.Unlock()
			return nil
		})
	}
	// Analyzers never return errors, but Wait also propagates ctx cancellation.
	_ = g.Wait()

	return issues
}

// GetRun returns a run with its recorded issues.
func (s *Service) GetRun(ctx context.Context, tenantID, runID uuid.UUID) (repository.Run, []repository.Issue, error) {
	run, err := s.repo.GetRun(ctx, tenantID, runID)
	if err != nil {
		return repository.Run{}, nil, err
	}
	issues, err := s.repo.ListIssues(ctx, run.ID)
	if err != nil {
		return repository.Run{}, nil, err
	}
	return run, issues, nil
}

// LatestForLead returns the newest run for a lead with its issues.
func (s *Service) LatestForLead(ctx context.Context, tenantID, leadID uuid.UUID) (repository.Run, []repository.Issue, error) {
	run, err := s.repo.LatestRunForLead(ctx, tenantID, leadID)
	if err != nil {
		return repository.Run{}, nil, err
	}
	issues, err := s.repo.ListIssues(ctx, run.ID)
	if err != nil {
		return repository.Run{}, nil, err
	}
	return run, issues, nil
}

// HistoryForLead returns all runs for a lead.
func (s *Service) HistoryForLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]repository.Run, error) {
	return s.repo.ListRunsForLead(ctx, tenantID, leadID)
}
