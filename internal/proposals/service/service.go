// Package service orchestrates AI proposal generation and mockup handling.
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	analysissvc "github.com/mesour/brick-offers-sub007/internal/analysis/service"
	domainevents "github.com/mesour/brick-offers-sub007/internal/events"
	leadsrepo "github.com/mesour/brick-offers-sub007/internal/leads/repository"
	"github.com/mesour/brick-offers-sub007/internal/proposals/ai"
	"github.com/mesour/brick-offers-sub007/internal/proposals/repository"
	"github.com/mesour/brick-offers-sub007/internal/proposals/storage"
	"github.com/mesour/brick-offers-sub007/platform/apperr"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// LeadLookup gives the proposal service read access to leads.
type LeadLookup interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (leadsrepo.Lead, error)
}

// Enqueuer schedules a generation job on the task queue. Nil means jobs are
// processed inline when requested.
type Enqueuer interface {
	EnqueueProposal(ctx context.Context, tenantID, jobID uuid.UUID) error
}

// Service manages proposals and their generation jobs.
type Service struct {
	repo      *repository.Repository
	leads     LeadLookup
	analysis  *analysissvc.Service
	generator *ai.Generator
	store     *storage.Store
	enqueuer  Enqueuer
	bus       events.Bus
	log       *logger.Logger
}

// New creates a proposal service.
func New(repo *repository.Repository, leads LeadLookup, analysis *analysissvc.Service, generator *ai.Generator, store *storage.Store, enqueuer Enqueuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		leads:     leads,
		analysis:  analysis,
		generator: generator,
		store:     store,
		enqueuer:  enqueuer,
		bus:       bus,
		log:       log,
	}
}

// Request creates a generation job for a lead and queues it. With no queue
// configured the job runs before Request returns.
func (s *Service) Request(ctx context.Context, tenantID, leadID uuid.UUID) (repository.Job, error) {
	if s.generator == nil {
		return repository.Job{}, apperr.New(apperr.KindValidation, "AI proposal generation is not configured")
	}
	if _, err := s.leads.GetByID(ctx, tenantID, leadID); err != nil {
		return repository.Job{}, err
	}

	job := repository.Job{
		ID:       uuid.New(),
		TenantID: tenantID,
		LeadID:   leadID,
	}
	if err := s.repo.CreateJob(ctx, &job); err != nil {
		return repository.Job{}, err
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueProposal(ctx, tenantID, job.ID); err != nil {
			// The job row stays queued; a later worker sweep or manual retry
			// can still pick it up.
			s.log.Error("enqueue proposal job failed", "jobId", job.ID, "error", err)
			return job, nil
		}
		return job, nil
	}

	if err := s.Generate(ctx, tenantID, job.ID); err != nil {
		return repository.Job{}, err
	}
	return s.repo.GetJob(ctx, tenantID, job.ID)
}

// Generate runs one queued job to completion. Called by the queue worker.
func (s *Service) Generate(ctx context.Context, tenantID, jobID uuid.UUID) error {
	job, err := s.repo.GetJob(ctx, tenantID, jobID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkJobRunning(ctx, job.ID); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// Duplicate delivery; the first one is handling it.
			return nil
		}
		return err
	}

	proposal, err := s.generate(ctx, job)
	if err != nil {
		if failErr := s.repo.FailJob(ctx, job.ID, err.Error()); failErr != nil {
			return failErr
		}
		return err
	}

	if err := s.repo.CompleteJob(ctx, job.ID, proposal.ID); err != nil {
		return err
	}

	s.bus.Publish(ctx, domainevents.ProposalGenerated{
		BaseEvent:  domainevents.NewBaseEvent(),
		ProposalID: proposal.ID,
		JobID:      job.ID,
		LeadID:     job.LeadID,
		TenantID:   tenantID,
	})
	return nil
}

func (s *Service) generate(ctx context.Context, job repository.Job) (repository.Proposal, error) {
	lead, err := s.leads.GetByID(ctx, job.TenantID, job.LeadID)
	if err != nil {
		return repository.Proposal{}, err
	}

	input := ai.Input{
		CompanyName: lead.CompanyName,
		Domain:      lead.Domain,
		TotalScore:  lead.TotalScore,
		LeadStatus:  lead.Status.String(),
	}
	if run, issues, err := s.analysis.LatestForLead(ctx, job.TenantID, job.LeadID); err == nil {
		input.TotalScore = run.TotalScore
		input.LeadStatus = run.LeadStatus.String()
		for _, issue := range issues {
			input.Findings = append(input.Findings, ai.Finding{
				Category: issue.Category,
				Severity: issue.Severity,
				Title:    issue.Title,
			})
		}
	}

	body, err := s.generator.Generate(ctx, input)
	if err != nil {
		return repository.Proposal{}, err
	}

	proposal := repository.Proposal{
		ID:       uuid.New(),
		TenantID: job.TenantID,
		LeadID:   job.LeadID,
		Title:    fmt.Sprintf("Website redesign proposal for %s", displayName(lead)),
		Body:     body,
	}
	if err := s.repo.CreateProposal(ctx, &proposal); err != nil {
		return repository.Proposal{}, err
	}
	return proposal, nil
}

func displayName(lead leadsrepo.Lead) string {
	if lead.CompanyName != "" {
		return lead.CompanyName
	}
	return lead.Domain
}

// Get returns a proposal.
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (repository.Proposal, error) {
	return s.repo.GetProposal(ctx, tenantID, id)
}

// Delete removes a proposal and its stored mockup, if any.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	proposal, err := s.repo.GetProposal(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if proposal.MockupObject != "" {
		// Best effort; the row delete still proceeds.
		if err := s.store.Delete(ctx, proposal.MockupObject); err != nil {
			s.log.Error("delete mockup object failed", "proposalId", id, "error", err)
		}
	}
	return s.repo.DeleteProposal(ctx, tenantID, id)
}

// GetJob returns a generation job.
func (s *Service) GetJob(ctx context.Context, tenantID, id uuid.UUID) (repository.Job, error) {
	return s.repo.GetJob(ctx, tenantID, id)
}

// ListForLead returns all proposals for a lead.
func (s *Service) ListForLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]repository.Proposal, error) {
	return s.repo.ListProposalsForLead(ctx, tenantID, leadID)
}

// UploadMockup stores a mockup image for a proposal.
func (s *Service) UploadMockup(ctx context.Context, tenantID, proposalID uuid.UUID, contentType, ext string, r io.Reader, size int64) error {
	if _, err := s.repo.GetProposal(ctx, tenantID, proposalID); err != nil {
		return err
	}

	objectName, err := s.store.Upload(ctx, storage.ObjectName(tenantID, proposalID, ext), contentType, r, size)
	if err != nil {
		return err
	}
	return s.repo.SetMockupObject(ctx, tenantID, proposalID, objectName)
}

// MockupURL returns a short-lived download URL for the proposal's mockup.
func (s *Service) MockupURL(ctx context.Context, tenantID, proposalID uuid.UUID) (string, error) {
	proposal, err := s.repo.GetProposal(ctx, tenantID, proposalID)
	if err != nil {
		return "", err
	}
	if proposal.MockupObject == "" {
		return "", apperr.NotFound("proposal has no mockup")
	}
	return s.store.PresignedURL(ctx, proposal.MockupObject)
}
