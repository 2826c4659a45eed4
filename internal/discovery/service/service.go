// Package service implements website discovery runs.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mesour/brick-offers-sub007/internal/discovery/catalog"
	"github.com/mesour/brick-offers-sub007/internal/discovery/repository"
	"github.com/mesour/brick-offers-sub007/internal/discovery/scraper"
	domainevents "github.com/mesour/brick-offers-sub007/internal/events"
	leadssvc "github.com/mesour/brick-offers-sub007/internal/leads/service"
	"github.com/mesour/brick-offers-sub007/platform/apperr"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// AnalysisEnqueuer schedules an analysis run for a freshly discovered lead.
// Implemented by the task queue client; kept as an interface so discovery
// does not depend on the scheduler package.
type AnalysisEnqueuer interface {
	EnqueueAnalysis(ctx context.Context, tenantID, leadID uuid.UUID, targetURL string) error
}

// Service runs discovery sources and turns their findings into leads.
type Service struct {
	repo      *repository.Repository
	leads     *leadssvc.Service
	scraper   *scraper.Scraper
	catalog   *catalog.Catalog
	limiters  map[string]*rate.Limiter
	enqueuer  AnalysisEnqueuer
	bus       events.Bus
	log       *logger.Logger
	maxPerRun int
}

// New creates a discovery service. The source catalog is loaded once at
// construction; edits to the file take effect on restart. Sources with a
// configured rate get their own limiter, shared across runs.
func New(repo *repository.Repository, leads *leadssvc.Service, cfg config.DiscoveryConfig, enqueuer AnalysisEnqueuer, bus events.Bus, log *logger.Logger) (*Service, error) {
	cat, err := catalog.Load(cfg.GetDiscoverySourcesFile())
	if err != nil {
		return nil, err
	}
	limiters := make(map[string]*rate.Limiter, len(cat.Sources))
	for _, src := range cat.Sources {
		if src.RatePerMinute > 0 {
			limiters[src.Name] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(src.RatePerMinute)), 1)
		}
	}
	return &Service{
		repo:      repo,
		leads:     leads,
		scraper:   scraper.New(cfg.GetDiscoveryUserAgent()),
		catalog:   cat,
		limiters:  limiters,
		enqueuer:  enqueuer,
		bus:       bus,
		log:       log,
		maxPerRun: cfg.GetDiscoveryMaxPerRun(),
	}, nil
}

// RunResult summarizes one discovery run.
type RunResult struct {
	SourcesRun int `json:"sourcesRun"`
	Found      int `json:"found"`
	Created    int `json:"created"`
}

// Run walks every enabled source, stores new websites, creates leads for
// them and queues each new lead for analysis. The query is substituted into
// each source's URL template. Source failures are recorded and skipped; a
// run only fails outright when the catalog is empty.
func (s *Service) Run(ctx context.Context, tenantID uuid.UUID, query string) (RunResult, error) {
	sources := s.catalog.Enabled()
	if len(sources) == 0 {
		return RunResult{}, apperr.Validation("no enabled discovery sources configured")
	}

	var result RunResult
	remaining := s.maxPerRun

	for _, src := range sources {
		if remaining <= 0 {
			break
		}

		found, created, err := s.runAndRecord(ctx, tenantID, src, query, remaining)
		if err != nil {
			continue
		}
		result.SourcesRun++
		result.Found += found
		result.Created += created
		remaining -= created
	}

	return result, nil
}

// RunSource runs one named source. Unlike Run, a source failure is returned
// to the caller; a manual per-source kick wants to see why it broke.
func (s *Service) RunSource(ctx context.Context, tenantID uuid.UUID, sourceName, query string) (RunResult, error) {
	src, ok := s.catalog.ByName(sourceName)
	if !ok {
		return RunResult{}, apperr.NotFound("unknown discovery source")
	}
	if !src.Enabled {
		return RunResult{}, apperr.Validation("discovery source is disabled")
	}

	found, created, err := s.runAndRecord(ctx, tenantID, src, query, s.maxPerRun)
	if err != nil {
		return RunResult{}, fmt.Errorf("run source %s: %w", src.Name, err)
	}
	return RunResult{SourcesRun: 1, Found: found, Created: created}, nil
}

// runAndRecord runs one source and persists its run state either way.
func (s *Service) runAndRecord(ctx context.Context, tenantID uuid.UUID, src catalog.Source, query string, limit int) (found, created int, err error) {
	found, created, err = s.runSource(ctx, tenantID, src, query, limit)
	s.log.CrawlEvent(src.Name, found, created, err)

	state := repository.SourceState{Name: src.Name, TenantID: tenantID, LastFound: found}
	if err != nil {
		state.LastError = err.Error()
	}
	if stateErr := s.repo.UpsertSourceState(ctx, state); stateErr != nil {
		s.log.DatabaseError("discovery.source_state", stateErr)
	}
	return found, created, err
}

func (s *Service) runSource(ctx context.Context, tenantID uuid.UUID, src catalog.Source, query string, limit int) (found, created int, err error) {
	candidates, err := s.scraper.Fetch(ctx, src.BuildURL(query), s.limiters[src.Name])
	if err != nil {
		return 0, 0, err
	}
	found = len(candidates)

	if src.MaxResults > 0 && src.MaxResults < limit {
		limit = src.MaxResults
	}

	for _, cand := range candidates {
		if created >= limit {
			break
		}
		isNew, err := s.ingest(ctx, tenantID, src.Name, cand)
		if err != nil {
			return found, created, fmt.Errorf("ingest %s: %w", cand.Domain, err)
		}
		if isNew {
			created++
		}
	}
	return found, created, nil
}

// ingest stores one candidate and its lead. Returns true when the candidate
// was new for this tenant.
func (s *Service) ingest(ctx context.Context, tenantID uuid.UUID, sourceName string, cand scraper.Candidate) (bool, error) {
	site := repository.Website{
		ID:       uuid.New(),
		TenantID: tenantID,
		Domain:   cand.Domain,
		URL:      cand.URL,
		Title:    cand.Title,
		Source:   sourceName,
	}
	if err := s.repo.CreateWebsite(ctx, &site); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return false, nil
		}
		return false, err
	}

	lead, isNew, err := s.leads.CreateFromDiscovery(ctx, tenantID, site.ID, cand.Title, cand.Domain, sourceName)
	if err != nil {
		return false, err
	}

	s.bus.Publish(ctx, domainevents.WebsiteDiscovered{
		BaseEvent: domainevents.NewBaseEvent(),
		WebsiteID: site.ID,
		LeadID:    lead.ID,
		TenantID:  tenantID,
		Domain:    cand.Domain,
		Source:    sourceName,
	})

	if isNew && s.enqueuer != nil {
		if err := s.enqueuer.EnqueueAnalysis(ctx, tenantID, lead.ID, site.URL); err != nil {
			// Analysis can be re-triggered manually; discovery keeps going.
			s.log.Error("enqueue analysis failed", "leadId", lead.ID, "error", err)
		}
	}
	return isNew, nil
}

// Sources returns the configured catalog entries merged with their last run state.
func (s *Service) Sources(ctx context.Context, tenantID uuid.UUID) ([]SourceInfo, error) {
	states, err := s.repo.ListSourceStates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]repository.SourceState, len(states))
	for _, st := range states {
		byName[st.Name] = st
	}

	infos := make([]SourceInfo, 0, len(s.catalog.Sources))
	for _, src := range s.catalog.Sources {
		info := SourceInfo{Source: src}
		if st, ok := byName[src.Name]; ok {
			info.LastRunAt = st.LastRunAt
			info.LastFound = st.LastFound
			info.LastError = st.LastError
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ListWebsites returns discovered websites for the tenant.
func (s *Service) ListWebsites(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]repository.Website, error) {
	return s.repo.ListWebsites(ctx, tenantID, limit, offset)
}

// SourceInfo is a catalog source with its persisted run state.
type SourceInfo struct {
	catalog.Source
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
	LastFound int        `json:"lastFound"`
	LastError string     `json:"lastError,omitempty"`
}
