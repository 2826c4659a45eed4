// Package analysis wires the website analysis bounded context.
package analysis

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/analysis/fetcher"
	"github.com/mesour/brick-offers-sub007/internal/analysis/handler"
	"github.com/mesour/brick-offers-sub007/internal/analysis/repository"
	"github.com/mesour/brick-offers-sub007/internal/analysis/service"
	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// Module bundles the analysis context for route registration.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule constructs the analysis module. The enqueuer may be nil, in
// which case triggered analyses run inline.
func NewModule(pool *pgxpool.Pool, leads service.LeadLookup, cfg config.AnalysisConfig, enqueuer handler.Enqueuer, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, fetcher.New(cfg), bus, log)
	return &Module{
		handler: handler.New(svc, enqueuer),
		service: svc,
	}
}

// Service exposes the analysis service to the task queue worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name identifies the module in startup logs.
func (m *Module) Name() string { return "analysis" }

// RegisterRoutes mounts analysis routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}
