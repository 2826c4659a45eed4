// Package leads wires the lead management bounded context.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	"github.com/mesour/brick-offers-sub007/internal/leads/handler"
	"github.com/mesour/brick-offers-sub007/internal/leads/repository"
	"github.com/mesour/brick-offers-sub007/internal/leads/service"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
	"github.com/mesour/brick-offers-sub007/platform/validator"
)

// Module bundles the leads context for route registration.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

var _ apphttp.Module = (*Module)(nil)

// NewModule constructs the leads module and subscribes it to analysis results.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	svc.Subscribe(bus)
	return &Module{
		handler:    handler.New(svc, validator.New()),
		service:    svc,
		repository: repo,
	}
}

// Service exposes the lead service to sibling modules (discovery, analysis).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes read access to leads for sibling modules' lookups.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// Name identifies the module in startup logs.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts lead routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}
