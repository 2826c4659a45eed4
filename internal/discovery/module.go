// Package discovery wires the website discovery bounded context.
package discovery

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/discovery/handler"
	"github.com/mesour/brick-offers-sub007/internal/discovery/repository"
	"github.com/mesour/brick-offers-sub007/internal/discovery/service"
	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	leadssvc "github.com/mesour/brick-offers-sub007/internal/leads/service"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// Module bundles the discovery context for route registration.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule constructs the discovery module. Loading the source catalog can
// fail, so unlike the other modules this constructor returns an error.
func NewModule(pool *pgxpool.Pool, leads *leadssvc.Service, cfg config.DiscoveryConfig, enqueuer service.AnalysisEnqueuer, bus events.Bus, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)
	svc, err := service.New(repo, leads, cfg, enqueuer, bus, log)
	if err != nil {
		return nil, err
	}
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}, nil
}

// Service exposes the discovery service to the task queue worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name identifies the module in startup logs.
func (m *Module) Name() string { return "discovery" }

// RegisterRoutes mounts discovery routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}
