// Package outreach wires the email offer bounded context: drafting offers,
// dispatching them through the configured provider, and the public tracking
// endpoints.
package outreach

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	"github.com/mesour/brick-offers-sub007/internal/outreach/email"
	"github.com/mesour/brick-offers-sub007/internal/outreach/handler"
	"github.com/mesour/brick-offers-sub007/internal/outreach/repository"
	"github.com/mesour/brick-offers-sub007/internal/outreach/service"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
	"github.com/mesour/brick-offers-sub007/platform/validator"
)

// Module bundles the outreach context for route registration.
type Module struct {
	handler  *handler.Handler
	tracking *handler.TrackingHandler
	service  *service.Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule constructs the outreach module. When email delivery is disabled
// in config, offers still move through their lifecycle but nothing leaves
// the process.
func NewModule(pool *pgxpool.Pool, leads service.LeadLookup, proposals service.ProposalLookup, cfg config.EmailConfig, enqueuer service.Enqueuer, bus events.Bus, log *logger.Logger) (*Module, error) {
	sender, err := email.NewSender(cfg)
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, leads, proposals, sender, cfg, enqueuer, bus, log)
	return &Module{
		handler:  handler.New(svc, validator.New()),
		tracking: handler.NewTracking(svc, log),
		service:  svc,
	}, nil
}

// Name identifies the module in startup logs.
func (m *Module) Name() string { return "outreach" }

// Service exposes the outreach service to the task queue worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the admin API on the authenticated group and the
// tracking endpoints directly on the engine.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
	m.tracking.RegisterRoutes(ctx.Engine)
}
