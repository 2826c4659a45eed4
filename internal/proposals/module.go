// Package proposals wires the AI proposal bounded context.
package proposals

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	analysissvc "github.com/mesour/brick-offers-sub007/internal/analysis/service"
	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	"github.com/mesour/brick-offers-sub007/internal/proposals/ai"
	"github.com/mesour/brick-offers-sub007/internal/proposals/handler"
	"github.com/mesour/brick-offers-sub007/internal/proposals/repository"
	"github.com/mesour/brick-offers-sub007/internal/proposals/service"
	"github.com/mesour/brick-offers-sub007/internal/proposals/storage"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
)

// Config is the slice of application config the proposals module needs.
type Config interface {
	config.AIConfig
	config.StorageConfig
}

// Module bundles the proposals context for route registration.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule constructs the proposals module. AI and object storage are both
// optional; endpoints depending on them return a validation error when the
// underlying service is not configured.
func NewModule(ctx context.Context, pool *pgxpool.Pool, leads service.LeadLookup, analysis *analysissvc.Service, cfg Config, enqueuer service.Enqueuer, bus events.Bus, log *logger.Logger) (*Module, error) {
	generator, err := ai.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, leads, analysis, generator, store, enqueuer, bus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}, nil
}

// Name identifies the module in startup logs.
func (m *Module) Name() string { return "proposals" }

// Service exposes the proposal service to the task queue worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts proposal routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}
