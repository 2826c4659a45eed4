// Package auth wires the authentication bounded context.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesour/brick-offers-sub007/internal/auth/handler"
	"github.com/mesour/brick-offers-sub007/internal/auth/repository"
	"github.com/mesour/brick-offers-sub007/internal/auth/service"
	apphttp "github.com/mesour/brick-offers-sub007/internal/http"
	"github.com/mesour/brick-offers-sub007/platform/config"
	"github.com/mesour/brick-offers-sub007/platform/events"
	"github.com/mesour/brick-offers-sub007/platform/logger"
	"github.com/mesour/brick-offers-sub007/platform/validator"
)

// Module bundles the auth context for route registration.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

var _ apphttp.Module = (*Module)(nil)

// NewModule constructs the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, validator.New())
	return &Module{handler: h, service: svc}
}

// Service exposes the auth service for composition-root wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Name identifies the module in startup logs.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts auth routes. Public endpoints sit behind the
// stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
}
