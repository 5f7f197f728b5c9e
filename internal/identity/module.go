// Package identity provides the accounts bounded context: registration,
// login, profiles, and admin moderation of professionals.
package identity

import (
	apphttp "homeserve_backend/internal/http"
	"homeserve_backend/internal/identity/handler"
	"homeserve_backend/internal/identity/repository"
	"homeserve_backend/internal/identity/service"
	"homeserve_backend/platform/events"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the identity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the identity module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg service.Config, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts account routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	auth := ctx.V1.Group("/auth")
	auth.Use(ctx.AuthRateLimiter.RateLimit())
	auth.POST("/register/customer", m.handler.RegisterCustomer)
	auth.POST("/register/professional", m.handler.RegisterProfessional)
	auth.POST("/login", m.handler.Login)

	ctx.Protected.GET("/professionals/:id", m.handler.GetProfessionalByID)

	ctx.Customer.GET("/profile", m.handler.GetCustomerProfile)
	ctx.Customer.PUT("/profile", m.handler.UpdateCustomerProfile)
	ctx.Professional.GET("/profile", m.handler.GetProfessionalProfile)
	ctx.Professional.PUT("/profile", m.handler.UpdateProfessionalProfile)

	ctx.Admin.GET("/users", m.handler.ListUsers)
	ctx.Admin.POST("/users/:id/block", m.handler.BlockUser)
	ctx.Admin.POST("/users/:id/unblock", m.handler.UnblockUser)
	ctx.Admin.GET("/professionals/pending", m.handler.ListPendingProfessionals)
	ctx.Admin.POST("/professionals/:id/approve", m.handler.ApproveProfessional)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
