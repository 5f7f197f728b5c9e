// Package requests provides the service request lifecycle bounded context:
// creation, assignment, rejection, cancellation, completion, and reviews.
package requests

import (
	apphttp "homeserve_backend/internal/http"
	"homeserve_backend/internal/requests/handler"
	"homeserve_backend/internal/requests/repository"
	"homeserve_backend/internal/requests/service"
	"homeserve_backend/platform/events"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the service requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module with all its dependencies.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, professionals service.ProfessionalReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, professionals, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the lifecycle routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/requests/:id", m.handler.GetByID)

	customer := ctx.Customer.Group("/requests")
	customer.POST("", m.handler.Create)
	customer.GET("", m.handler.ListMine)
	customer.POST("/:id/cancel", m.handler.Cancel)
	customer.POST("/:id/review", m.handler.SubmitReview)

	professional := ctx.Professional.Group("/requests")
	professional.GET("", m.handler.ListAssigned)
	professional.GET("/open", m.handler.ListOpen)
	professional.POST("/:id/assign", m.handler.Assign)
	professional.POST("/:id/reject", m.handler.Reject)
	professional.POST("/:id/complete", m.handler.Complete)

	ctx.Admin.GET("/requests", m.handler.ListAll)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
