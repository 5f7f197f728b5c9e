// Package catalog provides the service catalog bounded context.
package catalog

import (
	apphttp "homeserve_backend/internal/http"
	"homeserve_backend/internal/catalog/handler"
	"homeserve_backend/internal/catalog/repository"
	"homeserve_backend/internal/catalog/service"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/services", m.handler.ListActive)
	ctx.Protected.GET("/services/:id", m.handler.GetByID)

	admin := ctx.Admin.Group("/services")
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Create)
	admin.PUT("/:id", m.handler.Update)
	admin.PATCH("/:id/activate", m.handler.Activate)
	admin.PATCH("/:id/deactivate", m.handler.Deactivate)
	admin.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
