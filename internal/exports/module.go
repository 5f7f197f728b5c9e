// Package exports provides the export job runner bounded context.
package exports

import (
	"homeserve_backend/internal/adapters/storage"
	"homeserve_backend/internal/exports/handler"
	"homeserve_backend/internal/exports/repository"
	"homeserve_backend/internal/exports/service"
	apphttp "homeserve_backend/internal/http"
	"homeserve_backend/internal/scheduler"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the exports module. store and sched may
// be nil when object storage or the task queue is disabled.
func NewModule(pool *pgxpool.Pool, cfg service.Config, store storage.ObjectStore, sched scheduler.SweepScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, cfg, log)
	h := handler.New(svc, sched, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// Service returns the service layer for external use (worker wiring).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/exports")
	admin.POST("/requests", m.handler.RunServiceRequestExport)
	admin.POST("/professionals/:id", m.handler.RunProfessionalExport)
	admin.GET("", m.handler.ListArtifacts)
	admin.GET("/:name", m.handler.DownloadArtifact)
	admin.GET("/:name/url", m.handler.PresignArtifact)
	admin.DELETE("/:name", m.handler.DeleteArtifact)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
