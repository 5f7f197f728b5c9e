// Package service implements catalog management: admin CRUD over the services
// customers can request.
package service

import (
	"context"

	"homeserve_backend/internal/catalog/repository"
	"homeserve_backend/internal/catalog/transport"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service manages the service catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create adds a new catalog entry.
func (s *Service) Create(ctx context.Context, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	svc, err := s.repo.Create(ctx, repository.CreateParams{
		Name:           sanitize.Text(req.Name),
		Description:    sanitize.TextPtr(req.Description),
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service created", "id", svc.ID, "name", svc.Name)
	return toResponse(svc), nil
}

// GetByID retrieves a catalog entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toResponse(svc), nil
}

// List returns all catalog entries (admin view).
func (s *Service) List(ctx context.Context) (transport.ServiceListResponse, error) {
	return s.list(ctx, false)
}

// ListActive returns active catalog entries (customer view).
func (s *Service) ListActive(ctx context.Context) (transport.ServiceListResponse, error) {
	return s.list(ctx, true)
}

func (s *Service) list(ctx context.Context, activeOnly bool) (transport.ServiceListResponse, error) {
	services, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}

	items := make([]transport.ServiceResponse, len(services))
	for i, svc := range services {
		items[i] = toResponse(svc)
	}
	return transport.ServiceListResponse{Items: items, Total: len(items)}, nil
}

// Update modifies a catalog entry. Price changes never affect existing
// requests, which carry their own snapshot.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	svc, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Name:           sanitize.TextPtr(req.Name),
		Description:    sanitize.TextPtr(req.Description),
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service updated", "id", svc.ID)
	return toResponse(svc), nil
}

// SetActive activates or deactivates a catalog entry. Deactivation is the
// path for retiring a service that already has requests.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (transport.ServiceResponse, error) {
	svc, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return transport.ServiceResponse{}, err
	}

	s.log.Info("service active flag updated", "id", svc.ID, "active", active)
	return toResponse(svc), nil
}

// Delete removes a catalog entry that no request references.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("service deleted", "id", id)
	return nil
}

func toResponse(svc repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:             svc.ID,
		Name:           svc.Name,
		Description:    svc.Description,
		BasePriceCents: svc.BasePriceCents,
		IsActive:       svc.IsActive,
		CreatedAt:      svc.CreatedAt,
		UpdatedAt:      svc.UpdatedAt,
	}
}
