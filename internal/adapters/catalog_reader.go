// Package adapters contains thin cross-module adapters so bounded contexts
// depend on their own port interfaces rather than on each other's services.
package adapters

import (
	"context"

	catalogservice "homeserve_backend/internal/catalog/service"
	requestservice "homeserve_backend/internal/requests/service"

	"github.com/google/uuid"
)

// CatalogReaderAdapter exposes the catalog to the requests module for price
// snapshots at request creation.
type CatalogReaderAdapter struct {
	svc *catalogservice.Service
}

// NewCatalogReader creates the catalog adapter for the requests module.
func NewCatalogReader(svc *catalogservice.Service) *CatalogReaderAdapter {
	return &CatalogReaderAdapter{svc: svc}
}

// GetService resolves a catalog entry for the requests module.
func (a *CatalogReaderAdapter) GetService(ctx context.Context, id uuid.UUID) (requestservice.CatalogService, error) {
	svc, err := a.svc.GetByID(ctx, id)
	if err != nil {
		return requestservice.CatalogService{}, err
	}
	return requestservice.CatalogService{
		ID:         svc.ID,
		Name:       svc.Name,
		PriceCents: svc.BasePriceCents,
		IsActive:   svc.IsActive,
	}, nil
}

// Compile-time check against the requests module's port.
var _ requestservice.CatalogReader = (*CatalogReaderAdapter)(nil)
