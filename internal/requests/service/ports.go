package service

import (
	"context"

	"github.com/google/uuid"
)

// CatalogService is the point-in-time view of a catalog entry used for the
// price snapshot at request creation.
type CatalogService struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	IsActive   bool
}

// CatalogReader resolves catalog entries at request-creation time.
type CatalogReader interface {
	GetService(ctx context.Context, id uuid.UUID) (CatalogService, error)
}

// ProfessionalReader answers whether a professional can be addressed by a
// new request.
type ProfessionalReader interface {
	IsApprovedProfessional(ctx context.Context, userID uuid.UUID) (bool, error)
}
