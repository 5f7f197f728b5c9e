package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is a catalog entry customers can request. BasePriceCents is the
// price copied onto new requests at creation time.
type Service struct {
	ID             uuid.UUID
	Name           string
	Description    *string
	BasePriceCents int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateParams contains parameters for creating a catalog entry.
type CreateParams struct {
	Name           string
	Description    *string
	BasePriceCents int64
}

// UpdateParams contains the mutable catalog entry fields.
type UpdateParams struct {
	Name           *string
	Description    *string
	BasePriceCents *int64
}

// Repository provides persistence for the service catalog.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (Service, error)
	List(ctx context.Context, activeOnly bool) ([]Service, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Service, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (Service, error)
	// Delete removes a catalog entry. Entries referenced by any service
	// request cannot be deleted and return KindConflict.
	Delete(ctx context.Context, id uuid.UUID) error
}
