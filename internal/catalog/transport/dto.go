package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateServiceRequest contains data for creating a catalog entry.
type CreateServiceRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	BasePriceCents int64   `json:"basePriceCents" validate:"required,min=1"`
}

// UpdateServiceRequest contains the mutable catalog entry fields.
type UpdateServiceRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	BasePriceCents *int64  `json:"basePriceCents,omitempty" validate:"omitempty,min=1"`
}

// ServiceResponse represents a catalog entry in API responses.
type ServiceResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	BasePriceCents int64     `json:"basePriceCents"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ServiceListResponse wraps a list of catalog entries.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}
