package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExportRow is one service request joined with the denormalized names an
// export artifact needs. Names are resolved at export time, not cached.
type ExportRow struct {
	RequestID        uuid.UUID
	Status           string
	ServiceName      string
	CustomerName     string
	ProfessionalName *string
	PriceCents       int64
	Address          string
	RequestedAt      time.Time
	CompletedAt      *time.Time
}

// Filter is a conjunction of optional export predicates. Nil fields do not
// constrain the result.
type Filter struct {
	Status    *string
	ServiceID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// ProfessionalInfo is the header block of a professional-scoped export.
type ProfessionalInfo struct {
	UserID          uuid.UUID
	Name            string
	Email           string
	ServiceName     string
	ExperienceYears int
	AverageRating   float64
}

// Repository defines the export read queries.
type Repository interface {
	ListRequests(ctx context.Context, filter Filter) ([]ExportRow, error)
	ListRequestsForProfessional(ctx context.Context, professionalID uuid.UUID) ([]ExportRow, error)
	GetProfessionalInfo(ctx context.Context, professionalID uuid.UUID) (ProfessionalInfo, error)
	// ServiceExists reports whether a catalog entry with the given ID exists,
	// so a filter on an unknown service fails instead of matching nothing.
	ServiceExists(ctx context.Context, serviceID uuid.UUID) (bool, error)
}
