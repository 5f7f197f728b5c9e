package repository

import (
	"context"
	"time"

	"homeserve_backend/internal/requests/domain"

	"github.com/google/uuid"
)

// ServiceRequest is the central lifecycle entity. Requests are never deleted;
// terminal states are retained for audit, export, and reporting.
type ServiceRequest struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	ServiceID       uuid.UUID
	ProfessionalID  *uuid.UUID
	Status          domain.Status
	PriceCents      int64
	Address         string
	Notes           *string
	RejectionReason *string
	RequestedAt     time.Time
	RespondedAt     *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Review is a customer's rating of a completed request. At most one exists
// per service request; it is immutable after creation.
type Review struct {
	ID               uuid.UUID
	ServiceRequestID uuid.UUID
	CustomerID       uuid.UUID
	ProfessionalID   uuid.UUID
	Rating           int
	Comment          *string
	CreatedAt        time.Time
}

// CreateParams contains parameters for creating a service request.
// PriceCents is the snapshot copied from the catalog at creation time.
type CreateParams struct {
	CustomerID     uuid.UUID
	ServiceID      uuid.UUID
	ProfessionalID *uuid.UUID
	PriceCents     int64
	Address        string
	Notes          *string
}

// ListFilter is a conjunction of optional service request predicates.
type ListFilter struct {
	Status         *domain.Status
	CustomerID     *uuid.UUID
	ProfessionalID *uuid.UUID
	ServiceID      *uuid.UUID
	From           *time.Time
	To             *time.Time
}

// ReviewParams contains parameters for creating a review.
type ReviewParams struct {
	RequestID  uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Comment    *string
}

// RequestReader provides read operations for service requests.
type RequestReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (ServiceRequest, error)
	List(ctx context.Context, filter ListFilter) ([]ServiceRequest, error)
	// ListOpenForProfessional returns requested requests the professional can
	// act on: unaddressed ones plus those addressed to them.
	ListOpenForProfessional(ctx context.Context, professionalID uuid.UUID) ([]ServiceRequest, error)
	GetReviewByRequest(ctx context.Context, requestID uuid.UUID) (Review, error)
}

// RequestWriter provides lifecycle mutations for service requests.
// Each mutation is a single atomic statement (or transaction); state checks
// live in the WHERE clause so concurrent transitions on the same request
// resolve to exactly one winner.
type RequestWriter interface {
	Create(ctx context.Context, params CreateParams) (ServiceRequest, error)
	// Assign performs the compare-and-swap claim of a requested request.
	// The loser of a concurrent race receives KindAlreadyAssigned.
	Assign(ctx context.Context, requestID, professionalID uuid.UUID) (ServiceRequest, error)
	Reject(ctx context.Context, requestID, professionalID uuid.UUID, reason string) (ServiceRequest, error)
	Cancel(ctx context.Context, requestID, customerID uuid.UUID) (ServiceRequest, error)
	Complete(ctx context.Context, requestID, professionalID uuid.UUID) (ServiceRequest, error)
	// CreateReview inserts the review and recomputes the professional's
	// average rating inside one transaction. Returns the review and the new
	// average.
	CreateReview(ctx context.Context, params ReviewParams) (Review, float64, error)
}

// Repository combines all service request repository operations.
type Repository interface {
	RequestReader
	RequestWriter
}
