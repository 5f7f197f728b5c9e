package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequestRequest contains data for creating a new service request.
// ProfessionalID optionally addresses the request to a specific professional.
type CreateRequestRequest struct {
	ServiceID      uuid.UUID  `json:"serviceId" validate:"required"`
	ProfessionalID *uuid.UUID `json:"professionalId,omitempty"`
	Address        string     `json:"address" validate:"required,min=1,max=200"`
	Notes          *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// RejectRequest carries the mandatory reason for rejecting a request.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// SubmitReviewRequest contains a customer's rating of a completed request.
type SubmitReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// ListRequestsQuery contains optional admin list filters.
type ListRequestsQuery struct {
	Status         string `form:"status"`
	ServiceID      string `form:"serviceId"`
	ProfessionalID string `form:"professionalId"`
	CustomerID     string `form:"customerId"`
	From           string `form:"from"`
	To             string `form:"to"`
}

// ServiceRequestResponse represents a service request in API responses.
type ServiceRequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      uuid.UUID  `json:"customerId"`
	ServiceID       uuid.UUID  `json:"serviceId"`
	ProfessionalID  *uuid.UUID `json:"professionalId,omitempty"`
	Status          string     `json:"status"`
	PriceCents      int64      `json:"priceCents"`
	Address         string     `json:"address"`
	Notes           *string    `json:"notes,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	RequestedAt     time.Time  `json:"requestedAt"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}

// ReviewResponse represents a review in API responses. AverageRating is the
// professional's recomputed average after this review.
type ReviewResponse struct {
	ID               uuid.UUID `json:"id"`
	ServiceRequestID uuid.UUID `json:"serviceRequestId"`
	ProfessionalID   uuid.UUID `json:"professionalId"`
	Rating           int       `json:"rating"`
	Comment          *string   `json:"comment,omitempty"`
	AverageRating    float64   `json:"averageRating"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RequestListResponse wraps a list of service requests.
type RequestListResponse struct {
	Items []ServiceRequestResponse `json:"items"`
	Total int                      `json:"total"`
}
