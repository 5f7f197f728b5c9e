// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"homeserve_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Identity Domain Events
// =============================================================================

// ProfessionalApproved is published when an admin approves a professional.
type ProfessionalApproved struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
}

func (e ProfessionalApproved) EventName() string { return "identity.professional.approved" }

// =============================================================================
// Service Request Domain Events
// =============================================================================

// RequestCreated is published when a customer creates a service request.
type RequestCreated struct {
	BaseEvent
	RequestID      uuid.UUID  `json:"requestId"`
	CustomerID     uuid.UUID  `json:"customerId"`
	ServiceID      uuid.UUID  `json:"serviceId"`
	ProfessionalID *uuid.UUID `json:"professionalId,omitempty"`
}

func (e RequestCreated) EventName() string { return "requests.request.created" }

// RequestAssigned is published after a professional successfully claims a request.
type RequestAssigned struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	CustomerID     uuid.UUID `json:"customerId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
}

func (e RequestAssigned) EventName() string { return "requests.request.assigned" }

// RequestRejected is published after a professional rejects a request.
type RequestRejected struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	CustomerID     uuid.UUID `json:"customerId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	Reason         string    `json:"reason"`
}

func (e RequestRejected) EventName() string { return "requests.request.rejected" }

// RequestCompleted is published after a professional completes a request.
type RequestCompleted struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	CustomerID     uuid.UUID `json:"customerId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
}

func (e RequestCompleted) EventName() string { return "requests.request.completed" }

// ReviewSubmitted is published after a customer reviews a completed request.
type ReviewSubmitted struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	CustomerID     uuid.UUID `json:"customerId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	Rating         int       `json:"rating"`
}

func (e ReviewSubmitted) EventName() string { return "requests.review.submitted" }
