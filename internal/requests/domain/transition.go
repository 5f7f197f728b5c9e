package domain

import (
	"fmt"

	"homeserve_backend/platform/apperr"

	"github.com/google/uuid"
)

// Event is a lifecycle event applied to a service request.
type Event string

const (
	EventAssign   Event = "assign"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
)

// ParseEvent converts a wire-level event string into an Event.
func ParseEvent(value string) (Event, bool) {
	event := Event(value)
	switch event {
	case EventAssign, EventReject, EventCancel, EventComplete:
		return event, true
	}
	return "", false
}

// Actor is the already-authenticated identity applying a transition.
// It is passed explicitly into every lifecycle call; the engine never reads
// ambient request state.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// transition is one row of the lifecycle table.
type transition struct {
	from  Status
	event Event
	role  Role
	to    Status
}

// transitions is the complete lifecycle table. Anything not listed here is
// an invalid transition, never a silent no-op.
var transitions = []transition{
	{StatusRequested, EventAssign, RoleProfessional, StatusAssigned},
	{StatusRequested, EventReject, RoleProfessional, StatusRejected},
	{StatusRequested, EventCancel, RoleCustomer, StatusCancelled},
	{StatusAssigned, EventComplete, RoleProfessional, StatusCompleted},
	{StatusAssigned, EventCancel, RoleCustomer, StatusCancelled},
}

// Next validates status/event/role and returns the target status.
// A status/event pair outside the table yields KindInvalidTransition; a pair
// that exists but not for the actor's role yields KindForbidden. Ownership
// checks (request belongs to this customer, professional matches the
// assignment) are the caller's responsibility.
func Next(current Status, event Event, role Role) (Status, error) {
	eventDefined := false
	for _, t := range transitions {
		if t.from != current || t.event != event {
			continue
		}
		eventDefined = true
		if t.role == role {
			return t.to, nil
		}
	}

	if eventDefined {
		return "", apperr.Forbidden(fmt.Sprintf("role %s may not %s a %s request", role, event, current))
	}
	return "", apperr.InvalidTransition(fmt.Sprintf("cannot %s a request in status %s", event, current))
}
