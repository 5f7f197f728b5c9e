package domain

import (
	"testing"

	"homeserve_backend/platform/apperr"
)

func TestNext_LifecycleTable(t *testing.T) {
	tests := []struct {
		name     string
		from     Status
		event    Event
		role     Role
		want     Status
		wantKind apperr.Kind
	}{
		{"professional assigns requested", StatusRequested, EventAssign, RoleProfessional, StatusAssigned, 0},
		{"professional rejects requested", StatusRequested, EventReject, RoleProfessional, StatusRejected, 0},
		{"customer cancels requested", StatusRequested, EventCancel, RoleCustomer, StatusCancelled, 0},
		{"professional completes assigned", StatusAssigned, EventComplete, RoleProfessional, StatusCompleted, 0},
		{"customer cancels assigned", StatusAssigned, EventCancel, RoleCustomer, StatusCancelled, 0},

		// Defined event, wrong role.
		{"customer cannot assign", StatusRequested, EventAssign, RoleCustomer, "", apperr.KindForbidden},
		{"admin cannot complete", StatusAssigned, EventComplete, RoleAdmin, "", apperr.KindForbidden},
		{"professional cannot cancel", StatusRequested, EventCancel, RoleProfessional, "", apperr.KindForbidden},

		// Event not defined for the status.
		{"cannot complete requested", StatusRequested, EventComplete, RoleProfessional, "", apperr.KindInvalidTransition},
		{"cannot assign assigned", StatusAssigned, EventAssign, RoleProfessional, "", apperr.KindInvalidTransition},
		{"cannot reject assigned", StatusAssigned, EventReject, RoleProfessional, "", apperr.KindInvalidTransition},
		{"completed is terminal", StatusCompleted, EventCancel, RoleCustomer, "", apperr.KindInvalidTransition},
		{"cancelled is terminal", StatusCancelled, EventAssign, RoleProfessional, "", apperr.KindInvalidTransition},
		{"rejected is terminal", StatusRejected, EventComplete, RoleProfessional, "", apperr.KindInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.event, tt.role)
			if tt.wantKind != 0 {
				if err == nil {
					t.Fatalf("expected error, got status %s", got)
				}
				if !apperr.Is(err, tt.wantKind) {
					t.Fatalf("expected kind %v, got %v (%v)", tt.wantKind, apperr.GetKind(err), err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected status %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusCancelled, StatusRejected}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusRequested, StatusAssigned} {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestParseEvent(t *testing.T) {
	if _, ok := ParseEvent("assign"); !ok {
		t.Fatal("expected assign to parse")
	}
	if _, ok := ParseEvent("destroy"); ok {
		t.Fatal("expected destroy not to parse")
	}
}
