// Package domain provides core business rules for the service request
// bounded context: the request status machine and actor roles.
package domain

// Status is the lifecycle state of a service request.
type Status string

const (
	StatusRequested Status = "requested"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusAssigned, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// terminalStatuses are statuses from which no further transition is defined.
var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusCancelled: true,
	StatusRejected:  true,
}

// IsTerminal returns true if no further transition is defined from s.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// Role is the closed set of actor roles. Transition permission is dispatched
// on this type, never on raw strings from the wire.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleCustomer     Role = "customer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessional, RoleCustomer:
		return true
	}
	return false
}

// ParseRole converts a wire-level role string into a Role.
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.Valid()
}
