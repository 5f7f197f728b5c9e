package adapters

import (
	"context"

	identityservice "homeserve_backend/internal/identity/service"
	requestservice "homeserve_backend/internal/requests/service"

	"github.com/google/uuid"
)

// ProfessionalReaderAdapter exposes identity approval state to the requests
// module for validating addressed requests.
type ProfessionalReaderAdapter struct {
	svc *identityservice.Service
}

// NewProfessionalReader creates the identity adapter for the requests module.
func NewProfessionalReader(svc *identityservice.Service) *ProfessionalReaderAdapter {
	return &ProfessionalReaderAdapter{svc: svc}
}

// IsApprovedProfessional reports whether the user can receive requests.
func (a *ProfessionalReaderAdapter) IsApprovedProfessional(ctx context.Context, userID uuid.UUID) (bool, error) {
	return a.svc.IsApprovedProfessional(ctx, userID)
}

// Compile-time check against the requests module's port.
var _ requestservice.ProfessionalReader = (*ProfessionalReaderAdapter)(nil)
