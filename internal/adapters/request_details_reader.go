package adapters

import (
	"context"

	catalogrepo "homeserve_backend/internal/catalog/repository"
	identityrepo "homeserve_backend/internal/identity/repository"
	"homeserve_backend/internal/notification"
	requestrepo "homeserve_backend/internal/requests/repository"

	"github.com/google/uuid"
)

// RequestDetailsReader resolves the customer contact and service name behind
// a request for the notification module.
type RequestDetailsReader struct {
	requests requestrepo.RequestReader
	users    identityrepo.Repository
	catalog  catalogrepo.Repository
}

// NewRequestDetailsReader creates the adapter for the notification module.
func NewRequestDetailsReader(requests requestrepo.RequestReader, users identityrepo.Repository, catalog catalogrepo.Repository) *RequestDetailsReader {
	return &RequestDetailsReader{requests: requests, users: users, catalog: catalog}
}

// RequestDetails resolves names at notification time rather than event time,
// so late deliveries reflect current data.
func (a *RequestDetailsReader) RequestDetails(ctx context.Context, requestID uuid.UUID) (notification.RequestDetails, error) {
	req, err := a.requests.GetByID(ctx, requestID)
	if err != nil {
		return notification.RequestDetails{}, err
	}
	customer, err := a.users.GetUserByID(ctx, req.CustomerID)
	if err != nil {
		return notification.RequestDetails{}, err
	}
	svc, err := a.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return notification.RequestDetails{}, err
	}

	return notification.RequestDetails{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		ServiceName:   svc.Name,
	}, nil
}

// Compile-time check against the notification module's port.
var _ notification.DetailsReader = (*RequestDetailsReader)(nil)
