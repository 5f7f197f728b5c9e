// Package service implements the service request lifecycle engine: it
// validates and applies transitions, enforces role permission per transition,
// and triggers the rating recompute on review creation.
package service

import (
	"context"
	"strings"

	"homeserve_backend/internal/events"
	"homeserve_backend/internal/requests/domain"
	"homeserve_backend/internal/requests/repository"
	"homeserve_backend/internal/requests/transport"
	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/sanitize"

	"github.com/google/uuid"
)

// TransitionPayload carries optional per-event data.
type TransitionPayload struct {
	Reason string
}

// Service is the lifecycle engine over service requests.
type Service struct {
	repo          repository.Repository
	catalog       CatalogReader
	professionals ProfessionalReader
	bus           events.Bus
	log           *logger.Logger
}

// New creates a new lifecycle engine.
func New(repo repository.Repository, catalog CatalogReader, professionals ProfessionalReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		catalog:       catalog,
		professionals: professionals,
		bus:           bus,
		log:           log,
	}
}

// Create creates a new service request for the acting customer. The catalog
// price is copied onto the request so later catalog changes never alter it.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req transport.CreateRequestRequest) (transport.ServiceRequestResponse, error) {
	if actor.Role != domain.RoleCustomer {
		return transport.ServiceRequestResponse{}, apperr.Forbidden("only customers can create service requests")
	}

	catalogService, err := s.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return transport.ServiceRequestResponse{}, err
	}
	if !catalogService.IsActive {
		return transport.ServiceRequestResponse{}, apperr.Validation("service is not available")
	}

	if req.ProfessionalID != nil {
		approved, err := s.professionals.IsApprovedProfessional(ctx, *req.ProfessionalID)
		if err != nil {
			return transport.ServiceRequestResponse{}, err
		}
		if !approved {
			return transport.ServiceRequestResponse{}, apperr.Validation("professional is not available")
		}
	}

	created, err := s.repo.Create(ctx, repository.CreateParams{
		CustomerID:     actor.ID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		PriceCents:     catalogService.PriceCents,
		Address:        sanitize.Text(req.Address),
		Notes:          sanitize.TextPtr(req.Notes),
	})
	if err != nil {
		return transport.ServiceRequestResponse{}, err
	}

	s.log.Info("service request created",
		"id", created.ID, "customer", actor.ID, "service", req.ServiceID)
	s.bus.Publish(ctx, events.RequestCreated{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      created.ID,
		CustomerID:     created.CustomerID,
		ServiceID:      created.ServiceID,
		ProfessionalID: created.ProfessionalID,
	})

	return toResponse(created), nil
}

// ApplyTransition validates the event against the lifecycle table and the
// actor's ownership, then applies it atomically. Validation and authorization
// failures are returned before any mutation.
func (s *Service) ApplyTransition(ctx context.Context, actor domain.Actor, requestID uuid.UUID, event domain.Event, payload TransitionPayload) (transport.ServiceRequestResponse, error) {
	current, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.ServiceRequestResponse{}, err
	}

	if _, err := domain.Next(current.Status, event, actor.Role); err != nil {
		return transport.ServiceRequestResponse{}, err
	}

	var updated repository.ServiceRequest
	switch event {
	case domain.EventAssign:
		updated, err = s.repo.Assign(ctx, requestID, actor.ID)
		if err == nil {
			s.publishAssigned(ctx, updated)
		}

	case domain.EventReject:
		if current.ProfessionalID == nil || *current.ProfessionalID != actor.ID {
			return transport.ServiceRequestResponse{}, apperr.Forbidden("request is not addressed to this professional")
		}
		reason := sanitize.Text(strings.TrimSpace(payload.Reason))
		if reason == "" {
			return transport.ServiceRequestResponse{}, apperr.Validation("rejection reason is required")
		}
		updated, err = s.repo.Reject(ctx, requestID, actor.ID, reason)
		if err == nil {
			s.bus.Publish(ctx, events.RequestRejected{
				BaseEvent:      events.NewBaseEvent(),
				RequestID:      updated.ID,
				CustomerID:     updated.CustomerID,
				ProfessionalID: actor.ID,
				Reason:         reason,
			})
		}

	case domain.EventCancel:
		if current.CustomerID != actor.ID {
			return transport.ServiceRequestResponse{}, apperr.Forbidden("request belongs to another customer")
		}
		updated, err = s.repo.Cancel(ctx, requestID, actor.ID)

	case domain.EventComplete:
		if current.ProfessionalID == nil || *current.ProfessionalID != actor.ID {
			return transport.ServiceRequestResponse{}, apperr.Forbidden("request is not assigned to this professional")
		}
		updated, err = s.repo.Complete(ctx, requestID, actor.ID)
		if err == nil {
			s.bus.Publish(ctx, events.RequestCompleted{
				BaseEvent:      events.NewBaseEvent(),
				RequestID:      updated.ID,
				CustomerID:     updated.CustomerID,
				ProfessionalID: actor.ID,
			})
		}

	default:
		return transport.ServiceRequestResponse{}, apperr.InvalidTransition("unknown lifecycle event")
	}

	if err != nil {
		return transport.ServiceRequestResponse{}, err
	}

	s.log.Info("service request transition",
		"id", updated.ID, "event", string(event), "status", string(updated.Status), "actor", actor.ID)
	return toResponse(updated), nil
}

func (s *Service) publishAssigned(ctx context.Context, req repository.ServiceRequest) {
	if req.ProfessionalID == nil {
		return
	}
	s.bus.Publish(ctx, events.RequestAssigned{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      req.ID,
		CustomerID:     req.CustomerID,
		ProfessionalID: *req.ProfessionalID,
	})
}

// SubmitReview attaches the customer's one-time review to a completed request
// and recomputes the professional's average rating in the same transaction.
func (s *Service) SubmitReview(ctx context.Context, actor domain.Actor, requestID uuid.UUID, req transport.SubmitReviewRequest) (transport.ReviewResponse, error) {
	if actor.Role != domain.RoleCustomer {
		return transport.ReviewResponse{}, apperr.Forbidden("only customers can review requests")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return transport.ReviewResponse{}, apperr.Validation("rating must be between 1 and 5")
	}

	review, average, err := s.repo.CreateReview(ctx, repository.ReviewParams{
		RequestID:  requestID,
		CustomerID: actor.ID,
		Rating:     req.Rating,
		Comment:    sanitize.TextPtr(req.Comment),
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	s.log.Info("review submitted",
		"request", requestID, "professional", review.ProfessionalID, "rating", review.Rating, "average", average)
	s.bus.Publish(ctx, events.ReviewSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      requestID,
		CustomerID:     actor.ID,
		ProfessionalID: review.ProfessionalID,
		Rating:         review.Rating,
	})

	return transport.ReviewResponse{
		ID:               review.ID,
		ServiceRequestID: review.ServiceRequestID,
		ProfessionalID:   review.ProfessionalID,
		Rating:           review.Rating,
		Comment:          review.Comment,
		AverageRating:    average,
		CreatedAt:        review.CreatedAt,
	}, nil
}

// GetByID returns a single request, limited to parties of the request.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, requestID uuid.UUID) (transport.ServiceRequestResponse, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.ServiceRequestResponse{}, err
	}
	if !canView(actor, req) {
		return transport.ServiceRequestResponse{}, apperr.Forbidden("not a party to this request")
	}
	return toResponse(req), nil
}

// ListForCustomer returns the acting customer's own requests.
func (s *Service) ListForCustomer(ctx context.Context, customerID uuid.UUID) (transport.RequestListResponse, error) {
	items, err := s.repo.List(ctx, repository.ListFilter{CustomerID: &customerID})
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListOpenForProfessional returns requested requests the professional can act on.
func (s *Service) ListOpenForProfessional(ctx context.Context, professionalID uuid.UUID) (transport.RequestListResponse, error) {
	items, err := s.repo.ListOpenForProfessional(ctx, professionalID)
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListForProfessional returns requests assigned to (or resolved by) the professional.
func (s *Service) ListForProfessional(ctx context.Context, professionalID uuid.UUID) (transport.RequestListResponse, error) {
	items, err := s.repo.List(ctx, repository.ListFilter{ProfessionalID: &professionalID})
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListAll returns requests matching the filter. Admin only; the handler
// enforces the role.
func (s *Service) ListAll(ctx context.Context, filter repository.ListFilter) (transport.RequestListResponse, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items), nil
}

func canView(actor domain.Actor, req repository.ServiceRequest) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return req.CustomerID == actor.ID
	case domain.RoleProfessional:
		return req.ProfessionalID != nil && *req.ProfessionalID == actor.ID
	}
	return false
}

func toResponse(req repository.ServiceRequest) transport.ServiceRequestResponse {
	return transport.ServiceRequestResponse{
		ID:              req.ID,
		CustomerID:      req.CustomerID,
		ServiceID:       req.ServiceID,
		ProfessionalID:  req.ProfessionalID,
		Status:          string(req.Status),
		PriceCents:      req.PriceCents,
		Address:         req.Address,
		Notes:           req.Notes,
		RejectionReason: req.RejectionReason,
		RequestedAt:     req.RequestedAt,
		RespondedAt:     req.RespondedAt,
		CompletedAt:     req.CompletedAt,
		CancelledAt:     req.CancelledAt,
	}
}

func toListResponse(items []repository.ServiceRequest) transport.RequestListResponse {
	responses := make([]transport.ServiceRequestResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.RequestListResponse{Items: responses, Total: len(responses)}
}
