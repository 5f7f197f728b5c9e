package service

import (
	"context"
	"testing"

	"homeserve_backend/internal/events"
	"homeserve_backend/internal/requests/domain"
	"homeserve_backend/internal/requests/repository"
	"homeserve_backend/internal/requests/transport"
	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	requests map[uuid.UUID]repository.ServiceRequest
	reviews  map[uuid.UUID]repository.Review
	average  float64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests: make(map[uuid.UUID]repository.ServiceRequest),
		reviews:  make(map[uuid.UUID]repository.Review),
	}
}

func (f *fakeRepo) put(req repository.ServiceRequest) repository.ServiceRequest {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	f.requests[req.ID] = req
	return req
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.ServiceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return repository.ServiceRequest{}, apperr.NotFound("service request not found")
	}
	return req, nil
}

func (f *fakeRepo) List(_ context.Context, filter repository.ListFilter) ([]repository.ServiceRequest, error) {
	out := []repository.ServiceRequest{}
	for _, req := range f.requests {
		if filter.CustomerID != nil && req.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProfessionalID != nil && (req.ProfessionalID == nil || *req.ProfessionalID != *filter.ProfessionalID) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeRepo) ListOpenForProfessional(_ context.Context, professionalID uuid.UUID) ([]repository.ServiceRequest, error) {
	out := []repository.ServiceRequest{}
	for _, req := range f.requests {
		if req.Status != domain.StatusRequested {
			continue
		}
		if req.ProfessionalID == nil || *req.ProfessionalID == professionalID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetReviewByRequest(_ context.Context, requestID uuid.UUID) (repository.Review, error) {
	review, ok := f.reviews[requestID]
	if !ok {
		return repository.Review{}, apperr.NotFound("review not found")
	}
	return review, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.ServiceRequest, error) {
	return f.put(repository.ServiceRequest{
		CustomerID:     params.CustomerID,
		ServiceID:      params.ServiceID,
		ProfessionalID: params.ProfessionalID,
		Status:         domain.StatusRequested,
		PriceCents:     params.PriceCents,
		Address:        params.Address,
		Notes:          params.Notes,
	}), nil
}

// Assign mirrors the CAS semantics of the SQL implementation: only a
// requested, unclaimed (or addressed-to-me) request can be claimed.
func (f *fakeRepo) Assign(_ context.Context, requestID, professionalID uuid.UUID) (repository.ServiceRequest, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return repository.ServiceRequest{}, apperr.NotFound("service request not found")
	}
	if req.Status != domain.StatusRequested {
		return repository.ServiceRequest{}, apperr.AlreadyAssigned("request was already claimed")
	}
	if req.ProfessionalID != nil && *req.ProfessionalID != professionalID {
		return repository.ServiceRequest{}, apperr.AlreadyAssigned("request was already claimed")
	}
	req.Status = domain.StatusAssigned
	req.ProfessionalID = &professionalID
	f.requests[requestID] = req
	return req, nil
}

func (f *fakeRepo) Reject(_ context.Context, requestID, professionalID uuid.UUID, reason string) (repository.ServiceRequest, error) {
	req := f.requests[requestID]
	req.Status = domain.StatusRejected
	req.RejectionReason = &reason
	f.requests[requestID] = req
	return req, nil
}

func (f *fakeRepo) Cancel(_ context.Context, requestID, customerID uuid.UUID) (repository.ServiceRequest, error) {
	req := f.requests[requestID]
	req.Status = domain.StatusCancelled
	f.requests[requestID] = req
	return req, nil
}

func (f *fakeRepo) Complete(_ context.Context, requestID, professionalID uuid.UUID) (repository.ServiceRequest, error) {
	req := f.requests[requestID]
	req.Status = domain.StatusCompleted
	f.requests[requestID] = req
	return req, nil
}

func (f *fakeRepo) CreateReview(_ context.Context, params repository.ReviewParams) (repository.Review, float64, error) {
	req, ok := f.requests[params.RequestID]
	if !ok {
		return repository.Review{}, 0, apperr.NotFound("service request not found")
	}
	if req.Status != domain.StatusCompleted {
		return repository.Review{}, 0, apperr.Validation("only completed requests can be reviewed")
	}
	if req.CustomerID != params.CustomerID {
		return repository.Review{}, 0, apperr.Forbidden("request belongs to another customer")
	}
	if _, exists := f.reviews[params.RequestID]; exists {
		return repository.Review{}, 0, apperr.DuplicateReview("request already reviewed")
	}
	review := repository.Review{
		ID:               uuid.New(),
		ServiceRequestID: params.RequestID,
		CustomerID:       params.CustomerID,
		ProfessionalID:   *req.ProfessionalID,
		Rating:           params.Rating,
		Comment:          params.Comment,
	}
	f.reviews[params.RequestID] = review
	return review, f.average, nil
}

type fakeCatalog struct {
	service CatalogService
	err     error
}

func (f fakeCatalog) GetService(context.Context, uuid.UUID) (CatalogService, error) {
	return f.service, f.err
}

type fakeProfessionals struct {
	approved bool
}

func (f fakeProfessionals) IsApprovedProfessional(context.Context, uuid.UUID) (bool, error) {
	return f.approved, nil
}

func newTestService(repo repository.Repository, catalog CatalogReader, professionals ProfessionalReader) *Service {
	log := logger.New("development")
	return New(repo, catalog, professionals, events.NewInMemoryBus(log), log)
}

func activeCatalog(priceCents int64) fakeCatalog {
	return fakeCatalog{service: CatalogService{ID: uuid.New(), Name: "Plumbing", PriceCents: priceCents, IsActive: true}}
}

func TestCreate_SnapshotsCatalogPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(14900), fakeProfessionals{approved: true})
	customer := domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer}

	resp, err := svc.Create(context.Background(), customer, transport.CreateRequestRequest{
		ServiceID: uuid.New(),
		Address:   "12 Gandhi Road",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PriceCents != 14900 {
		t.Fatalf("expected price snapshot 14900, got %d", resp.PriceCents)
	}
	if resp.Status != string(domain.StatusRequested) {
		t.Fatalf("expected status requested, got %s", resp.Status)
	}
}

func TestCreate_RejectsInactiveServiceAndNonCustomers(t *testing.T) {
	repo := newFakeRepo()
	inactive := fakeCatalog{service: CatalogService{IsActive: false}}
	svc := newTestService(repo, inactive, fakeProfessionals{approved: true})

	_, err := svc.Create(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer},
		transport.CreateRequestRequest{ServiceID: uuid.New(), Address: "x"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for inactive service, got %v", err)
	}

	svc = newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	_, err = svc.Create(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleProfessional},
		transport.CreateRequestRequest{ServiceID: uuid.New(), Address: "x"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for professional creator, got %v", err)
	}
}

func TestCreate_RejectsUnapprovedAddressedProfessional(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: false})
	professionalID := uuid.New()

	_, err := svc.Create(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer},
		transport.CreateRequestRequest{ServiceID: uuid.New(), ProfessionalID: &professionalID, Address: "x"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyTransition_AssignRaceLoserGetsAlreadyAssigned(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	req := repo.put(repository.ServiceRequest{CustomerID: uuid.New(), ServiceID: uuid.New(), Status: domain.StatusRequested})

	winner := domain.Actor{ID: uuid.New(), Role: domain.RoleProfessional}
	loser := domain.Actor{ID: uuid.New(), Role: domain.RoleProfessional}

	if _, err := svc.ApplyTransition(context.Background(), winner, req.ID, domain.EventAssign, TransitionPayload{}); err != nil {
		t.Fatalf("winner assign failed: %v", err)
	}

	_, err := svc.ApplyTransition(context.Background(), loser, req.ID, domain.EventAssign, TransitionPayload{})
	if err == nil {
		t.Fatal("expected loser to fail")
	}
	// The pre-check sees status assigned, so the loser gets the transition
	// error before reaching the repository CAS.
	if !apperr.Is(err, apperr.KindInvalidTransition) && !apperr.Is(err, apperr.KindAlreadyAssigned) {
		t.Fatalf("expected transition/assignment conflict, got %v", err)
	}
}

func TestApplyTransition_RejectRequiresReasonAndAddressing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	professionalID := uuid.New()
	req := repo.put(repository.ServiceRequest{
		CustomerID:     uuid.New(),
		ServiceID:      uuid.New(),
		ProfessionalID: &professionalID,
		Status:         domain.StatusRequested,
	})
	actor := domain.Actor{ID: professionalID, Role: domain.RoleProfessional}

	_, err := svc.ApplyTransition(context.Background(), actor, req.ID, domain.EventReject, TransitionPayload{Reason: "   "})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty reason, got %v", err)
	}

	other := domain.Actor{ID: uuid.New(), Role: domain.RoleProfessional}
	_, err = svc.ApplyTransition(context.Background(), other, req.ID, domain.EventReject, TransitionPayload{Reason: "too far away"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for unaddressed professional, got %v", err)
	}

	resp, err := svc.ApplyTransition(context.Background(), actor, req.ID, domain.EventReject, TransitionPayload{Reason: "too far away"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(domain.StatusRejected) {
		t.Fatalf("expected rejected, got %s", resp.Status)
	}
	if resp.RejectionReason == nil || *resp.RejectionReason != "too far away" {
		t.Fatalf("expected rejection reason to be stored, got %v", resp.RejectionReason)
	}
}

func TestApplyTransition_CancelOnlyByOwningCustomer(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	owner := uuid.New()
	req := repo.put(repository.ServiceRequest{CustomerID: owner, ServiceID: uuid.New(), Status: domain.StatusRequested})

	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer}
	if _, err := svc.ApplyTransition(context.Background(), stranger, req.ID, domain.EventCancel, TransitionPayload{}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for foreign customer, got %v", err)
	}

	resp, err := svc.ApplyTransition(context.Background(), domain.Actor{ID: owner, Role: domain.RoleCustomer}, req.ID, domain.EventCancel, TransitionPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", resp.Status)
	}
}

func TestApplyTransition_CompleteOnlyByAssignedProfessional(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	professionalID := uuid.New()
	req := repo.put(repository.ServiceRequest{
		CustomerID:     uuid.New(),
		ServiceID:      uuid.New(),
		ProfessionalID: &professionalID,
		Status:         domain.StatusAssigned,
	})

	other := domain.Actor{ID: uuid.New(), Role: domain.RoleProfessional}
	if _, err := svc.ApplyTransition(context.Background(), other, req.ID, domain.EventComplete, TransitionPayload{}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for other professional, got %v", err)
	}

	resp, err := svc.ApplyTransition(context.Background(), domain.Actor{ID: professionalID, Role: domain.RoleProfessional}, req.ID, domain.EventComplete, TransitionPayload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected completed, got %s", resp.Status)
	}
}

func TestSubmitReview_DuplicateAndRatingBounds(t *testing.T) {
	repo := newFakeRepo()
	repo.average = 4.5
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	customerID := uuid.New()
	professionalID := uuid.New()
	req := repo.put(repository.ServiceRequest{
		CustomerID:     customerID,
		ServiceID:      uuid.New(),
		ProfessionalID: &professionalID,
		Status:         domain.StatusCompleted,
	})
	customer := domain.Actor{ID: customerID, Role: domain.RoleCustomer}

	if _, err := svc.SubmitReview(context.Background(), customer, req.ID, transport.SubmitReviewRequest{Rating: 6}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for rating 6, got %v", err)
	}

	resp, err := svc.SubmitReview(context.Background(), customer, req.ID, transport.SubmitReviewRequest{Rating: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AverageRating != 4.5 {
		t.Fatalf("expected recomputed average 4.5, got %f", resp.AverageRating)
	}

	if _, err := svc.SubmitReview(context.Background(), customer, req.ID, transport.SubmitReviewRequest{Rating: 4}); !apperr.Is(err, apperr.KindDuplicateReview) {
		t.Fatalf("expected duplicate review error, got %v", err)
	}
}

func TestGetByID_VisibilityByRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, activeCatalog(100), fakeProfessionals{approved: true})
	customerID := uuid.New()
	professionalID := uuid.New()
	req := repo.put(repository.ServiceRequest{
		CustomerID:     customerID,
		ServiceID:      uuid.New(),
		ProfessionalID: &professionalID,
		Status:         domain.StatusAssigned,
	})

	tests := []struct {
		name    string
		actor   domain.Actor
		allowed bool
	}{
		{"admin sees all", domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, true},
		{"owning customer", domain.Actor{ID: customerID, Role: domain.RoleCustomer}, true},
		{"assigned professional", domain.Actor{ID: professionalID, Role: domain.RoleProfessional}, true},
		{"foreign customer", domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer}, false},
		{"foreign professional", domain.Actor{ID: uuid.New(), Role: domain.RoleProfessional}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetByID(context.Background(), tt.actor, req.ID)
			if tt.allowed && err != nil {
				t.Fatalf("expected access, got %v", err)
			}
			if !tt.allowed && !apperr.Is(err, apperr.KindForbidden) {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}
}
