package repository

import (
	"context"
	"errors"
	"fmt"

	"homeserve_backend/internal/rating"
	"homeserve_backend/internal/requests/domain"
	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestNotFoundMessage = "service request not found"

const requestColumns = `id, customer_id, service_id, professional_id, status, price_cents, address, notes,
	rejection_reason, requested_at, responded_at, completed_at, cancelled_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new service request repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new request in status requested with the price snapshot.
func (r *Repo) Create(ctx context.Context, params CreateParams) (ServiceRequest, error) {
	query := `
		INSERT INTO service_requests (customer_id, service_id, professional_id, status, price_cents, address, notes, requested_at)
		VALUES ($1, $2, $3, 'requested', $4, $5, $6, now())
		RETURNING ` + requestColumns

	row := r.pool.QueryRow(ctx, query,
		params.CustomerID, params.ServiceID, params.ProfessionalID, params.PriceCents, params.Address,
		sanitize.OrEmpty(params.Notes),
	)
	req, err := scanRequest(row)
	if err != nil {
		return ServiceRequest{}, fmt.Errorf("create service request: %w", err)
	}
	return req, nil
}

// GetByID retrieves a service request by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceRequest{}, apperr.NotFound(requestNotFoundMessage)
		}
		return ServiceRequest{}, fmt.Errorf("get service request: %w", err)
	}
	return req, nil
}

// List retrieves requests matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::uuid IS NULL OR customer_id = $2)
			AND ($3::uuid IS NULL OR professional_id = $3)
			AND ($4::uuid IS NULL OR service_id = $4)
			AND ($5::timestamptz IS NULL OR requested_at >= $5)
			AND ($6::timestamptz IS NULL OR requested_at <= $6)
		ORDER BY requested_at DESC`

	var statusParam interface{}
	if filter.Status != nil {
		statusParam = string(*filter.Status)
	}

	rows, err := r.pool.Query(ctx, query,
		statusParam, filter.CustomerID, filter.ProfessionalID, filter.ServiceID, filter.From, filter.To,
	)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListOpenForProfessional returns requested requests that are unaddressed or
// addressed to the given professional, newest first.
func (r *Repo) ListOpenForProfessional(ctx context.Context, professionalID uuid.UUID) ([]ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE status = 'requested'
			AND (professional_id IS NULL OR professional_id = $1)
		ORDER BY requested_at DESC`

	rows, err := r.pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// Assign atomically claims a requested request for the professional.
// The compare-and-swap only succeeds while the request is still requested and
// either unaddressed or already addressed to this professional; exactly one
// of two concurrent claimants wins.
func (r *Repo) Assign(ctx context.Context, requestID, professionalID uuid.UUID) (ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET status = 'assigned', professional_id = $2, responded_at = now(), updated_at = now()
		WHERE id = $1
			AND status = 'requested'
			AND (professional_id IS NULL OR professional_id = $2)
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID, professionalID))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ServiceRequest{}, fmt.Errorf("assign service request: %w", err)
	}

	// CAS missed: distinguish the lost race from the other failure modes.
	current, getErr := r.GetByID(ctx, requestID)
	if getErr != nil {
		return ServiceRequest{}, getErr
	}
	switch {
	case current.Status == domain.StatusAssigned:
		return ServiceRequest{}, apperr.AlreadyAssigned("request was already assigned to another professional")
	case current.Status == domain.StatusRequested:
		// Still requested but addressed to someone else.
		return ServiceRequest{}, apperr.Forbidden("request is addressed to another professional")
	default:
		return ServiceRequest{}, apperr.InvalidTransition(
			fmt.Sprintf("cannot assign a request in status %s", current.Status))
	}
}

// Reject marks a requested request addressed to the professional as rejected.
func (r *Repo) Reject(ctx context.Context, requestID, professionalID uuid.UUID, reason string) (ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET status = 'rejected', rejection_reason = $3, responded_at = now(), updated_at = now()
		WHERE id = $1
			AND status = 'requested'
			AND professional_id = $2
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID, professionalID, reason))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ServiceRequest{}, fmt.Errorf("reject service request: %w", err)
	}
	return ServiceRequest{}, r.explainMiss(ctx, requestID, professionalID, domain.EventReject)
}

// Cancel marks a requested or assigned request as cancelled by its customer.
func (r *Repo) Cancel(ctx context.Context, requestID, customerID uuid.UUID) (ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET status = 'cancelled', cancelled_at = now(), updated_at = now()
		WHERE id = $1
			AND customer_id = $2
			AND status IN ('requested', 'assigned')
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID, customerID))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ServiceRequest{}, fmt.Errorf("cancel service request: %w", err)
	}

	current, getErr := r.GetByID(ctx, requestID)
	if getErr != nil {
		return ServiceRequest{}, getErr
	}
	if current.CustomerID != customerID {
		return ServiceRequest{}, apperr.Forbidden("request belongs to another customer")
	}
	return ServiceRequest{}, apperr.InvalidTransition(
		fmt.Sprintf("cannot cancel a request in status %s", current.Status))
}

// Complete marks an assigned request as completed by its professional.
func (r *Repo) Complete(ctx context.Context, requestID, professionalID uuid.UUID) (ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET status = 'completed', completed_at = now(), updated_at = now()
		WHERE id = $1
			AND status = 'assigned'
			AND professional_id = $2
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID, professionalID))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ServiceRequest{}, fmt.Errorf("complete service request: %w", err)
	}
	return ServiceRequest{}, r.explainMiss(ctx, requestID, professionalID, domain.EventComplete)
}

// explainMiss turns a zero-row conditional update into a typed error by
// re-reading the request.
func (r *Repo) explainMiss(ctx context.Context, requestID, professionalID uuid.UUID, event domain.Event) error {
	current, err := r.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if current.ProfessionalID == nil || *current.ProfessionalID != professionalID {
		return apperr.Forbidden("request is not addressed to this professional")
	}
	return apperr.InvalidTransition(
		fmt.Sprintf("cannot %s a request in status %s", event, current.Status))
}

// GetReviewByRequest retrieves the review for a request, if any.
func (r *Repo) GetReviewByRequest(ctx context.Context, requestID uuid.UUID) (Review, error) {
	query := `
		SELECT id, service_request_id, customer_id, professional_id, rating, comment, created_at
		FROM reviews
		WHERE service_request_id = $1`

	var review Review
	err := r.pool.QueryRow(ctx, query, requestID).Scan(
		&review.ID, &review.ServiceRequestID, &review.CustomerID, &review.ProfessionalID,
		&review.Rating, &review.Comment, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound("review not found")
		}
		return Review{}, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// CreateReview inserts the review and recomputes the professional's average
// rating in one transaction. The request row is locked for the duration so
// check-then-insert cannot race with a concurrent review of the same request.
func (r *Repo) CreateReview(ctx context.Context, params ReviewParams) (Review, float64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Review{}, 0, apperr.Dependency("begin review transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status domain.Status
	var customerID uuid.UUID
	var professionalID *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT status, customer_id, professional_id FROM service_requests WHERE id = $1 FOR UPDATE`,
		params.RequestID,
	).Scan(&status, &customerID, &professionalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, 0, apperr.NotFound(requestNotFoundMessage)
		}
		return Review{}, 0, fmt.Errorf("lock service request: %w", err)
	}

	if customerID != params.CustomerID {
		return Review{}, 0, apperr.Forbidden("request belongs to another customer")
	}
	if status != domain.StatusCompleted {
		return Review{}, 0, apperr.InvalidTransition(
			fmt.Sprintf("cannot review a request in status %s", status))
	}
	if professionalID == nil {
		return Review{}, 0, apperr.Internal("completed request has no professional")
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE service_request_id = $1)`, params.RequestID,
	).Scan(&exists); err != nil {
		return Review{}, 0, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return Review{}, 0, apperr.DuplicateReview("request already has a review")
	}

	var review Review
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (service_request_id, customer_id, professional_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, service_request_id, customer_id, professional_id, rating, comment, created_at`,
		params.RequestID, params.CustomerID, *professionalID, params.Rating, sanitize.OrEmpty(params.Comment),
	).Scan(
		&review.ID, &review.ServiceRequestID, &review.CustomerID, &review.ProfessionalID,
		&review.Rating, &review.Comment, &review.CreatedAt,
	)
	if err != nil {
		return Review{}, 0, fmt.Errorf("insert review: %w", err)
	}

	average, err := rating.New(&txRatingStore{tx: tx}).Recompute(ctx, *professionalID)
	if err != nil {
		return Review{}, 0, fmt.Errorf("recompute rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Review{}, 0, apperr.Dependency("commit review transaction", err)
	}
	return review, average, nil
}

// txRatingStore adapts a pgx transaction to the rating.Store interface so the
// average recompute commits atomically with the review insert.
type txRatingStore struct {
	tx pgx.Tx
}

func (s *txRatingStore) RatingsFor(ctx context.Context, professionalID uuid.UUID) ([]int, error) {
	rows, err := s.tx.Query(ctx,
		`SELECT rating FROM reviews WHERE professional_id = $1`, professionalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var value int
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		ratings = append(ratings, value)
	}
	return ratings, rows.Err()
}

func (s *txRatingStore) SetAverageRating(ctx context.Context, professionalID uuid.UUID, average float64) error {
	tag, err := s.tx.Exec(ctx,
		`UPDATE professionals SET average_rating = $2 WHERE user_id = $1`, professionalID, average)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("professional not found")
	}
	return nil
}

func scanRequest(row pgx.Row) (ServiceRequest, error) {
	var req ServiceRequest
	var status string
	err := row.Scan(
		&req.ID, &req.CustomerID, &req.ServiceID, &req.ProfessionalID, &status, &req.PriceCents,
		&req.Address, &req.Notes, &req.RejectionReason, &req.RequestedAt, &req.RespondedAt,
		&req.CompletedAt, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return ServiceRequest{}, err
	}
	req.Status = domain.Status(status)
	return req, nil
}

func scanRequests(rows pgx.Rows) ([]ServiceRequest, error) {
	var results []ServiceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service request: %w", err)
		}
		results = append(results, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service requests: %w", err)
	}
	return results, nil
}
