package repository

import (
	"context"
	"errors"
	"fmt"

	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	serviceNotFoundMessage = "service not found"
	serviceInUseMessage    = "service is referenced by existing requests"

	foreignKeyViolationCode = "23503"
)

const serviceColumns = `id, name, description, base_price_cents, is_active, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new catalog entry, active by default.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Service, error) {
	query := `
		INSERT INTO services (name, description, base_price_cents)
		VALUES ($1, $2, $3)
		RETURNING ` + serviceColumns

	svc, err := scanService(r.pool.QueryRow(ctx, query, params.Name, sanitize.OrEmpty(params.Description), params.BasePriceCents))
	if err != nil {
		return Service{}, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

// GetByID retrieves a catalog entry by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	svc, err := scanService(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

// List retrieves catalog entries, optionally only active ones.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE NOT $1::boolean OR is_active
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

// Update applies the non-nil fields to a catalog entry.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Service, error) {
	query := `
		UPDATE services SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			base_price_cents = COALESCE($4, base_price_cents),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceColumns

	svc, err := scanService(r.pool.QueryRow(ctx, query, id, params.Name, params.Description, params.BasePriceCents))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

// SetActive flips the active flag of a catalog entry.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) (Service, error) {
	query := `
		UPDATE services SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceColumns

	svc, err := scanService(r.pool.QueryRow(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return Service{}, fmt.Errorf("set service active: %w", err)
	}
	return svc, nil
}

// Delete removes a catalog entry. The foreign key from service_requests (and
// professionals) turns deletes of referenced entries into a Conflict.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			return apperr.Conflict(serviceInUseMessage)
		}
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

func scanService(row pgx.Row) (Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.BasePriceCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Service{}, err
	}
	return s, nil
}
