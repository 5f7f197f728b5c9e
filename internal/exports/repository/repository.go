package repository

import (
	"context"
	"errors"
	"fmt"

	"homeserve_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exportColumns = `sr.id, sr.status, s.name, cu.name, pu.name, sr.price_cents, sr.address, sr.requested_at, sr.completed_at`

const exportJoins = `
	FROM service_requests sr
	JOIN services s ON s.id = sr.service_id
	JOIN users cu ON cu.id = sr.customer_id
	LEFT JOIN users pu ON pu.id = sr.professional_id`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new export repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListRequests returns the joined export rows matching the filter, oldest
// first so artifacts read chronologically.
func (r *Repo) ListRequests(ctx context.Context, filter Filter) ([]ExportRow, error) {
	query := `
		SELECT ` + exportColumns + exportJoins + `
		WHERE ($1::text IS NULL OR sr.status = $1)
			AND ($2::uuid IS NULL OR sr.service_id = $2)
			AND ($3::timestamptz IS NULL OR sr.requested_at >= $3)
			AND ($4::timestamptz IS NULL OR sr.requested_at <= $4)
		ORDER BY sr.requested_at`

	rows, err := r.pool.Query(ctx, query, filter.Status, filter.ServiceID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("list export rows: %w", err)
	}
	defer rows.Close()

	return scanExportRows(rows)
}

// ListRequestsForProfessional returns every request addressed to or handled
// by the given professional, oldest first.
func (r *Repo) ListRequestsForProfessional(ctx context.Context, professionalID uuid.UUID) ([]ExportRow, error) {
	query := `
		SELECT ` + exportColumns + exportJoins + `
		WHERE sr.professional_id = $1
		ORDER BY sr.requested_at`

	rows, err := r.pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list professional export rows: %w", err)
	}
	defer rows.Close()

	return scanExportRows(rows)
}

// GetProfessionalInfo resolves the header block of a professional-scoped
// export.
func (r *Repo) GetProfessionalInfo(ctx context.Context, professionalID uuid.UUID) (ProfessionalInfo, error) {
	query := `
		SELECT u.id, u.name, u.email, s.name, p.experience_years, p.average_rating
		FROM professionals p
		JOIN users u ON u.id = p.user_id
		JOIN services s ON s.id = p.service_id
		WHERE p.user_id = $1`

	var info ProfessionalInfo
	err := r.pool.QueryRow(ctx, query, professionalID).Scan(
		&info.UserID, &info.Name, &info.Email, &info.ServiceName, &info.ExperienceYears, &info.AverageRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfessionalInfo{}, apperr.NotFound("professional not found")
		}
		return ProfessionalInfo{}, fmt.Errorf("get professional info: %w", err)
	}
	return info, nil
}

// ServiceExists reports whether a catalog entry with the given ID exists.
func (r *Repo) ServiceExists(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, serviceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check service exists: %w", err)
	}
	return exists, nil
}

func scanExportRows(rows pgx.Rows) ([]ExportRow, error) {
	out := make([]ExportRow, 0)
	for rows.Next() {
		var row ExportRow
		err := rows.Scan(
			&row.RequestID, &row.Status, &row.ServiceName, &row.CustomerName, &row.ProfessionalName,
			&row.PriceCents, &row.Address, &row.RequestedAt, &row.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return out, nil
}
