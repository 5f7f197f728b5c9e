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
	userNotFoundMessage = "user not found"
	emailTakenMessage   = "email already registered"

	uniqueViolationCode = "23505"
)

const userColumns = `id, email, password_hash, name, role, is_approved, is_blocked, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new identity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateCustomer inserts the user row and its customer profile in one
// transaction. Customers are approved immediately.
func (r *Repo) CreateCustomer(ctx context.Context, params CreateCustomerParams) (User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin create customer: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (email, password_hash, name, role, is_approved)
		VALUES ($1, $2, $3, 'customer', true)
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, query, params.Email, params.PasswordHash, params.Name))
	if err != nil {
		return User{}, mapUserInsertErr(err, "create customer")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO customers (user_id, address, phone, pin_code)
		VALUES ($1, $2, $3, $4)`,
		user.ID, params.Address, params.Phone, params.PinCode,
	)
	if err != nil {
		return User{}, fmt.Errorf("create customer profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit create customer: %w", err)
	}
	return user, nil
}

// CreateProfessional inserts the user row and its professional profile in one
// transaction. Professionals start unapproved until an admin approves them.
func (r *Repo) CreateProfessional(ctx context.Context, params CreateProfessionalParams) (User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin create professional: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (email, password_hash, name, role, is_approved)
		VALUES ($1, $2, $3, 'professional', false)
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, query, params.Email, params.PasswordHash, params.Name))
	if err != nil {
		return User{}, mapUserInsertErr(err, "create professional")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO professionals (user_id, service_id, experience_years, description, chat_webhook_url)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, params.ServiceID, params.ExperienceYears, sanitize.OrEmpty(params.Description), params.ChatWebhookURL,
	)
	if err != nil {
		return User{}, fmt.Errorf("create professional profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit create professional: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetProfessionalProfile retrieves a professional's profile row.
func (r *Repo) GetProfessionalProfile(ctx context.Context, userID uuid.UUID) (ProfessionalProfile, error) {
	query := `
		SELECT user_id, service_id, experience_years, description, is_verified, average_rating, chat_webhook_url
		FROM professionals WHERE user_id = $1`

	var p ProfessionalProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.ServiceID, &p.ExperienceYears, &p.Description, &p.IsVerified, &p.AverageRating, &p.ChatWebhookURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfessionalProfile{}, apperr.NotFound("professional not found")
		}
		return ProfessionalProfile{}, fmt.Errorf("get professional profile: %w", err)
	}
	return p, nil
}

// GetCustomerProfile retrieves a customer's profile row.
func (r *Repo) GetCustomerProfile(ctx context.Context, userID uuid.UUID) (CustomerProfile, error) {
	query := `SELECT user_id, address, phone, pin_code FROM customers WHERE user_id = $1`

	var c CustomerProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(&c.UserID, &c.Address, &c.Phone, &c.PinCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomerProfile{}, apperr.NotFound("customer not found")
		}
		return CustomerProfile{}, fmt.Errorf("get customer profile: %w", err)
	}
	return c, nil
}

// ListProfessionals returns professional users, optionally filtered on approval.
func (r *Repo) ListProfessionals(ctx context.Context, approved *bool) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'professional'
			AND ($1::boolean IS NULL OR is_approved = $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, approved)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListUsers returns all users, optionally filtered by role.
func (r *Repo) ListUsers(ctx context.Context, role *string) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ApproveProfessional marks a professional as approved and verified.
func (r *Repo) ApproveProfessional(ctx context.Context, userID uuid.UUID) (User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin approve professional: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE users SET is_approved = true
		WHERE id = $1 AND role = 'professional'
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("professional not found")
		}
		return User{}, fmt.Errorf("approve professional: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE professionals SET is_verified = true WHERE user_id = $1`, userID); err != nil {
		return User{}, fmt.Errorf("verify professional profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit approve professional: %w", err)
	}
	return user, nil
}

// SetBlocked updates a user's blocked flag.
func (r *Repo) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) (User, error) {
	query := `UPDATE users SET is_blocked = $2 WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, userID, blocked))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("set user blocked: %w", err)
	}
	return user, nil
}

// UpdateCustomerProfile applies the non-nil fields to the user and customer rows.
func (r *Repo) UpdateCustomerProfile(ctx context.Context, userID uuid.UUID, params UpdateCustomerParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update customer: %w", err)
	}
	defer tx.Rollback(ctx)

	if params.Name != nil {
		if _, err := tx.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1`, userID, *params.Name); err != nil {
			return fmt.Errorf("update customer name: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE customers SET
			address = COALESCE($2, address),
			phone = COALESCE($3, phone),
			pin_code = COALESCE($4, pin_code)
		WHERE user_id = $1`,
		userID, params.Address, params.Phone, params.PinCode,
	)
	if err != nil {
		return fmt.Errorf("update customer profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("customer not found")
	}

	return tx.Commit(ctx)
}

// UpdateProfessionalProfile applies the non-nil fields to the user and
// professional rows.
func (r *Repo) UpdateProfessionalProfile(ctx context.Context, userID uuid.UUID, params UpdateProfessionalParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update professional: %w", err)
	}
	defer tx.Rollback(ctx)

	if params.Name != nil {
		if _, err := tx.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1`, userID, *params.Name); err != nil {
			return fmt.Errorf("update professional name: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE professionals SET
			experience_years = COALESCE($2, experience_years),
			description = COALESCE($3, description),
			chat_webhook_url = COALESCE($4, chat_webhook_url)
		WHERE user_id = $1`,
		userID, params.ExperienceYears, params.Description, params.ChatWebhookURL,
	)
	if err != nil {
		return fmt.Errorf("update professional profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("professional not found")
	}

	return tx.Commit(ctx)
}

func mapUserInsertErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperr.Conflict(emailTakenMessage)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsApproved, &u.IsBlocked, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
