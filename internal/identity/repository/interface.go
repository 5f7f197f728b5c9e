package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an account row. Role is immutable after creation.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsApproved   bool
	IsBlocked    bool
	CreatedAt    time.Time
}

// ProfessionalProfile extends a user with the professional's catalog
// affiliation and rating.
type ProfessionalProfile struct {
	UserID          uuid.UUID
	ServiceID       uuid.UUID
	ExperienceYears int
	Description     *string
	IsVerified      bool
	AverageRating   float64
	ChatWebhookURL  *string
}

// CustomerProfile extends a user with contact details.
type CustomerProfile struct {
	UserID  uuid.UUID
	Address string
	Phone   string
	PinCode string
}

// CreateCustomerParams contains parameters for registering a customer.
type CreateCustomerParams struct {
	Email        string
	PasswordHash string
	Name         string
	Address      string
	Phone        string
	PinCode      string
}

// CreateProfessionalParams contains parameters for registering a professional.
type CreateProfessionalParams struct {
	Email           string
	PasswordHash    string
	Name            string
	ServiceID       uuid.UUID
	ExperienceYears int
	Description     *string
	ChatWebhookURL  *string
}

// UpdateCustomerParams contains the mutable customer profile fields.
type UpdateCustomerParams struct {
	Name    *string
	Address *string
	Phone   *string
	PinCode *string
}

// UpdateProfessionalParams contains the mutable professional profile fields.
type UpdateProfessionalParams struct {
	Name            *string
	ExperienceYears *int
	Description     *string
	ChatWebhookURL  *string
}

// Repository provides persistence for users and their role profiles.
type Repository interface {
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (User, error)
	CreateProfessional(ctx context.Context, params CreateProfessionalParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetProfessionalProfile(ctx context.Context, userID uuid.UUID) (ProfessionalProfile, error)
	GetCustomerProfile(ctx context.Context, userID uuid.UUID) (CustomerProfile, error)
	// ListProfessionals returns professional users; approved filters on the
	// approval flag when non-nil.
	ListProfessionals(ctx context.Context, approved *bool) ([]User, error)
	ListUsers(ctx context.Context, role *string) ([]User, error)
	// ApproveProfessional flips the approval flags for a professional user.
	ApproveProfessional(ctx context.Context, userID uuid.UUID) (User, error)
	SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) (User, error)
	UpdateCustomerProfile(ctx context.Context, userID uuid.UUID, params UpdateCustomerParams) error
	UpdateProfessionalProfile(ctx context.Context, userID uuid.UUID, params UpdateProfessionalParams) error
}
