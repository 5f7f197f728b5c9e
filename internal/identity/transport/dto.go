package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterCustomerRequest contains data for customer self-registration.
type RegisterCustomerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Address  string `json:"address" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
	PinCode  string `json:"pinCode" validate:"required,min=4,max=10"`
}

// RegisterProfessionalRequest contains data for professional self-registration.
// The account stays unapproved until an admin approves it.
type RegisterProfessionalRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8,max=72"`
	Name            string  `json:"name" validate:"required,min=1,max=100"`
	ServiceID       string  `json:"serviceId" validate:"required,uuid"`
	ExperienceYears int     `json:"experienceYears" validate:"min=0,max=80"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	ChatWebhookURL  *string `json:"chatWebhookUrl,omitempty" validate:"omitempty,url,max=500"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateCustomerProfileRequest contains the mutable customer fields.
type UpdateCustomerProfileRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	PinCode *string `json:"pinCode,omitempty" validate:"omitempty,min=4,max=10"`
}

// UpdateProfessionalProfileRequest contains the mutable professional fields.
type UpdateProfessionalProfileRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ExperienceYears *int    `json:"experienceYears,omitempty" validate:"omitempty,min=0,max=80"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	ChatWebhookURL  *string `json:"chatWebhookUrl,omitempty" validate:"omitempty,url,max=500"`
}

// UserResponse represents a user account in API responses.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"isApproved"`
	IsBlocked  bool      `json:"isBlocked"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

// CustomerProfileResponse represents a customer profile.
type CustomerProfileResponse struct {
	User    UserResponse `json:"user"`
	Address string       `json:"address"`
	Phone   string       `json:"phone"`
	PinCode string       `json:"pinCode"`
}

// ProfessionalProfileResponse represents a professional profile.
type ProfessionalProfileResponse struct {
	User            UserResponse `json:"user"`
	ServiceID       uuid.UUID    `json:"serviceId"`
	ExperienceYears int          `json:"experienceYears"`
	Description     *string      `json:"description,omitempty"`
	IsVerified      bool         `json:"isVerified"`
	AverageRating   float64      `json:"averageRating"`
}

// UserListResponse wraps a list of users.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}
