// Package service implements account registration, login, and the admin
// moderation operations over users.
package service

import (
	"context"
	"strings"
	"time"

	"homeserve_backend/internal/events"
	"homeserve_backend/internal/identity/password"
	"homeserve_backend/internal/identity/repository"
	"homeserve_backend/internal/identity/transport"
	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/config"
	"homeserve_backend/platform/logger"
	"homeserve_backend/platform/phone"
	"homeserve_backend/platform/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	roleCustomer     = "customer"
	roleProfessional = "professional"

	msgInvalidCredentials = "invalid credentials"
)

// Config provides the token settings the identity service needs.
type Config interface {
	config.AuthConfig
}

// Service handles accounts, sessions, and admin moderation.
type Service struct {
	repo repository.Repository
	cfg  Config
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new identity service.
func New(repo repository.Repository, cfg Config, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// RegisterCustomer creates a customer account. Customers can act immediately.
func (s *Service) RegisterCustomer(ctx context.Context, req transport.RegisterCustomerRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Internal("failed to hash password")
	}

	user, err := s.repo.CreateCustomer(ctx, repository.CreateCustomerParams{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         sanitize.Text(req.Name),
		Address:      sanitize.Text(req.Address),
		Phone:        phone.NormalizeE164(req.Phone),
		PinCode:      strings.TrimSpace(req.PinCode),
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return toUserResponse(user), nil
}

// RegisterProfessional creates a professional account in the unapproved state.
func (s *Service) RegisterProfessional(ctx context.Context, req transport.RegisterProfessionalRequest) (transport.UserResponse, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return transport.UserResponse{}, apperr.Validation("invalid service ID")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Internal("failed to hash password")
	}

	user, err := s.repo.CreateProfessional(ctx, repository.CreateProfessionalParams{
		Email:           normalizeEmail(req.Email),
		PasswordHash:    hash,
		Name:            sanitize.Text(req.Name),
		ServiceID:       serviceID,
		ExperienceYears: req.ExperienceYears,
		Description:     sanitize.TextPtr(req.Description),
		ChatWebhookURL:  req.ChatWebhookURL,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return toUserResponse(user), nil
}

// Login verifies credentials and issues a JWT access token carrying the
// user's role. Blocked users and unapproved professionals cannot log in.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if user.IsBlocked {
		return transport.LoginResponse{}, apperr.Forbidden("account is blocked")
	}
	if user.Role == roleProfessional && !user.IsApproved {
		return transport.LoginResponse{}, apperr.Forbidden("account pending approval")
	}

	token, err := s.signAccessToken(user)
	if err != nil {
		return transport.LoginResponse{}, apperr.Internal("failed to sign token")
	}

	s.log.AuthEvent("login", user.Email, true, "")
	return transport.LoginResponse{AccessToken: token, User: toUserResponse(user)}, nil
}

// ApproveProfessional approves a pending professional (admin only).
func (s *Service) ApproveProfessional(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.ApproveProfessional(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.log.Info("professional approved", "user", userID)
	s.bus.Publish(ctx, events.ProfessionalApproved{
		BaseEvent: events.NewBaseEvent(),
		UserID:    userID,
	})
	return toUserResponse(user), nil
}

// SetBlocked blocks or unblocks a user (admin only).
func (s *Service) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) (transport.UserResponse, error) {
	user, err := s.repo.SetBlocked(ctx, userID, blocked)
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.log.Info("user block flag updated", "user", userID, "blocked", blocked)
	return toUserResponse(user), nil
}

// ListUsers returns all users, optionally filtered by role (admin only).
func (s *Service) ListUsers(ctx context.Context, role string) (transport.UserListResponse, error) {
	var roleFilter *string
	if role != "" {
		roleFilter = &role
	}

	users, err := s.repo.ListUsers(ctx, roleFilter)
	if err != nil {
		return transport.UserListResponse{}, err
	}
	return toUserListResponse(users), nil
}

// ListPendingProfessionals returns unapproved professionals (admin only).
func (s *Service) ListPendingProfessionals(ctx context.Context) (transport.UserListResponse, error) {
	approved := false
	users, err := s.repo.ListProfessionals(ctx, &approved)
	if err != nil {
		return transport.UserListResponse{}, err
	}
	return toUserListResponse(users), nil
}

// GetCustomerProfile returns the combined user and customer profile.
func (s *Service) GetCustomerProfile(ctx context.Context, userID uuid.UUID) (transport.CustomerProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.CustomerProfileResponse{}, err
	}
	profile, err := s.repo.GetCustomerProfile(ctx, userID)
	if err != nil {
		return transport.CustomerProfileResponse{}, err
	}

	return transport.CustomerProfileResponse{
		User:    toUserResponse(user),
		Address: profile.Address,
		Phone:   profile.Phone,
		PinCode: profile.PinCode,
	}, nil
}

// GetProfessionalProfile returns the combined user and professional profile.
func (s *Service) GetProfessionalProfile(ctx context.Context, userID uuid.UUID) (transport.ProfessionalProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.ProfessionalProfileResponse{}, err
	}
	profile, err := s.repo.GetProfessionalProfile(ctx, userID)
	if err != nil {
		return transport.ProfessionalProfileResponse{}, err
	}

	return transport.ProfessionalProfileResponse{
		User:            toUserResponse(user),
		ServiceID:       profile.ServiceID,
		ExperienceYears: profile.ExperienceYears,
		Description:     profile.Description,
		IsVerified:      profile.IsVerified,
		AverageRating:   profile.AverageRating,
	}, nil
}

// UpdateCustomerProfile applies profile changes for the acting customer.
func (s *Service) UpdateCustomerProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateCustomerProfileRequest) (transport.CustomerProfileResponse, error) {
	var phonePtr *string
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		phonePtr = &normalized
	}

	err := s.repo.UpdateCustomerProfile(ctx, userID, repository.UpdateCustomerParams{
		Name:    sanitize.TextPtr(req.Name),
		Address: sanitize.TextPtr(req.Address),
		Phone:   phonePtr,
		PinCode: req.PinCode,
	})
	if err != nil {
		return transport.CustomerProfileResponse{}, err
	}
	return s.GetCustomerProfile(ctx, userID)
}

// UpdateProfessionalProfile applies profile changes for the acting professional.
func (s *Service) UpdateProfessionalProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfessionalProfileRequest) (transport.ProfessionalProfileResponse, error) {
	err := s.repo.UpdateProfessionalProfile(ctx, userID, repository.UpdateProfessionalParams{
		Name:            sanitize.TextPtr(req.Name),
		ExperienceYears: req.ExperienceYears,
		Description:     sanitize.TextPtr(req.Description),
		ChatWebhookURL:  req.ChatWebhookURL,
	})
	if err != nil {
		return transport.ProfessionalProfileResponse{}, err
	}
	return s.GetProfessionalProfile(ctx, userID)
}

// IsApprovedProfessional reports whether the user is an approved, unblocked
// professional. Used by the requests module when addressing a request.
func (s *Service) IsApprovedProfessional(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == roleProfessional && user.IsApproved && !user.IsBlocked, nil
}

func (s *Service) signAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		IsApproved: user.IsApproved,
		IsBlocked:  user.IsBlocked,
		CreatedAt:  user.CreatedAt,
	}
}

func toUserListResponse(users []repository.User) transport.UserListResponse {
	items := make([]transport.UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return transport.UserListResponse{Items: items, Total: len(items)}
}
