package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/auth"
	"github.com/deniz/fleettrack/internal/pkg/validation"
)

// AuthService handles registration, login and identity lookup
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserStore, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
	}
}

// Register creates a parent or driver account. Admin accounts are
// created by an existing admin or the startup seed, never through the
// public endpoint.
func (s *AuthService) Register(ctx context.Context, fullName, email, phone, password string, role models.RoleType) (*models.User, error) {
	if !role.Valid() || role == models.RoleAdmin {
		return nil, apperrors.NewValidationError("role must be PARENT or DRIVER")
	}
	if !validation.ValidPhone(phone) {
		return nil, apperrors.NewValidationError("invalid phone number format")
	}
	if len(password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FullName:    strings.TrimSpace(fullName),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		PhoneNumber: phone,
		Password:    hashed,
		Role:        role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("userId", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, int, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", 0, nil, apperrors.ErrInvalidCredentials
		}
		return "", 0, nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", 0, nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", 0, nil, fmt.Errorf("error generating token: %w", err)
	}

	return token, expiresIn, user, nil
}

// Me retrieves the authenticated user's own record
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
