package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/auth"
	"github.com/deniz/fleettrack/internal/pkg/validation"
)

// UserService handles user management by administrators
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{
		users: users,
	}
}

// CreateUser creates a user with any role, including ADMIN
func (s *UserService) CreateUser(ctx context.Context, fullName, email, phone, password string, role models.RoleType) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role")
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
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers retrieves all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// UpdateUser updates profile fields. An empty password leaves the
// current hash untouched; role changes are not supported.
func (s *UserService) UpdateUser(ctx context.Context, id, fullName, email, phone, password string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		user.FullName = strings.TrimSpace(fullName)
	}
	if email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(email))
	}
	if phone != "" {
		if !validation.ValidPhone(phone) {
			return nil, apperrors.NewValidationError("invalid phone number format")
		}
		user.PhoneNumber = phone
	}
	if password != "" {
		if len(password) < validation.PasswordMinLength {
			return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user. The delete is rejected while buses, schools
// or parent relations still reference the user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
