package services

import (
	"context"
	"errors"
	"strings"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

// SchoolService handles school management
type SchoolService struct {
	schools SchoolStore
	users   UserStore
}

// NewSchoolService creates a new school service
func NewSchoolService(schools SchoolStore, users UserStore) *SchoolService {
	return &SchoolService{
		schools: schools,
		users:   users,
	}
}

func (s *SchoolService) validateSchool(ctx context.Context, school *models.School) error {
	if strings.TrimSpace(school.Name) == "" {
		return apperrors.NewValidationError("school name cannot be empty")
	}
	if school.ContactPersonID != "" {
		if _, err := s.users.GetByID(ctx, school.ContactPersonID); err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return apperrors.ErrInvalidReference
			}
			return err
		}
	}
	return nil
}

// CreateSchool creates a new school
func (s *SchoolService) CreateSchool(ctx context.Context, school *models.School) (*models.School, error) {
	if err := s.validateSchool(ctx, school); err != nil {
		return nil, err
	}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, err
	}
	return school, nil
}

// GetSchool retrieves a school by ID
func (s *SchoolService) GetSchool(ctx context.Context, id string) (*models.School, error) {
	return s.schools.GetByID(ctx, id)
}

// ListSchools retrieves all schools
func (s *SchoolService) ListSchools(ctx context.Context) ([]*models.School, error) {
	return s.schools.List(ctx)
}

// UpdateSchool updates an existing school
func (s *SchoolService) UpdateSchool(ctx context.Context, school *models.School) (*models.School, error) {
	if err := s.validateSchool(ctx, school); err != nil {
		return nil, err
	}
	if err := s.schools.Update(ctx, school); err != nil {
		return nil, err
	}
	return s.schools.GetByID(ctx, school.ID)
}

// DeleteSchool deletes a school. The delete is rejected while students
// or buses still reference it.
func (s *SchoolService) DeleteSchool(ctx context.Context, id string) error {
	return s.schools.Delete(ctx, id)
}
