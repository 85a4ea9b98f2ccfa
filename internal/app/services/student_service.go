package services

import (
	"context"
	"errors"
	"strings"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

// StudentService handles student management and the parent/bus
// assignment operations
type StudentService struct {
	students  StudentStore
	schools   SchoolStore
	users     UserStore
	buses     BusStore
	relations RelationStore
}

// NewStudentService creates a new student service
func NewStudentService(students StudentStore, schools SchoolStore, users UserStore, buses BusStore, relations RelationStore) *StudentService {
	return &StudentService{
		students:  students,
		schools:   schools,
		users:     users,
		buses:     buses,
		relations: relations,
	}
}

func (s *StudentService) checkSchoolExists(ctx context.Context, schoolID string) error {
	if _, err := s.schools.GetByID(ctx, schoolID); err != nil {
		if errors.Is(err, apperrors.ErrSchoolNotFound) {
			return apperrors.ErrInvalidReference
		}
		return err
	}
	return nil
}

// CreateStudent creates a new student in an existing school
func (s *StudentService) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if strings.TrimSpace(student.FullName) == "" {
		return nil, apperrors.NewValidationError("student name cannot be empty")
	}
	if strings.TrimSpace(student.StudentNumber) == "" {
		return nil, apperrors.NewValidationError("student number cannot be empty")
	}
	if err := s.checkSchoolExists(ctx, student.SchoolID); err != nil {
		return nil, err
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// ListStudents retrieves all students
func (s *StudentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students.List(ctx)
}

// UpdateStudent updates an existing student
func (s *StudentService) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.checkSchoolExists(ctx, student.SchoolID); err != nil {
		return nil, err
	}
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return s.students.GetByID(ctx, student.ID)
}

// DeleteStudent deletes a student. The delete is rejected while parent
// relations or a bus assignment still reference the student.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	return s.students.Delete(ctx, id)
}

// AssignParent links a PARENT user to a student
func (s *StudentService) AssignParent(ctx context.Context, studentID, parentID string) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return err
	}

	parent, err := s.users.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidReference
		}
		return err
	}
	if parent.Role != models.RoleParent {
		return apperrors.ErrNotAParent
	}

	return s.relations.CreateParentRelation(ctx, &models.ParentStudentRelation{
		ParentID:  parentID,
		StudentID: studentID,
	})
}

// RemoveParent unlinks a parent from a student
func (s *StudentService) RemoveParent(ctx context.Context, studentID, parentID string) error {
	return s.relations.DeleteParentRelation(ctx, parentID, studentID)
}

// AssignBus places a student on a bus. A student already assigned to a
// bus must be removed first.
func (s *StudentService) AssignBus(ctx context.Context, studentID, busID string) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return err
	}
	if _, err := s.buses.GetByID(ctx, busID); err != nil {
		if errors.Is(err, apperrors.ErrBusNotFound) {
			return apperrors.ErrInvalidReference
		}
		return err
	}

	return s.relations.CreateBusAssignment(ctx, &models.StudentBusAssignment{
		StudentID: studentID,
		BusID:     busID,
	})
}

// RemoveBus removes a student's bus assignment
func (s *StudentService) RemoveBus(ctx context.Context, studentID string) error {
	return s.relations.DeleteBusAssignment(ctx, studentID)
}
