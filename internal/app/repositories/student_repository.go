package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// Create inserts a new student after checking student number uniqueness
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE student_number = $1)`,
		student.StudentNumber).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking student number uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrStudentNumberAlreadyExists
	}

	student.ID = uuid.New().String()
	err = r.db.QueryRow(ctx, `
		INSERT INTO students (id, full_name, student_number, school_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		student.ID, student.FullName, student.StudentNumber, student.SchoolID,
	).Scan(&student.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_number_key") {
			return apperrors.ErrStudentNumberAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := r.db.QueryRow(ctx, `
		SELECT id, full_name, student_number, school_id, created_at
		FROM students
		WHERE id = $1`, id).Scan(
		&student.ID,
		&student.FullName,
		&student.StudentNumber,
		&student.SchoolID,
		&student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// List retrieves all students
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, full_name, student_number, school_id, created_at
		FROM students
		ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Update updates an existing student, re-checking student number uniqueness
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE student_number = $1 AND id <> $2)`,
		student.StudentNumber, student.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking student number uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrStudentNumberAlreadyExists
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE students
		SET full_name = $1, student_number = $2, school_id = $3
		WHERE id = $4`,
		student.FullName, student.StudentNumber, student.SchoolID, student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_number_key") {
			return apperrors.ErrStudentNumberAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student. Rejected while parent or bus relations still
// point at the student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	var referenced bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM parent_student_relations WHERE student_id = $1)
		    OR EXISTS(SELECT 1 FROM student_bus_assignments WHERE student_id = $1)`,
		id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("error checking student references: %w", err)
	}
	if referenced {
		return apperrors.ErrStudentHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentHasRelations
		}
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// scanStudents collects student rows
func scanStudents(rows pgx.Rows) ([]*models.Student, error) {
	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.FullName,
			&student.StudentNumber,
			&student.SchoolID,
			&student.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}
