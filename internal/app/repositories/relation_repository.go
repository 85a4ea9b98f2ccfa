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

// RelationRepository handles the two association tables: parent-student
// relations and student-bus assignments.
type RelationRepository struct {
	db *pgxpool.Pool
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(db *pgxpool.Pool) *RelationRepository {
	return &RelationRepository{
		db: db,
	}
}

// CreateParentRelation links a parent to a student. Exactly one row may
// exist per (parent, student) pair.
func (r *RelationRepository) CreateParentRelation(ctx context.Context, relation *models.ParentStudentRelation) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parent_student_relations WHERE parent_id = $1 AND student_id = $2)`,
		relation.ParentID, relation.StudentID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking parent relation: %w", err)
	}
	if exists {
		return apperrors.ErrRelationAlreadyExists
	}

	relation.ID = uuid.New().String()
	_, err = r.db.Exec(ctx, `
		INSERT INTO parent_student_relations (id, parent_id, student_id)
		VALUES ($1, $2, $3)`,
		relation.ID, relation.ParentID, relation.StudentID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRelationAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating parent relation: %w", err)
	}

	return nil
}

// DeleteParentRelation removes the link between a parent and a student
func (r *RelationRepository) DeleteParentRelation(ctx context.Context, parentID, studentID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM parent_student_relations WHERE parent_id = $1 AND student_id = $2`,
		parentID, studentID)
	if err != nil {
		return fmt.Errorf("error deleting parent relation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// IsParentOf reports whether the parent is linked to the student
func (r *RelationRepository) IsParentOf(ctx context.Context, parentID, studentID string) (bool, error) {
	var linked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parent_student_relations WHERE parent_id = $1 AND student_id = $2)`,
		parentID, studentID).Scan(&linked)
	if err != nil {
		return false, fmt.Errorf("error checking parent relation: %w", err)
	}
	return linked, nil
}

// StudentsForParent retrieves all students linked to the parent
func (r *RelationRepository) StudentsForParent(ctx context.Context, parentID string) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.full_name, s.student_number, s.school_id, s.created_at
		FROM students s
		JOIN parent_student_relations psr ON psr.student_id = s.id
		WHERE psr.parent_id = $1
		ORDER BY s.full_name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStudents(rows)
}

// ParentsForStudent retrieves all parent user IDs linked to the student
func (r *RelationRepository) ParentsForStudent(ctx context.Context, studentID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT parent_id FROM parent_student_relations WHERE student_id = $1`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parents []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		parents = append(parents, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return parents, nil
}

// CreateBusAssignment places a student on a bus. A student holds at most
// one assignment at a time; a second assignment is a conflict until the
// first is removed.
func (r *RelationRepository) CreateBusAssignment(ctx context.Context, assignment *models.StudentBusAssignment) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_bus_assignments WHERE student_id = $1)`,
		assignment.StudentID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking bus assignment: %w", err)
	}
	if exists {
		return apperrors.ErrAssignmentAlreadyExists
	}

	assignment.ID = uuid.New().String()
	_, err = r.db.Exec(ctx, `
		INSERT INTO student_bus_assignments (id, student_id, bus_id)
		VALUES ($1, $2, $3)`,
		assignment.ID, assignment.StudentID, assignment.BusID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAssignmentAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating bus assignment: %w", err)
	}

	return nil
}

// DeleteBusAssignment removes a student's bus assignment
func (r *RelationRepository) DeleteBusAssignment(ctx context.Context, studentID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM student_bus_assignments WHERE student_id = $1`,
		studentID)
	if err != nil {
		return fmt.Errorf("error deleting bus assignment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotAssigned
	}
	return nil
}

// BusForStudent retrieves the bus the student is assigned to
func (r *RelationRepository) BusForStudent(ctx context.Context, studentID string) (*models.Bus, error) {
	var bus models.Bus
	err := r.db.QueryRow(ctx, `
		SELECT b.id, b.plate_number, b.capacity, b.school_id, b.current_driver_id
		FROM buses b
		JOIN student_bus_assignments sba ON sba.bus_id = b.id
		WHERE sba.student_id = $1`, studentID).Scan(
		&bus.ID,
		&bus.PlateNumber,
		&bus.Capacity,
		&bus.SchoolID,
		&bus.CurrentDriverID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotAssigned
		}
		return nil, fmt.Errorf("error retrieving bus for student: %w", err)
	}

	return &bus, nil
}

// RosterForBus retrieves all students assigned to the bus
func (r *RelationRepository) RosterForBus(ctx context.Context, busID string) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.full_name, s.student_number, s.school_id, s.created_at
		FROM students s
		JOIN student_bus_assignments sba ON sba.student_id = s.id
		WHERE sba.bus_id = $1
		ORDER BY s.full_name`, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStudents(rows)
}

// IsStudentOnBus reports whether the student is assigned to the bus
func (r *RelationRepository) IsStudentOnBus(ctx context.Context, studentID, busID string) (bool, error) {
	var assigned bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_bus_assignments WHERE student_id = $1 AND bus_id = $2)`,
		studentID, busID).Scan(&assigned)
	if err != nil {
		return false, fmt.Errorf("error checking bus assignment: %w", err)
	}
	return assigned, nil
}
