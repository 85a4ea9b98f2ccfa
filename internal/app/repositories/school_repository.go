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

// SchoolRepository handles database operations for schools
type SchoolRepository struct {
	db *pgxpool.Pool
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{
		db: db,
	}
}

// Create inserts a new school after checking name uniqueness
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schools WHERE name = $1)`,
		school.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking school uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrSchoolAlreadyExists
	}

	school.ID = uuid.New().String()
	_, err = r.db.Exec(ctx, `
		INSERT INTO schools (id, name, address, contact_person_id)
		VALUES ($1, $2, $3, $4)`,
		school.ID, school.Name, school.Address, school.ContactPersonID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSchoolAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating school: %w", err)
	}

	return nil
}

// GetByID retrieves a school by ID
func (r *SchoolRepository) GetByID(ctx context.Context, id string) (*models.School, error) {
	var school models.School
	err := r.db.QueryRow(ctx, `
		SELECT id, name, address, contact_person_id
		FROM schools
		WHERE id = $1`, id).Scan(
		&school.ID,
		&school.Name,
		&school.Address,
		&school.ContactPersonID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error retrieving school: %w", err)
	}

	return &school, nil
}

// List retrieves all schools
func (r *SchoolRepository) List(ctx context.Context) ([]*models.School, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address, contact_person_id
		FROM schools
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []*models.School
	for rows.Next() {
		var school models.School
		if err := rows.Scan(
			&school.ID,
			&school.Name,
			&school.Address,
			&school.ContactPersonID,
		); err != nil {
			return nil, err
		}
		schools = append(schools, &school)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schools, nil
}

// Update updates an existing school, re-checking name uniqueness
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schools WHERE name = $1 AND id <> $2)`,
		school.Name, school.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking school uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrSchoolAlreadyExists
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE schools
		SET name = $1, address = $2, contact_person_id = $3
		WHERE id = $4`,
		school.Name, school.Address, school.ContactPersonID, school.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSchoolAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error updating school: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}

	return nil
}

// Delete removes a school. Rejected while students or buses still belong
// to it.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	var referenced bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE school_id = $1)
		    OR EXISTS(SELECT 1 FROM buses WHERE school_id = $1)`,
		id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("error checking school references: %w", err)
	}
	if referenced {
		return apperrors.ErrSchoolHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSchoolHasRelations
		}
		return fmt.Errorf("error deleting school: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}

	return nil
}
