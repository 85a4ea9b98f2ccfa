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

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create inserts a new user. Email and phone uniqueness are pre-checked and
// backstopped by the unique constraints, so two creates racing on the same
// value produce exactly one success.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.checkUnique(ctx, user.Email, user.PhoneNumber, ""); err != nil {
		return err
	}

	user.ID = uuid.New().String()
	query := `
		INSERT INTO users (id, full_name, email, phone_number, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.PhoneNumber, user.Password, user.Role,
	).Scan(&user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_phone_number_key") {
			return apperrors.ErrPhoneAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, full_name, email, phone_number, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PhoneNumber,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, full_name, email, phone_number, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PhoneNumber,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}

	return &user, nil
}

// List retrieves all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, full_name, email, phone_number, password_hash, role, created_at
		FROM users
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.FullName,
			&user.Email,
			&user.PhoneNumber,
			&user.Password,
			&user.Role,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Update updates a user's profile fields, re-checking uniqueness against
// other rows.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.checkUnique(ctx, user.Email, user.PhoneNumber, user.ID); err != nil {
		return err
	}

	query := `
		UPDATE users
		SET full_name = $1, email = $2, phone_number = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, user.FullName, user.Email, user.PhoneNumber, user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_phone_number_key") {
			return apperrors.ErrPhoneAlreadyExists
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Delete removes a user. Deletion is rejected while the user is referenced
// as a bus driver, a school contact or a parent in a relation.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	var referenced bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM buses WHERE current_driver_id = $1)
		    OR EXISTS(SELECT 1 FROM schools WHERE contact_person_id = $1)
		    OR EXISTS(SELECT 1 FROM parent_student_relations WHERE parent_id = $1)`,
		id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("error checking user references: %w", err)
	}
	if referenced {
		return apperrors.ErrUserHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserHasRelations
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// checkUnique rejects when another user already holds the email or phone.
func (r *UserRepository) checkUnique(ctx context.Context, email, phone, excludeID string) error {
	var emailTaken, phoneTaken bool
	err := r.db.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM users WHERE email = $1 AND id::text <> $3),
			EXISTS(SELECT 1 FROM users WHERE phone_number = $2 AND id::text <> $3)`,
		email, phone, excludeID).Scan(&emailTaken, &phoneTaken)
	if err != nil {
		return fmt.Errorf("error checking user uniqueness: %w", err)
	}
	if emailTaken {
		return apperrors.ErrEmailAlreadyExists
	}
	if phoneTaken {
		return apperrors.ErrPhoneAlreadyExists
	}
	return nil
}
