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

// BusRepository handles database operations for buses
type BusRepository struct {
	db *pgxpool.Pool
}

// NewBusRepository creates a new bus repository
func NewBusRepository(db *pgxpool.Pool) *BusRepository {
	return &BusRepository{
		db: db,
	}
}

// Create inserts a new bus after checking plate uniqueness
func (r *BusRepository) Create(ctx context.Context, bus *models.Bus) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM buses WHERE plate_number = $1)`,
		bus.PlateNumber).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking plate uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrPlateAlreadyExists
	}

	bus.ID = uuid.New().String()
	_, err = r.db.Exec(ctx, `
		INSERT INTO buses (id, plate_number, capacity, school_id, current_driver_id)
		VALUES ($1, $2, $3, $4, $5)`,
		bus.ID, bus.PlateNumber, bus.Capacity, bus.SchoolID, bus.CurrentDriverID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "buses_plate_number_key") {
			return apperrors.ErrPlateAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "buses_current_driver_key") {
			return apperrors.ErrDriverAlreadyAssigned
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(ctx context.Context, id string) (*models.Bus, error) {
	var bus models.Bus
	err := r.db.QueryRow(ctx, `
		SELECT id, plate_number, capacity, school_id, current_driver_id
		FROM buses
		WHERE id = $1`, id).Scan(
		&bus.ID,
		&bus.PlateNumber,
		&bus.Capacity,
		&bus.SchoolID,
		&bus.CurrentDriverID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusNotFound
		}
		return nil, fmt.Errorf("error retrieving bus: %w", err)
	}

	return &bus, nil
}

// GetByDriverID retrieves the bus whose current driver is the given user
func (r *BusRepository) GetByDriverID(ctx context.Context, driverID string) (*models.Bus, error) {
	var bus models.Bus
	err := r.db.QueryRow(ctx, `
		SELECT id, plate_number, capacity, school_id, current_driver_id
		FROM buses
		WHERE current_driver_id = $1`, driverID).Scan(
		&bus.ID,
		&bus.PlateNumber,
		&bus.Capacity,
		&bus.SchoolID,
		&bus.CurrentDriverID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDriverWithoutBus
		}
		return nil, fmt.Errorf("error retrieving bus for driver: %w", err)
	}

	return &bus, nil
}

// List retrieves all buses
func (r *BusRepository) List(ctx context.Context) ([]*models.Bus, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, plate_number, capacity, school_id, current_driver_id
		FROM buses
		ORDER BY plate_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []*models.Bus
	for rows.Next() {
		var bus models.Bus
		if err := rows.Scan(
			&bus.ID,
			&bus.PlateNumber,
			&bus.Capacity,
			&bus.SchoolID,
			&bus.CurrentDriverID,
		); err != nil {
			return nil, err
		}
		buses = append(buses, &bus)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buses, nil
}

// Update updates an existing bus, re-checking plate uniqueness
func (r *BusRepository) Update(ctx context.Context, bus *models.Bus) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM buses WHERE plate_number = $1 AND id <> $2)`,
		bus.PlateNumber, bus.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking plate uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrPlateAlreadyExists
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE buses
		SET plate_number = $1, capacity = $2, school_id = $3
		WHERE id = $4`,
		bus.PlateNumber, bus.Capacity, bus.SchoolID, bus.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "buses_plate_number_key") {
			return apperrors.ErrPlateAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error updating bus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBusNotFound
	}

	return nil
}

// SetDriver makes the user the bus's current driver. A driver drives at
// most one bus at a time, so the driver's previous bus, if any, is
// released in the same transaction.
func (r *BusRepository) SetDriver(ctx context.Context, busID, driverID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting driver assignment: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE buses SET current_driver_id = NULL WHERE current_driver_id = $1 AND id <> $2`,
		driverID, busID); err != nil {
		return fmt.Errorf("error releasing previous bus: %w", err)
	}

	cmdTag, err := tx.Exec(ctx,
		`UPDATE buses SET current_driver_id = $1 WHERE id = $2`,
		driverID, busID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "buses_current_driver_key") {
			return apperrors.ErrDriverAlreadyAssigned
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error assigning driver: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBusNotFound
	}

	return tx.Commit(ctx)
}

// Delete removes a bus. Rejected while students are still assigned to it.
func (r *BusRepository) Delete(ctx context.Context, id string) error {
	var referenced bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_bus_assignments WHERE bus_id = $1)`,
		id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("error checking bus references: %w", err)
	}
	if referenced {
		return apperrors.ErrBusHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrBusHasRelations
		}
		return fmt.Errorf("error deleting bus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBusNotFound
	}

	return nil
}
