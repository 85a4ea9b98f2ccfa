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

// LocationRepository handles the append-only bus location trail
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{
		db: db,
	}
}

// Create inserts a location sample for a bus
func (r *LocationRepository) Create(ctx context.Context, location *models.BusLocation) error {
	location.ID = uuid.New().String()
	err := r.db.QueryRow(ctx, `
		INSERT INTO bus_locations (id, bus_id, latitude, longitude, speed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING recorded_at`,
		location.ID, location.BusID, location.Latitude, location.Longitude, location.Speed).Scan(&location.Timestamp)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating bus location: %w", err)
	}

	return nil
}

// LatestForBus retrieves the most recent location sample for the bus
func (r *LocationRepository) LatestForBus(ctx context.Context, busID string) (*models.BusLocation, error) {
	var location models.BusLocation
	err := r.db.QueryRow(ctx, `
		SELECT id, bus_id, latitude, longitude, speed, recorded_at
		FROM bus_locations
		WHERE bus_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1`, busID).Scan(
		&location.ID,
		&location.BusID,
		&location.Latitude,
		&location.Longitude,
		&location.Speed,
		&location.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoLocationRecorded
		}
		return nil, fmt.Errorf("error retrieving latest location: %w", err)
	}

	return &location, nil
}

// LatestAll retrieves the most recent sample per bus that has reported
// at least once. Used by the admin fleet overview.
func (r *LocationRepository) LatestAll(ctx context.Context) ([]*models.BusLocation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (bus_id) id, bus_id, latitude, longitude, speed, recorded_at
		FROM bus_locations
		ORDER BY bus_id, recorded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.BusLocation
	for rows.Next() {
		var location models.BusLocation
		err := rows.Scan(
			&location.ID,
			&location.BusID,
			&location.Latitude,
			&location.Longitude,
			&location.Speed,
			&location.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, &location)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}
