package services

import (
	"context"
	"errors"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/validation"
)

// BusService handles bus management and driver assignment
type BusService struct {
	buses     BusStore
	schools   SchoolStore
	users     UserStore
	locations LocationStore
}

// NewBusService creates a new bus service
func NewBusService(buses BusStore, schools SchoolStore, users UserStore, locations LocationStore) *BusService {
	return &BusService{
		buses:     buses,
		schools:   schools,
		users:     users,
		locations: locations,
	}
}

func (s *BusService) validateBus(ctx context.Context, bus *models.Bus) error {
	if !validation.ValidPlate(bus.PlateNumber) {
		return apperrors.NewValidationError("invalid plate number format")
	}
	if bus.Capacity <= 0 {
		return apperrors.NewValidationError("capacity must be positive")
	}
	if _, err := s.schools.GetByID(ctx, bus.SchoolID); err != nil {
		if errors.Is(err, apperrors.ErrSchoolNotFound) {
			return apperrors.ErrInvalidReference
		}
		return err
	}
	if bus.CurrentDriverID != nil {
		if err := s.checkDriver(ctx, *bus.CurrentDriverID); err != nil {
			return err
		}
	}
	return nil
}

func (s *BusService) checkDriver(ctx context.Context, driverID string) error {
	driver, err := s.users.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrInvalidReference
		}
		return err
	}
	if driver.Role != models.RoleDriver {
		return apperrors.ErrNotADriver
	}
	return nil
}

// CreateBus creates a new bus in an existing school
func (s *BusService) CreateBus(ctx context.Context, bus *models.Bus) (*models.Bus, error) {
	if err := s.validateBus(ctx, bus); err != nil {
		return nil, err
	}
	if err := s.buses.Create(ctx, bus); err != nil {
		return nil, err
	}
	return bus, nil
}

// GetBus retrieves a bus by ID
func (s *BusService) GetBus(ctx context.Context, id string) (*models.Bus, error) {
	return s.buses.GetByID(ctx, id)
}

// ListBuses retrieves all buses
func (s *BusService) ListBuses(ctx context.Context) ([]*models.Bus, error) {
	return s.buses.List(ctx)
}

// UpdateBus updates an existing bus
func (s *BusService) UpdateBus(ctx context.Context, bus *models.Bus) (*models.Bus, error) {
	if err := s.validateBus(ctx, bus); err != nil {
		return nil, err
	}
	if err := s.buses.Update(ctx, bus); err != nil {
		return nil, err
	}
	return s.buses.GetByID(ctx, bus.ID)
}

// AssignDriver sets the current driver of a bus to a DRIVER user
func (s *BusService) AssignDriver(ctx context.Context, busID, driverID string) error {
	if _, err := s.buses.GetByID(ctx, busID); err != nil {
		return err
	}
	if err := s.checkDriver(ctx, driverID); err != nil {
		return err
	}
	return s.buses.SetDriver(ctx, busID, driverID)
}

// DeleteBus deletes a bus. The delete is rejected while student
// assignments still reference it.
func (s *BusService) DeleteBus(ctx context.Context, id string) error {
	return s.buses.Delete(ctx, id)
}

// FleetLocations retrieves the latest known location for every bus that
// has reported at least once
func (s *BusService) FleetLocations(ctx context.Context) ([]*models.BusLocation, error) {
	return s.locations.LatestAll(ctx)
}
