package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/app/repositories"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/validation"
	"github.com/deniz/fleettrack/internal/pkg/websocket"
)

// Publisher fans an event out to the subscribers of a bus topic
type Publisher interface {
	Publish(busID string, event websocket.Event)
}

// TrackingService ingests driver-reported attendance and location
// events. Events are persisted first and broadcast only after the write
// succeeds, so subscribers never see an event the store rejected.
type TrackingService struct {
	resolver      *RelationshipResolver
	relations     RelationStore
	students      StudentStore
	attendance    AttendanceStore
	locations     LocationStore
	notifications NotificationStore
	hub           Publisher
}

// NewTrackingService creates a new tracking service
func NewTrackingService(resolver *RelationshipResolver, relations RelationStore, students StudentStore, attendance AttendanceStore, locations LocationStore, notifications NotificationStore, hub Publisher) *TrackingService {
	return &TrackingService{
		resolver:      resolver,
		relations:     relations,
		students:      students,
		attendance:    attendance,
		locations:     locations,
		notifications: notifications,
		hub:           hub,
	}
}

// checkOwnership verifies the driver currently operates the bus
func (s *TrackingService) checkOwnership(ctx context.Context, driverID, busID string) error {
	bus, err := s.resolver.BusForDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDriverWithoutBus) {
			return apperrors.ErrNotCurrentDriver
		}
		return err
	}
	if bus.ID != busID {
		return apperrors.ErrNotCurrentDriver
	}
	return nil
}

// LogAttendance records a boarding or alighting event reported by the
// bus's current driver for a student on that bus's roster
func (s *TrackingService) LogAttendance(ctx context.Context, driverID string, entry *models.AttendanceLog) (*models.AttendanceLog, error) {
	if !entry.Status.Valid() {
		return nil, apperrors.NewValidationError("status must be BOARDED or ALIGHTED")
	}
	if !validation.ValidCoordinates(entry.Latitude, entry.Longitude) {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	if err := s.checkOwnership(ctx, driverID, entry.BusID); err != nil {
		return nil, err
	}

	onBus, err := s.relations.IsStudentOnBus(ctx, entry.StudentID, entry.BusID)
	if err != nil {
		return nil, err
	}
	if !onBus {
		return nil, apperrors.ErrStudentNotOnBus
	}

	entry.DriverID = driverID
	if err := s.attendance.Create(ctx, entry); err != nil {
		return nil, err
	}

	status := string(entry.Status)
	s.hub.Publish(entry.BusID, websocket.Event{
		BusID:     entry.BusID,
		Latitude:  entry.Latitude,
		Longitude: entry.Longitude,
		Status:    &status,
		Timestamp: entry.LogTime,
	})

	s.notifyParents(ctx, entry)

	return entry, nil
}

// notifyParents writes a notification row for each parent of the
// student. Notification failures are logged but never fail the ingest.
func (s *TrackingService) notifyParents(ctx context.Context, entry *models.AttendanceLog) {
	student, err := s.students.GetByID(ctx, entry.StudentID)
	if err != nil {
		log.Error().Err(err).Str("studentId", entry.StudentID).Msg("Failed to load student for notification")
		return
	}

	parents, err := s.relations.ParentsForStudent(ctx, entry.StudentID)
	if err != nil {
		log.Error().Err(err).Str("studentId", entry.StudentID).Msg("Failed to load parents for notification")
		return
	}

	verb := "boarded"
	if entry.Status == models.StatusAlighted {
		verb = "left"
	}
	message := fmt.Sprintf("%s has %s the bus at %s", student.FullName, verb, entry.LogTime.Format("15:04"))

	for _, parentID := range parents {
		notification := &models.Notification{
			RecipientID: parentID,
			Message:     message,
			Status:      models.NotificationSent,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			log.Error().Err(err).Str("recipientId", parentID).Msg("Failed to create notification")
		}
	}
}

// ListAttendance retrieves attendance entries matching the filter.
// Used by the admin reporting endpoint.
func (s *TrackingService) ListAttendance(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.AttendanceLog, error) {
	return s.attendance.ListFiltered(ctx, filter)
}

// ReportLocation records a location sample reported by the bus's
// current driver and broadcasts it to the bus topic
func (s *TrackingService) ReportLocation(ctx context.Context, driverID string, location *models.BusLocation) (*models.BusLocation, error) {
	if !validation.ValidCoordinates(location.Latitude, location.Longitude) {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}
	if location.Speed != nil && *location.Speed < 0 {
		return nil, apperrors.NewValidationError("speed cannot be negative")
	}

	if err := s.checkOwnership(ctx, driverID, location.BusID); err != nil {
		return nil, err
	}

	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}

	s.hub.Publish(location.BusID, websocket.Event{
		BusID:     location.BusID,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Speed:     location.Speed,
		Timestamp: location.Timestamp,
	})

	return location, nil
}
