package services

import (
	"context"
	"time"

	"github.com/deniz/fleettrack/internal/app/models"
)

// RelationshipResolver answers derived questions over the entity graph:
// which bus a driver operates, who rides a bus, which bus carries a
// student, which students belong to a parent. Every answer is computed
// from current state at call time; nothing is cached.
type RelationshipResolver struct {
	buses      BusStore
	relations  RelationStore
	locations  LocationStore
	attendance AttendanceStore
}

// NewRelationshipResolver creates a new resolver
func NewRelationshipResolver(buses BusStore, relations RelationStore, locations LocationStore, attendance AttendanceStore) *RelationshipResolver {
	return &RelationshipResolver{
		buses:      buses,
		relations:  relations,
		locations:  locations,
		attendance: attendance,
	}
}

// BusForDriver retrieves the bus currently assigned to the driver
func (r *RelationshipResolver) BusForDriver(ctx context.Context, driverID string) (*models.Bus, error) {
	return r.buses.GetByDriverID(ctx, driverID)
}

// RosterForBus retrieves the students assigned to the bus
func (r *RelationshipResolver) RosterForBus(ctx context.Context, busID string) ([]*models.Student, error) {
	return r.relations.RosterForBus(ctx, busID)
}

// BusForStudent retrieves the bus the student rides
func (r *RelationshipResolver) BusForStudent(ctx context.Context, studentID string) (*models.Bus, error) {
	return r.relations.BusForStudent(ctx, studentID)
}

// StudentsForParent retrieves the students linked to the parent
func (r *RelationshipResolver) StudentsForParent(ctx context.Context, parentID string) ([]*models.Student, error) {
	return r.relations.StudentsForParent(ctx, parentID)
}

// LatestLocation retrieves the most recent reported location of the bus
func (r *RelationshipResolver) LatestLocation(ctx context.Context, busID string) (*models.BusLocation, error) {
	return r.locations.LatestForBus(ctx, busID)
}

// AttendanceForStudent retrieves the student's attendance history,
// optionally bounded to a date range
func (r *RelationshipResolver) AttendanceForStudent(ctx context.Context, studentID string, startDate, endDate time.Time) ([]*models.AttendanceLog, error) {
	return r.attendance.HistoryForStudent(ctx, studentID, startDate, endDate)
}
