package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

func newResolver(m *memStore) *RelationshipResolver {
	return NewRelationshipResolver(busStore{m}, relationStore{m}, locationStore{m}, attendanceStore{m})
}

func TestResolverBusForDriver(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addUser("driver-2", models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)

	r := newResolver(m)

	bus, err := r.BusForDriver(context.Background(), driverID)
	if err != nil {
		t.Fatalf("BusForDriver() unexpected error: %v", err)
	}
	if bus.ID != "bus-1" {
		t.Errorf("BusForDriver() = %q, want bus-1", bus.ID)
	}

	if _, err := r.BusForDriver(context.Background(), "driver-2"); !errors.Is(err, apperrors.ErrDriverWithoutBus) {
		t.Errorf("BusForDriver() error = %v, want ErrDriverWithoutBus", err)
	}
}

func TestResolverBusForStudent(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	m.addBus("bus-1", "school-1", nil)
	m.addStudent("student-1", "school-1")
	m.addStudent("student-2", "school-1")
	m.assignments["student-1"] = "bus-1"

	r := newResolver(m)

	bus, err := r.BusForStudent(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("BusForStudent() unexpected error: %v", err)
	}
	if bus.ID != "bus-1" {
		t.Errorf("BusForStudent() = %q, want bus-1", bus.ID)
	}

	if _, err := r.BusForStudent(context.Background(), "student-2"); !errors.Is(err, apperrors.ErrStudentNotAssigned) {
		t.Errorf("BusForStudent() error = %v, want ErrStudentNotAssigned", err)
	}
}

func TestResolverStudentsForParent(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	m.addUser("parent-1", models.RoleParent)
	m.addStudent("student-1", "school-1")
	m.addStudent("student-2", "school-1")
	m.addStudent("student-3", "school-1")
	m.link("parent-1", "student-1")
	m.link("parent-1", "student-2")

	r := newResolver(m)

	students, err := r.StudentsForParent(context.Background(), "parent-1")
	if err != nil {
		t.Fatalf("StudentsForParent() unexpected error: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("StudentsForParent() = %d students, want 2", len(students))
	}
	for _, s := range students {
		if s.ID == "student-3" {
			t.Error("StudentsForParent() returned an unlinked student")
		}
	}
}

func TestResolverRosterForBus(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	m.addBus("bus-1", "school-1", nil)
	m.addBus("bus-2", "school-1", nil)
	m.addStudent("student-1", "school-1")
	m.addStudent("student-2", "school-1")
	m.assignments["student-1"] = "bus-1"
	m.assignments["student-2"] = "bus-2"

	r := newResolver(m)

	roster, err := r.RosterForBus(context.Background(), "bus-1")
	if err != nil {
		t.Fatalf("RosterForBus() unexpected error: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != "student-1" {
		t.Errorf("RosterForBus() = %+v, want [student-1]", roster)
	}
}

func TestResolverLatestLocation(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	m.addBus("bus-1", "school-1", nil)
	m.locations = []*models.BusLocation{
		{ID: "l1", BusID: "bus-1", Latitude: 41.0, Longitude: 29.0, Timestamp: time.Now().Add(-time.Minute)},
		{ID: "l2", BusID: "bus-1", Latitude: 41.1, Longitude: 29.1, Timestamp: time.Now()},
	}

	r := newResolver(m)

	latest, err := r.LatestLocation(context.Background(), "bus-1")
	if err != nil {
		t.Fatalf("LatestLocation() unexpected error: %v", err)
	}
	if latest.ID != "l2" {
		t.Errorf("LatestLocation() = %q, want the newest sample l2", latest.ID)
	}

	if _, err := r.LatestLocation(context.Background(), "bus-2"); !errors.Is(err, apperrors.ErrNoLocationRecorded) {
		t.Errorf("LatestLocation() error = %v, want ErrNoLocationRecorded", err)
	}
}

func TestResolverAttendanceForStudent(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	now := time.Now()
	m.attendance = []*models.AttendanceLog{
		{ID: "a1", StudentID: "student-1", BusID: "bus-1", Status: models.StatusBoarded, LogTime: now.Add(-48 * time.Hour)},
		{ID: "a2", StudentID: "student-1", BusID: "bus-1", Status: models.StatusAlighted, LogTime: now},
		{ID: "a3", StudentID: "student-2", BusID: "bus-1", Status: models.StatusBoarded, LogTime: now},
	}

	r := newResolver(m)

	all, err := r.AttendanceForStudent(context.Background(), "student-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("AttendanceForStudent() unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AttendanceForStudent() = %d entries, want 2", len(all))
	}

	recent, err := r.AttendanceForStudent(context.Background(), "student-1", now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("AttendanceForStudent() unexpected error: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "a2" {
		t.Errorf("AttendanceForStudent() bounded = %+v, want [a2]", recent)
	}
}
