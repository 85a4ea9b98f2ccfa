package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/websocket"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []websocket.Event
	topics []string
}

func (p *fakePublisher) Publish(busID string, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, busID)
	p.events = append(p.events, event)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTrackingFixture(m *memStore) (*TrackingService, *fakePublisher) {
	buses := busStore{m}
	relations := relationStore{m}
	locations := locationStore{m}
	attendance := attendanceStore{m}
	resolver := NewRelationshipResolver(buses, relations, locations, attendance)
	hub := &fakePublisher{}
	svc := NewTrackingService(resolver, relations, studentStore{m}, attendance, locations, notificationStore{m}, hub)
	return svc, hub
}

func boardingEntry(busID, studentID string) *models.AttendanceLog {
	return &models.AttendanceLog{
		StudentID: studentID,
		BusID:     busID,
		Status:    models.StatusBoarded,
		Latitude:  41.015137,
		Longitude: 28.979530,
	}
}

func TestLogAttendanceOwnership(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	m.addUser("driver-1", models.RoleDriver)
	m.addUser("driver-2", models.RoleDriver)
	driverID := "driver-1"
	m.addBus("bus-1", "school-1", &driverID)
	m.addBus("bus-2", "school-1", nil)
	m.addStudent("student-1", "school-1")
	m.assignments["student-1"] = "bus-1"

	svc, hub := newTrackingFixture(m)

	tests := []struct {
		name     string
		driverID string
		busID    string
		wantErr  error
	}{
		{"driver without a bus", "driver-2", "bus-1", apperrors.ErrNotCurrentDriver},
		{"driver reporting for another bus", "driver-1", "bus-2", apperrors.ErrNotCurrentDriver},
		{"current driver", "driver-1", "bus-1", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogAttendance(context.Background(), tt.driverID, boardingEntry(tt.busID, "student-1"))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LogAttendance() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LogAttendance() unexpected error: %v", err)
			}
		})
	}

	if got := hub.count(); got != 1 {
		t.Errorf("published events = %d, want 1 (rejected entries must not broadcast)", got)
	}
}

func TestLogAttendanceRosterCheck(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)
	m.addStudent("student-1", "school-1")
	// student-1 is not assigned to any bus

	svc, hub := newTrackingFixture(m)

	_, err := svc.LogAttendance(context.Background(), driverID, boardingEntry("bus-1", "student-1"))
	if !errors.Is(err, apperrors.ErrStudentNotOnBus) {
		t.Fatalf("LogAttendance() error = %v, want ErrStudentNotOnBus", err)
	}
	if len(m.attendance) != 0 {
		t.Errorf("attendance rows = %d, want 0", len(m.attendance))
	}
	if hub.count() != 0 {
		t.Errorf("published events = %d, want 0", hub.count())
	}
}

func TestLogAttendanceValidation(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)
	m.addStudent("student-1", "school-1")
	m.assignments["student-1"] = "bus-1"

	svc, _ := newTrackingFixture(m)

	tests := []struct {
		name   string
		mutate func(*models.AttendanceLog)
	}{
		{"unknown status", func(e *models.AttendanceLog) { e.Status = "TELEPORTED" }},
		{"latitude out of range", func(e *models.AttendanceLog) { e.Latitude = 91 }},
		{"longitude out of range", func(e *models.AttendanceLog) { e.Longitude = -181 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			entry := boardingEntry("bus-1", "student-1")
			tt.mutate(entry)
			_, err := svc.LogAttendance(context.Background(), driverID, entry)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("LogAttendance() error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestLogAttendancePersistsBeforePublish(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)
	m.addStudent("student-1", "school-1")
	m.assignments["student-1"] = "bus-1"
	m.failAttendanceCreate = true

	svc, hub := newTrackingFixture(m)

	_, err := svc.LogAttendance(context.Background(), driverID, boardingEntry("bus-1", "student-1"))
	if err == nil {
		t.Fatal("LogAttendance() expected store error, got nil")
	}
	if hub.count() != 0 {
		t.Errorf("published events = %d, want 0 when the write fails", hub.count())
	}
}

func TestLogAttendanceNotifiesParents(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addUser("parent-1", models.RoleParent)
	m.addUser("parent-2", models.RoleParent)
	m.addBus("bus-1", "school-1", &driverID)
	m.addStudent("student-1", "school-1")
	m.assignments["student-1"] = "bus-1"
	m.link("parent-1", "student-1")
	m.link("parent-2", "student-1")

	svc, hub := newTrackingFixture(m)

	entry := boardingEntry("bus-1", "student-1")
	entry.Status = models.StatusAlighted
	saved, err := svc.LogAttendance(context.Background(), driverID, entry)
	if err != nil {
		t.Fatalf("LogAttendance() unexpected error: %v", err)
	}
	if saved.DriverID != driverID {
		t.Errorf("DriverID = %q, want %q", saved.DriverID, driverID)
	}

	if len(m.notifications) != 2 {
		t.Fatalf("notifications = %d, want 2", len(m.notifications))
	}
	recipients := map[string]bool{}
	for _, n := range m.notifications {
		recipients[n.RecipientID] = true
		if n.Status != models.NotificationSent {
			t.Errorf("notification status = %q, want %q", n.Status, models.NotificationSent)
		}
	}
	if !recipients["parent-1"] || !recipients["parent-2"] {
		t.Errorf("notification recipients = %v, want both parents", recipients)
	}

	if hub.count() != 1 {
		t.Fatalf("published events = %d, want 1", hub.count())
	}
	event := hub.events[0]
	if event.Status == nil || *event.Status != string(models.StatusAlighted) {
		t.Errorf("event status = %v, want ALIGHTED", event.Status)
	}
}

func TestReportLocation(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)

	svc, hub := newTrackingFixture(m)

	speed := 42.5
	location := &models.BusLocation{BusID: "bus-1", Latitude: 41.0, Longitude: 29.0, Speed: &speed}
	saved, err := svc.ReportLocation(context.Background(), driverID, location)
	if err != nil {
		t.Fatalf("ReportLocation() unexpected error: %v", err)
	}
	if saved.ID == "" {
		t.Error("saved location has no ID")
	}
	if hub.count() != 1 {
		t.Fatalf("published events = %d, want 1", hub.count())
	}
	event := hub.events[0]
	if event.BusID != "bus-1" || event.Speed == nil || *event.Speed != speed {
		t.Errorf("event = %+v, want bus-1 with speed %v", event, speed)
	}
	if event.Status != nil {
		t.Errorf("location event carries status %q, want none", *event.Status)
	}
}

func TestReportLocationValidation(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)

	svc, hub := newTrackingFixture(m)

	negative := -3.0
	tests := []struct {
		name     string
		location *models.BusLocation
	}{
		{"latitude out of range", &models.BusLocation{BusID: "bus-1", Latitude: -90.5, Longitude: 29}},
		{"longitude out of range", &models.BusLocation{BusID: "bus-1", Latitude: 41, Longitude: 180.1}},
		{"negative speed", &models.BusLocation{BusID: "bus-1", Latitude: 41, Longitude: 29, Speed: &negative}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReportLocation(context.Background(), driverID, tt.location)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("ReportLocation() error = %v, want ErrValidationFailed", err)
			}
		})
	}
	if hub.count() != 0 {
		t.Errorf("published events = %d, want 0", hub.count())
	}
}

func TestReportLocationOwnership(t *testing.T) {
	t.Parallel()

	m := newMemStore()
	driverID := "driver-1"
	m.addUser(driverID, models.RoleDriver)
	m.addBus("bus-1", "school-1", &driverID)
	m.addBus("bus-2", "school-1", nil)

	svc, _ := newTrackingFixture(m)

	location := &models.BusLocation{BusID: "bus-2", Latitude: 41, Longitude: 29}
	_, err := svc.ReportLocation(context.Background(), driverID, location)
	if !errors.Is(err, apperrors.ErrNotCurrentDriver) {
		t.Fatalf("ReportLocation() error = %v, want ErrNotCurrentDriver", err)
	}
	if len(m.locations) != 0 {
		t.Errorf("location rows = %d, want 0", len(m.locations))
	}
}
