package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

// fakeGraph is an in-memory entity graph satisfying the bus and
// relation store interfaces the gate reads from.
type fakeGraph struct {
	buses       map[string]*models.Bus     // busID -> bus
	busByDriver map[string]string          // driverID -> busID
	parentLinks map[string]map[string]bool // parentID -> set of studentIDs
	assignments map[string]string          // studentID -> busID
	students    map[string]*models.Student
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		buses:       make(map[string]*models.Bus),
		busByDriver: make(map[string]string),
		parentLinks: make(map[string]map[string]bool),
		assignments: make(map[string]string),
		students:    make(map[string]*models.Student),
	}
}

func (g *fakeGraph) addBus(busID, driverID string) {
	g.buses[busID] = &models.Bus{ID: busID, PlateNumber: "34 ABC 123", Capacity: 20}
	if driverID != "" {
		g.busByDriver[driverID] = busID
	}
}

func (g *fakeGraph) addStudent(studentID, parentID, busID string) {
	g.students[studentID] = &models.Student{ID: studentID, FullName: "Student " + studentID}
	if parentID != "" {
		if g.parentLinks[parentID] == nil {
			g.parentLinks[parentID] = make(map[string]bool)
		}
		g.parentLinks[parentID][studentID] = true
	}
	if busID != "" {
		g.assignments[studentID] = busID
	}
}

// BusStore

func (g *fakeGraph) Create(ctx context.Context, bus *models.Bus) error { return nil }

func (g *fakeGraph) GetByID(ctx context.Context, id string) (*models.Bus, error) {
	b, ok := g.buses[id]
	if !ok {
		return nil, apperrors.ErrBusNotFound
	}
	return b, nil
}

func (g *fakeGraph) GetByDriverID(ctx context.Context, driverID string) (*models.Bus, error) {
	busID, ok := g.busByDriver[driverID]
	if !ok {
		return nil, apperrors.ErrDriverWithoutBus
	}
	return g.buses[busID], nil
}

func (g *fakeGraph) List(ctx context.Context) ([]*models.Bus, error) { return nil, nil }

func (g *fakeGraph) Update(ctx context.Context, bus *models.Bus) error { return nil }

func (g *fakeGraph) SetDriver(ctx context.Context, busID, driverID string) error { return nil }

func (g *fakeGraph) Delete(ctx context.Context, id string) error { return nil }

// RelationStore

func (g *fakeGraph) CreateParentRelation(ctx context.Context, relation *models.ParentStudentRelation) error {
	return nil
}

func (g *fakeGraph) DeleteParentRelation(ctx context.Context, parentID, studentID string) error {
	return nil
}

func (g *fakeGraph) IsParentOf(ctx context.Context, parentID, studentID string) (bool, error) {
	return g.parentLinks[parentID][studentID], nil
}

func (g *fakeGraph) StudentsForParent(ctx context.Context, parentID string) ([]*models.Student, error) {
	var out []*models.Student
	for studentID := range g.parentLinks[parentID] {
		out = append(out, g.students[studentID])
	}
	return out, nil
}

func (g *fakeGraph) ParentsForStudent(ctx context.Context, studentID string) ([]string, error) {
	return nil, nil
}

func (g *fakeGraph) CreateBusAssignment(ctx context.Context, assignment *models.StudentBusAssignment) error {
	return nil
}

func (g *fakeGraph) DeleteBusAssignment(ctx context.Context, studentID string) error {
	return nil
}

func (g *fakeGraph) BusForStudent(ctx context.Context, studentID string) (*models.Bus, error) {
	busID, ok := g.assignments[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotAssigned
	}
	return g.buses[busID], nil
}

func (g *fakeGraph) RosterForBus(ctx context.Context, busID string) ([]*models.Student, error) {
	return nil, nil
}

func (g *fakeGraph) IsStudentOnBus(ctx context.Context, studentID, busID string) (bool, error) {
	return g.assignments[studentID] == busID, nil
}

// newGateFixture builds a graph with two buses, two drivers, two
// parents and three students:
//
//	bus-1 (driver-1): student-1 (parent-1), student-2 (parent-2)
//	bus-2 (driver-2): student-3 (parent-2)
func newGateFixture() *AuthorizationService {
	g := newFakeGraph()
	g.addBus("bus-1", "driver-1")
	g.addBus("bus-2", "driver-2")
	g.addStudent("student-1", "parent-1", "bus-1")
	g.addStudent("student-2", "parent-2", "bus-1")
	g.addStudent("student-3", "parent-2", "bus-2")
	return NewAuthorizationService(g, g)
}

func TestCanViewStudent(t *testing.T) {
	t.Parallel()

	gate := newGateFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		role      models.RoleType
		studentID string
		allowed   bool
	}{
		{"admin sees any student", "admin-1", models.RoleAdmin, "student-3", true},
		{"parent sees own child", "parent-1", models.RoleParent, "student-1", true},
		{"parent denied another child", "parent-1", models.RoleParent, "student-2", false},
		{"driver sees rider of own bus", "driver-1", models.RoleDriver, "student-2", true},
		{"driver denied rider of another bus", "driver-1", models.RoleDriver, "student-3", false},
		{"driver without bus denied", "driver-3", models.RoleDriver, "student-1", false},
		{"unknown role denied", "ghost", "AUDITOR", "student-1", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := gate.CanViewStudent(ctx, tt.userID, tt.role, tt.studentID)
			if tt.allowed && err != nil {
				t.Fatalf("CanViewStudent() = %v, want allow", err)
			}
			if !tt.allowed && !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Fatalf("CanViewStudent() = %v, want ErrPermissionDenied", err)
			}
		})
	}
}

func TestCanViewBusLocation(t *testing.T) {
	t.Parallel()

	gate := newGateFixture()
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		role    models.RoleType
		busID   string
		allowed bool
	}{
		{"admin sees any bus", "admin-1", models.RoleAdmin, "bus-2", true},
		{"driver sees own bus", "driver-1", models.RoleDriver, "bus-1", true},
		{"driver denied another bus", "driver-1", models.RoleDriver, "bus-2", false},
		{"driver without bus denied", "driver-3", models.RoleDriver, "bus-1", false},
		{"parent sees child's bus", "parent-1", models.RoleParent, "bus-1", true},
		{"parent with children on both buses sees both", "parent-2", models.RoleParent, "bus-2", true},
		{"parent denied unrelated bus", "parent-1", models.RoleParent, "bus-2", false},
		{"unknown role denied", "ghost", "AUDITOR", "bus-1", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := gate.CanViewBusLocation(ctx, tt.userID, tt.role, tt.busID)
			if tt.allowed && err != nil {
				t.Fatalf("CanViewBusLocation() = %v, want allow", err)
			}
			if !tt.allowed && !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Fatalf("CanViewBusLocation() = %v, want ErrPermissionDenied", err)
			}
		})
	}
}

func TestDecisionsFollowCurrentState(t *testing.T) {
	t.Parallel()

	g := newFakeGraph()
	g.addBus("bus-1", "driver-1")
	g.addStudent("student-1", "parent-1", "bus-1")
	gate := NewAuthorizationService(g, g)
	ctx := context.Background()

	if err := gate.CanViewStudent(ctx, "parent-1", models.RoleParent, "student-1"); err != nil {
		t.Fatalf("CanViewStudent() before unlink = %v, want allow", err)
	}

	delete(g.parentLinks["parent-1"], "student-1")

	if err := gate.CanViewStudent(ctx, "parent-1", models.RoleParent, "student-1"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("CanViewStudent() after unlink = %v, want ErrPermissionDenied", err)
	}
}

func TestCanSubscribeBusMatchesLocationRule(t *testing.T) {
	t.Parallel()

	gate := newGateFixture()
	ctx := context.Background()

	if err := gate.CanSubscribeBus(ctx, "parent-1", models.RoleParent, "bus-1"); err != nil {
		t.Errorf("CanSubscribeBus() = %v, want allow", err)
	}
	if err := gate.CanSubscribeBus(ctx, "parent-1", models.RoleParent, "bus-2"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("CanSubscribeBus() = %v, want ErrPermissionDenied", err)
	}
}
