package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/app/repositories"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

// memStore is an in-memory implementation of the store interfaces used
// by the resolver and tracking tests.
type memStore struct {
	mu sync.Mutex

	users       map[string]*models.User
	schools     map[string]*models.School
	buses       map[string]*models.Bus
	students    map[string]*models.Student
	parentLinks map[string]map[string]bool // parentID -> set of studentIDs
	assignments map[string]string          // studentID -> busID

	attendance    []*models.AttendanceLog
	locations     []*models.BusLocation
	notifications []*models.Notification

	failAttendanceCreate bool
	failLocationCreate   bool
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*models.User),
		schools:     make(map[string]*models.School),
		buses:       make(map[string]*models.Bus),
		students:    make(map[string]*models.Student),
		parentLinks: make(map[string]map[string]bool),
		assignments: make(map[string]string),
	}
}

func (m *memStore) addUser(id string, role models.RoleType) *models.User {
	u := &models.User{ID: id, FullName: "User " + id, Email: id + "@test.local", Role: role}
	m.users[id] = u
	return u
}

func (m *memStore) addBus(id, schoolID string, driverID *string) *models.Bus {
	b := &models.Bus{ID: id, PlateNumber: "34 TST " + id, Capacity: 20, SchoolID: schoolID, CurrentDriverID: driverID}
	m.buses[id] = b
	return b
}

func (m *memStore) addStudent(id, schoolID string) *models.Student {
	s := &models.Student{ID: id, FullName: "Student " + id, StudentNumber: "n-" + id, SchoolID: schoolID}
	m.students[id] = s
	return s
}

func (m *memStore) link(parentID, studentID string) {
	if m.parentLinks[parentID] == nil {
		m.parentLinks[parentID] = make(map[string]bool)
	}
	m.parentLinks[parentID][studentID] = true
}

// --- UserStore ---

func (m *memStore) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = uuid.New().String()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memStore) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) addSchool(id string) *models.School {
	s := &models.School{ID: id, Name: "School " + id}
	m.schools[id] = s
	return s
}

// schoolStore wraps memStore to satisfy SchoolStore.
type schoolStore struct{ m *memStore }

func (s schoolStore) Create(ctx context.Context, school *models.School) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	school.ID = uuid.New().String()
	s.m.schools[school.ID] = school
	return nil
}

func (s schoolStore) GetByID(ctx context.Context, id string) (*models.School, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sc, ok := s.m.schools[id]
	if !ok {
		return nil, apperrors.ErrSchoolNotFound
	}
	return sc, nil
}

func (s schoolStore) List(ctx context.Context) ([]*models.School, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]*models.School, 0, len(s.m.schools))
	for _, sc := range s.m.schools {
		out = append(out, sc)
	}
	return out, nil
}

func (s schoolStore) Update(ctx context.Context, school *models.School) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.schools[school.ID]; !ok {
		return apperrors.ErrSchoolNotFound
	}
	s.m.schools[school.ID] = school
	return nil
}

func (s schoolStore) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.schools[id]; !ok {
		return apperrors.ErrSchoolNotFound
	}
	delete(s.m.schools, id)
	return nil
}

// busStore wraps memStore to satisfy BusStore without method name
// collisions with the user store methods.
type busStore struct{ m *memStore }

func (s busStore) Create(ctx context.Context, bus *models.Bus) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	bus.ID = uuid.New().String()
	s.m.buses[bus.ID] = bus
	return nil
}

func (s busStore) GetByID(ctx context.Context, id string) (*models.Bus, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.buses[id]
	if !ok {
		return nil, apperrors.ErrBusNotFound
	}
	return b, nil
}

func (s busStore) GetByDriverID(ctx context.Context, driverID string) (*models.Bus, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, b := range s.m.buses {
		if b.CurrentDriverID != nil && *b.CurrentDriverID == driverID {
			return b, nil
		}
	}
	return nil, apperrors.ErrDriverWithoutBus
}

func (s busStore) List(ctx context.Context) ([]*models.Bus, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]*models.Bus, 0, len(s.m.buses))
	for _, b := range s.m.buses {
		out = append(out, b)
	}
	return out, nil
}

func (s busStore) Update(ctx context.Context, bus *models.Bus) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.buses[bus.ID]; !ok {
		return apperrors.ErrBusNotFound
	}
	s.m.buses[bus.ID] = bus
	return nil
}

func (s busStore) SetDriver(ctx context.Context, busID, driverID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.buses[busID]
	if !ok {
		return apperrors.ErrBusNotFound
	}
	for _, other := range s.m.buses {
		if other.ID != busID && other.CurrentDriverID != nil && *other.CurrentDriverID == driverID {
			other.CurrentDriverID = nil
		}
	}
	b.CurrentDriverID = &driverID
	return nil
}

func (s busStore) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.buses[id]; !ok {
		return apperrors.ErrBusNotFound
	}
	delete(s.m.buses, id)
	return nil
}

// studentStore wraps memStore to satisfy StudentStore.
type studentStore struct{ m *memStore }

func (s studentStore) Create(ctx context.Context, student *models.Student) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	student.ID = uuid.New().String()
	s.m.students[student.ID] = student
	return nil
}

func (s studentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	st, ok := s.m.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return st, nil
}

func (s studentStore) List(ctx context.Context) ([]*models.Student, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]*models.Student, 0, len(s.m.students))
	for _, st := range s.m.students {
		out = append(out, st)
	}
	return out, nil
}

func (s studentStore) Update(ctx context.Context, student *models.Student) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	s.m.students[student.ID] = student
	return nil
}

func (s studentStore) Delete(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(s.m.students, id)
	return nil
}

// relationStore wraps memStore to satisfy RelationStore.
type relationStore struct{ m *memStore }

func (s relationStore) CreateParentRelation(ctx context.Context, relation *models.ParentStudentRelation) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.parentLinks[relation.ParentID][relation.StudentID] {
		return apperrors.ErrRelationAlreadyExists
	}
	if s.m.parentLinks[relation.ParentID] == nil {
		s.m.parentLinks[relation.ParentID] = make(map[string]bool)
	}
	relation.ID = uuid.New().String()
	s.m.parentLinks[relation.ParentID][relation.StudentID] = true
	return nil
}

func (s relationStore) DeleteParentRelation(ctx context.Context, parentID, studentID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if !s.m.parentLinks[parentID][studentID] {
		return apperrors.ErrResourceNotFound
	}
	delete(s.m.parentLinks[parentID], studentID)
	return nil
}

func (s relationStore) IsParentOf(ctx context.Context, parentID, studentID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.parentLinks[parentID][studentID], nil
}

func (s relationStore) StudentsForParent(ctx context.Context, parentID string) ([]*models.Student, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.Student
	for studentID := range s.m.parentLinks[parentID] {
		if st, ok := s.m.students[studentID]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s relationStore) ParentsForStudent(ctx context.Context, studentID string) ([]string, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []string
	for parentID, set := range s.m.parentLinks {
		if set[studentID] {
			out = append(out, parentID)
		}
	}
	return out, nil
}

func (s relationStore) CreateBusAssignment(ctx context.Context, assignment *models.StudentBusAssignment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.assignments[assignment.StudentID]; ok {
		return apperrors.ErrAssignmentAlreadyExists
	}
	assignment.ID = uuid.New().String()
	s.m.assignments[assignment.StudentID] = assignment.BusID
	return nil
}

func (s relationStore) DeleteBusAssignment(ctx context.Context, studentID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.assignments[studentID]; !ok {
		return apperrors.ErrStudentNotAssigned
	}
	delete(s.m.assignments, studentID)
	return nil
}

func (s relationStore) BusForStudent(ctx context.Context, studentID string) (*models.Bus, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	busID, ok := s.m.assignments[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotAssigned
	}
	return s.m.buses[busID], nil
}

func (s relationStore) RosterForBus(ctx context.Context, busID string) ([]*models.Student, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.Student
	for studentID, assigned := range s.m.assignments {
		if assigned == busID {
			if st, ok := s.m.students[studentID]; ok {
				out = append(out, st)
			}
		}
	}
	return out, nil
}

func (s relationStore) IsStudentOnBus(ctx context.Context, studentID, busID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.assignments[studentID] == busID, nil
}

// attendanceStore wraps memStore to satisfy AttendanceStore.
type attendanceStore struct{ m *memStore }

func (s attendanceStore) Create(ctx context.Context, log *models.AttendanceLog) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failAttendanceCreate {
		return fmt.Errorf("attendance insert: %w", apperrors.ErrInternal)
	}
	log.ID = uuid.New().String()
	log.LogTime = time.Now()
	s.m.attendance = append(s.m.attendance, log)
	return nil
}

func (s attendanceStore) HistoryForStudent(ctx context.Context, studentID string, startDate, endDate time.Time) ([]*models.AttendanceLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.AttendanceLog
	for _, log := range s.m.attendance {
		if log.StudentID != studentID {
			continue
		}
		if !startDate.IsZero() && log.LogTime.Before(startDate) {
			continue
		}
		if !endDate.IsZero() && log.LogTime.After(endDate) {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (s attendanceStore) ListFiltered(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.AttendanceLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.AttendanceLog
	for _, log := range s.m.attendance {
		if filter.StudentID != "" && log.StudentID != filter.StudentID {
			continue
		}
		if filter.BusID != "" && log.BusID != filter.BusID {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

// locationStore wraps memStore to satisfy LocationStore.
type locationStore struct{ m *memStore }

func (s locationStore) Create(ctx context.Context, location *models.BusLocation) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failLocationCreate {
		return fmt.Errorf("location insert: %w", apperrors.ErrInternal)
	}
	location.ID = uuid.New().String()
	location.Timestamp = time.Now()
	s.m.locations = append(s.m.locations, location)
	return nil
}

func (s locationStore) LatestForBus(ctx context.Context, busID string) (*models.BusLocation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var latest *models.BusLocation
	for _, loc := range s.m.locations {
		if loc.BusID != busID {
			continue
		}
		if latest == nil || loc.Timestamp.After(latest.Timestamp) {
			latest = loc
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNoLocationRecorded
	}
	return latest, nil
}

func (s locationStore) LatestAll(ctx context.Context) ([]*models.BusLocation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	latest := make(map[string]*models.BusLocation)
	for _, loc := range s.m.locations {
		if cur, ok := latest[loc.BusID]; !ok || !loc.Timestamp.Before(cur.Timestamp) {
			latest[loc.BusID] = loc
		}
	}
	out := make([]*models.BusLocation, 0, len(latest))
	for _, loc := range latest {
		out = append(out, loc)
	}
	return out, nil
}

// notificationStore wraps memStore to satisfy NotificationStore.
type notificationStore struct{ m *memStore }

func (s notificationStore) Create(ctx context.Context, notification *models.Notification) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now()
	s.m.notifications = append(s.m.notifications, notification)
	return nil
}

func (s notificationStore) ListForRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}
