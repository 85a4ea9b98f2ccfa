package services

import (
	"context"
	"time"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/app/repositories"
)

// The store interfaces below describe what the services need from the
// persistence layer. The pgx repositories satisfy them; tests substitute
// in-memory implementations.

// UserStore provides user persistence
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// SchoolStore provides school persistence
type SchoolStore interface {
	Create(ctx context.Context, school *models.School) error
	GetByID(ctx context.Context, id string) (*models.School, error)
	List(ctx context.Context) ([]*models.School, error)
	Update(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id string) error
}

// BusStore provides bus persistence
type BusStore interface {
	Create(ctx context.Context, bus *models.Bus) error
	GetByID(ctx context.Context, id string) (*models.Bus, error)
	GetByDriverID(ctx context.Context, driverID string) (*models.Bus, error)
	List(ctx context.Context) ([]*models.Bus, error)
	Update(ctx context.Context, bus *models.Bus) error
	SetDriver(ctx context.Context, busID, driverID string) error
	Delete(ctx context.Context, id string) error
}

// StudentStore provides student persistence
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// RelationStore provides the parent-student and student-bus associations
type RelationStore interface {
	CreateParentRelation(ctx context.Context, relation *models.ParentStudentRelation) error
	DeleteParentRelation(ctx context.Context, parentID, studentID string) error
	IsParentOf(ctx context.Context, parentID, studentID string) (bool, error)
	StudentsForParent(ctx context.Context, parentID string) ([]*models.Student, error)
	ParentsForStudent(ctx context.Context, studentID string) ([]string, error)
	CreateBusAssignment(ctx context.Context, assignment *models.StudentBusAssignment) error
	DeleteBusAssignment(ctx context.Context, studentID string) error
	BusForStudent(ctx context.Context, studentID string) (*models.Bus, error)
	RosterForBus(ctx context.Context, busID string) ([]*models.Student, error)
	IsStudentOnBus(ctx context.Context, studentID, busID string) (bool, error)
}

// AttendanceStore provides the append-only attendance log
type AttendanceStore interface {
	Create(ctx context.Context, log *models.AttendanceLog) error
	HistoryForStudent(ctx context.Context, studentID string, startDate, endDate time.Time) ([]*models.AttendanceLog, error)
	ListFiltered(ctx context.Context, filter repositories.AttendanceFilter) ([]*models.AttendanceLog, error)
}

// LocationStore provides the append-only location trail
type LocationStore interface {
	Create(ctx context.Context, location *models.BusLocation) error
	LatestForBus(ctx context.Context, busID string) (*models.BusLocation, error)
	LatestAll(ctx context.Context) ([]*models.BusLocation, error)
}

// NotificationStore provides persisted notifications
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error)
}
