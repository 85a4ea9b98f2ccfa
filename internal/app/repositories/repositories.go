package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository in the application
type Repositories struct {
	User         *UserRepository
	School       *SchoolRepository
	Bus          *BusRepository
	Student      *StudentRepository
	Relation     *RelationRepository
	Attendance   *AttendanceRepository
	Location     *LocationRepository
	Notification *NotificationRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		School:       NewSchoolRepository(db),
		Bus:          NewBusRepository(db),
		Student:      NewStudentRepository(db),
		Relation:     NewRelationRepository(db),
		Attendance:   NewAttendanceRepository(db),
		Location:     NewLocationRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
