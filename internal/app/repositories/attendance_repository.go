package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/dberrors"
)

// AttendanceFilter narrows admin attendance queries. Zero values mean
// "no constraint" for that field.
type AttendanceFilter struct {
	StartDate time.Time
	EndDate   time.Time
	BusID     string
	StudentID string
}

// AttendanceRepository handles the append-only attendance log
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

// Create inserts an attendance log entry. Entries are never updated or
// deleted afterwards.
func (r *AttendanceRepository) Create(ctx context.Context, log *models.AttendanceLog) error {
	log.ID = uuid.New().String()
	err := r.db.QueryRow(ctx, `
		INSERT INTO attendance_logs (id, student_id, driver_id, bus_id, status, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING log_time`,
		log.ID, log.StudentID, log.DriverID, log.BusID, log.Status, log.Latitude, log.Longitude).Scan(&log.LogTime)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidReference
		}
		return fmt.Errorf("error creating attendance log: %w", err)
	}

	return nil
}

// HistoryForStudent retrieves the student's attendance entries, newest
// first, optionally bounded by a date range.
func (r *AttendanceRepository) HistoryForStudent(ctx context.Context, studentID string, startDate, endDate time.Time) ([]*models.AttendanceLog, error) {
	query := `
		SELECT id, student_id, driver_id, bus_id, status, latitude, longitude, log_time
		FROM attendance_logs
		WHERE student_id = $1`
	args := []interface{}{studentID}

	if !startDate.IsZero() {
		args = append(args, startDate)
		query += fmt.Sprintf(" AND log_time >= $%d", len(args))
	}
	if !endDate.IsZero() {
		args = append(args, endDate)
		query += fmt.Sprintf(" AND log_time <= $%d", len(args))
	}
	query += " ORDER BY log_time DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttendanceLogs(rows)
}

// ListFiltered retrieves attendance entries matching the filter, newest
// first. Used by the admin reporting endpoint.
func (r *AttendanceRepository) ListFiltered(ctx context.Context, filter AttendanceFilter) ([]*models.AttendanceLog, error) {
	query := `
		SELECT id, student_id, driver_id, bus_id, status, latitude, longitude, log_time
		FROM attendance_logs
		WHERE 1=1`
	args := []interface{}{}

	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.BusID != "" {
		args = append(args, filter.BusID)
		query += fmt.Sprintf(" AND bus_id = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND log_time >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND log_time <= $%d", len(args))
	}
	query += " ORDER BY log_time DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttendanceLogs(rows)
}

func scanAttendanceLogs(rows pgx.Rows) ([]*models.AttendanceLog, error) {
	var logs []*models.AttendanceLog
	for rows.Next() {
		var log models.AttendanceLog
		err := rows.Scan(
			&log.ID,
			&log.StudentID,
			&log.DriverID,
			&log.BusID,
			&log.Status,
			&log.Latitude,
			&log.Longitude,
			&log.LogTime,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
