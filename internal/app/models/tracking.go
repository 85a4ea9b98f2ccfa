package models

import "time"

// AttendanceLog records a student boarding or alighting a bus. Rows are
// append-only; they are never updated or deleted.
type AttendanceLog struct {
	ID        string           `json:"id" db:"id"`
	StudentID string           `json:"studentId" db:"student_id"`
	DriverID  string           `json:"driverId" db:"driver_id"`
	BusID     string           `json:"busId" db:"bus_id"`
	Status    AttendanceStatus `json:"status" db:"status" example:"BOARDED"`
	Latitude  float64          `json:"latitude" db:"latitude" example:"41.0082"`
	Longitude float64          `json:"longitude" db:"longitude" example:"28.9784"`
	LogTime   time.Time        `json:"logTime" db:"log_time"`
}

// BusLocation is one position sample reported by a driver. Rows are
// append-only; the row with the greatest timestamp is the current location.
type BusLocation struct {
	ID        string    `json:"id" db:"id"`
	BusID     string    `json:"busId" db:"bus_id"`
	Latitude  float64   `json:"latitude" db:"latitude" example:"41.0082"`
	Longitude float64   `json:"longitude" db:"longitude" example:"28.9784"`
	Speed     *float64  `json:"speed,omitempty" db:"speed" example:"42.5"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
