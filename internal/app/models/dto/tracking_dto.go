package dto

import "github.com/deniz/fleettrack/internal/app/models"

// AttendanceLogRequest is a boarding/alighting event submitted by a driver
type AttendanceLogRequest struct {
	StudentID string                  `json:"studentId" binding:"required,uuid"`
	BusID     string                  `json:"busId" binding:"required,uuid"`
	Status    models.AttendanceStatus `json:"status" binding:"required"`
	Latitude  float64                 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64                 `json:"longitude" binding:"min=-180,max=180"`
}

// LocationReportRequest is a position sample submitted by a driver
type LocationReportRequest struct {
	BusID     string   `json:"busId" binding:"required,uuid"`
	Latitude  float64  `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64  `json:"longitude" binding:"min=-180,max=180"`
	Speed     *float64 `json:"speed,omitempty" binding:"omitempty,min=0"`
}
