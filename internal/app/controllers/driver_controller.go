package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/app/models/dto"
	"github.com/deniz/fleettrack/internal/app/services"
	"github.com/deniz/fleettrack/internal/middleware"
)

// DriverController handles endpoints used by bus drivers
type DriverController struct {
	resolver        *services.RelationshipResolver
	trackingService *services.TrackingService
}

// NewDriverController creates a new DriverController
func NewDriverController(resolver *services.RelationshipResolver, trackingService *services.TrackingService) *DriverController {
	return &DriverController{
		resolver:        resolver,
		trackingService: trackingService,
	}
}

// GetRoster retrieves the students on the driver's current bus
// @Summary Get the driver's roster
// @Tags driver
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Roster retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Driver has no bus assigned"
// @Router /driver/me/roster [get]
func (c *DriverController) GetRoster(ctx *gin.Context) {
	driverID := ctx.GetString("userID")

	bus, err := c.resolver.BusForDriver(ctx, driverID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	roster, err := c.resolver.RosterForBus(ctx, bus.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      roster,
		Timestamp: time.Now(),
	})
}

// LogAttendance records a boarding or alighting event
// @Summary Log a student boarding or leaving the bus
// @Tags driver
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AttendanceLogRequest true "Attendance event"
// @Success 201 {object} dto.APIResponse{data=models.AttendanceLog} "Event recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid event data"
// @Failure 403 {object} dto.ErrorResponse "Not the bus's current driver, or student not on this bus"
// @Router /driver/attendance/log [post]
func (c *DriverController) LogAttendance(ctx *gin.Context) {
	var req dto.AttendanceLogRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid attendance data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	driverID := ctx.GetString("userID")
	entry, err := c.trackingService.LogAttendance(ctx, driverID, &models.AttendanceLog{
		StudentID: req.StudentID,
		BusID:     req.BusID,
		Status:    req.Status,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      entry,
		Timestamp: time.Now(),
	})
}

// ReportLocation records a position sample for the driver's bus
// @Summary Report the bus's current position
// @Tags driver
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LocationReportRequest true "Position sample"
// @Success 201 {object} dto.APIResponse{data=models.BusLocation} "Position recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid position data"
// @Failure 403 {object} dto.ErrorResponse "Not the bus's current driver"
// @Router /driver/buses/me/location [post]
func (c *DriverController) ReportLocation(ctx *gin.Context) {
	var req dto.LocationReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid location data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	driverID := ctx.GetString("userID")
	location, err := c.trackingService.ReportLocation(ctx, driverID, &models.BusLocation{
		BusID:     req.BusID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Speed:     req.Speed,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      location,
		Timestamp: time.Now(),
	})
}
