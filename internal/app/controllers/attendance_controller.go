package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/fleettrack/internal/app/models/dto"
	"github.com/deniz/fleettrack/internal/app/repositories"
	"github.com/deniz/fleettrack/internal/app/services"
	"github.com/deniz/fleettrack/internal/middleware"
)

// AttendanceController handles admin attendance reporting endpoints
type AttendanceController struct {
	trackingService *services.TrackingService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(trackingService *services.TrackingService) *AttendanceController {
	return &AttendanceController{
		trackingService: trackingService,
	}
}

// ListAttendanceLogs retrieves attendance entries matching the filter
// @Summary List attendance logs
// @Tags admin, attendance
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Lower bound (YYYY-MM-DD)"
// @Param end_date query string false "Upper bound (YYYY-MM-DD)"
// @Param bus_id query string false "Filter by bus"
// @Param student_id query string false "Filter by student"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceLog} "Logs retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Router /admin/logs/attendance [get]
func (c *AttendanceController) ListAttendanceLogs(ctx *gin.Context) {
	var query dto.AttendanceLogFilter
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	filter := repositories.AttendanceFilter{
		BusID:     query.BusID,
		StudentID: query.StudentID,
	}
	if query.StartDate != "" {
		day, err := time.Parse("2006-01-02", query.StartDate)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid start_date format")
			errorDetail = errorDetail.WithDetails("Date must be YYYY-MM-DD")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.StartDate = day
	}
	if query.EndDate != "" {
		day, err := time.Parse("2006-01-02", query.EndDate)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid end_date format")
			errorDetail = errorDetail.WithDetails("Date must be YYYY-MM-DD")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.EndDate = day.Add(24*time.Hour - time.Nanosecond)
	}

	logs, err := c.trackingService.ListAttendance(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      logs,
		Timestamp: time.Now(),
	})
}
