package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/fleettrack/internal/app/auth"
	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/app/models/dto"
	"github.com/deniz/fleettrack/internal/app/services"
	"github.com/deniz/fleettrack/internal/middleware"
)

// ParentController handles endpoints used by parents
type ParentController struct {
	resolver      *services.RelationshipResolver
	authorization *auth.AuthorizationService
	notifications services.NotificationStore
}

// NewParentController creates a new ParentController
func NewParentController(resolver *services.RelationshipResolver, authorization *auth.AuthorizationService, notifications services.NotificationStore) *ParentController {
	return &ParentController{
		resolver:      resolver,
		authorization: authorization,
		notifications: notifications,
	}
}

func identityFromContext(ctx *gin.Context) (string, models.RoleType) {
	userID := ctx.GetString("userID")
	roleValue, _ := ctx.Get("userRole")
	role, _ := roleValue.(models.RoleType)
	return userID, role
}

// GetMyStudents retrieves the parent's linked students
// @Summary List the parent's own students
// @Tags parent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Router /parent/me/students [get]
func (c *ParentController) GetMyStudents(ctx *gin.Context) {
	parentID := ctx.GetString("userID")

	students, err := c.resolver.StudentsForParent(ctx, parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}

// GetStudentBusLocation retrieves the latest position of the bus the
// parent's student rides
// @Summary Get the latest location of a student's bus
// @Tags parent
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.BusLocation} "Location retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Student is not linked to this parent"
// @Failure 404 {object} dto.ErrorResponse "Student has no bus or bus has not reported yet"
// @Router /parent/students/{id}/bus/location [get]
func (c *ParentController) GetStudentBusLocation(ctx *gin.Context) {
	studentID := ctx.Param("id")
	userID, role := identityFromContext(ctx)

	if err := c.authorization.CanViewStudent(ctx, userID, role, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	bus, err := c.resolver.BusForStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	location, err := c.resolver.LatestLocation(ctx, bus.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      location,
		Timestamp: time.Now(),
	})
}

// GetAttendanceHistory retrieves a student's attendance entries
// @Summary Get a student's attendance history
// @Tags parent
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param date query string false "Limit to one day (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceLog} "History retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Student is not linked to this parent"
// @Router /parent/students/{id}/attendance/history [get]
func (c *ParentController) GetAttendanceHistory(ctx *gin.Context) {
	studentID := ctx.Param("id")
	userID, role := identityFromContext(ctx)

	if err := c.authorization.CanViewAttendance(ctx, userID, role, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var startDate, endDate time.Time
	if dateStr := ctx.Query("date"); dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date format")
			errorDetail = errorDetail.WithDetails("Date must be YYYY-MM-DD")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		startDate = day
		endDate = day.Add(24*time.Hour - time.Nanosecond)
	}

	history, err := c.resolver.AttendanceForStudent(ctx, studentID, startDate, endDate)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      history,
		Timestamp: time.Now(),
	})
}

// GetMyNotifications retrieves the parent's notifications
// @Summary List the parent's notifications
// @Tags parent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Notification} "Notifications retrieved successfully"
// @Router /parent/me/notifications [get]
func (c *ParentController) GetMyNotifications(ctx *gin.Context) {
	parentID := ctx.GetString("userID")

	notifications, err := c.notifications.ListForRecipient(ctx, parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      notifications,
		Timestamp: time.Now(),
	})
}
