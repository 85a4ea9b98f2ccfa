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

// StudentController handles student management endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags admin, students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data, duplicate student number, or unknown school"
// @Router /admin/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &models.Student{
		FullName:      req.FullName,
		StudentNumber: req.StudentNumber,
		SchoolID:      req.SchoolID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// GetStudent retrieves a student by ID
// @Summary Get student by ID
// @Tags admin, students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// ListStudents retrieves all students
// @Summary List all students
// @Tags admin, students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved successfully"
// @Router /admin/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}

// UpdateStudent handles student updates
// @Summary Update a student
// @Tags admin, students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data, duplicate student number, or unknown school"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, &models.Student{
		ID:            ctx.Param("id"),
		FullName:      req.FullName,
		StudentNumber: req.StudentNumber,
		SchoolID:      req.SchoolID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// DeleteStudent handles student deletion
// @Summary Delete a student
// @Description Deletes a student. The delete is rejected while parent relations or a bus assignment still exist.
// @Tags admin, students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Student is still referenced"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.DeleteStudent(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student deleted successfully"},
		Timestamp: time.Now(),
	})
}

// AssignParent links a parent user to a student
// @Summary Assign a parent to a student
// @Tags admin, students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.AssignParentRequest true "Parent to link"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Parent assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "User is not a parent or relation already exists"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id}/assign-parent [post]
func (c *StudentController) AssignParent(ctx *gin.Context) {
	var req dto.AssignParentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.studentService.AssignParent(ctx, ctx.Param("id"), req.ParentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Parent assigned successfully"},
		Timestamp: time.Now(),
	})
}

// RemoveParent unlinks a parent from a student
// @Summary Remove a parent link from a student
// @Tags admin, students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param parentId path string true "Parent user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Parent removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Relation not found"
// @Router /admin/students/{id}/parents/{parentId} [delete]
func (c *StudentController) RemoveParent(ctx *gin.Context) {
	if err := c.studentService.RemoveParent(ctx, ctx.Param("id"), ctx.Param("parentId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Parent removed successfully"},
		Timestamp: time.Now(),
	})
}

// AssignBus places a student on a bus
// @Summary Assign a student to a bus
// @Tags admin, students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.AssignBusRequest true "Bus to assign"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Bus assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "Student already assigned or bus unknown"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id}/assign-bus [post]
func (c *StudentController) AssignBus(ctx *gin.Context) {
	var req dto.AssignBusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.studentService.AssignBus(ctx, ctx.Param("id"), req.BusID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Bus assigned successfully"},
		Timestamp: time.Now(),
	})
}

// RemoveBus removes a student's bus assignment
// @Summary Remove a student's bus assignment
// @Tags admin, students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Assignment removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Student has no bus assignment"
// @Router /admin/students/{id}/bus [delete]
func (c *StudentController) RemoveBus(ctx *gin.Context) {
	if err := c.studentService.RemoveBus(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Assignment removed successfully"},
		Timestamp: time.Now(),
	})
}
