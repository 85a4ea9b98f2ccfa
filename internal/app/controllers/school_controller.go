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

// SchoolController handles school management endpoints
type SchoolController struct {
	schoolService *services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService *services.SchoolService) *SchoolController {
	return &SchoolController{
		schoolService: schoolService,
	}
}

// CreateSchool handles school creation
// @Summary Create a new school
// @Tags admin, schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSchoolRequest true "School information"
// @Success 201 {object} dto.APIResponse{data=models.School} "School created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or name already in use"
// @Router /admin/schools [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	var req dto.CreateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid school data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	school, err := c.schoolService.CreateSchool(ctx, &models.School{
		Name:            req.Name,
		Address:         req.Address,
		ContactPersonID: req.ContactPersonID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      school,
		Timestamp: time.Now(),
	})
}

// GetSchool retrieves a school by ID
// @Summary Get school by ID
// @Tags admin, schools
// @Produce json
// @Security BearerAuth
// @Param id path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=models.School} "School retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /admin/schools/{id} [get]
func (c *SchoolController) GetSchool(ctx *gin.Context) {
	school, err := c.schoolService.GetSchool(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      school,
		Timestamp: time.Now(),
	})
}

// ListSchools retrieves all schools
// @Summary List all schools
// @Tags admin, schools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.School} "Schools retrieved successfully"
// @Router /admin/schools [get]
func (c *SchoolController) ListSchools(ctx *gin.Context) {
	schools, err := c.schoolService.ListSchools(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      schools,
		Timestamp: time.Now(),
	})
}

// UpdateSchool handles school updates
// @Summary Update a school
// @Tags admin, schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "School ID"
// @Param request body dto.UpdateSchoolRequest true "School information"
// @Success 200 {object} dto.APIResponse{data=models.School} "School updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or name already in use"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /admin/schools/{id} [put]
func (c *SchoolController) UpdateSchool(ctx *gin.Context) {
	var req dto.UpdateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid school data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	school, err := c.schoolService.UpdateSchool(ctx, &models.School{
		ID:              ctx.Param("id"),
		Name:            req.Name,
		Address:         req.Address,
		ContactPersonID: req.ContactPersonID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      school,
		Timestamp: time.Now(),
	})
}

// DeleteSchool handles school deletion
// @Summary Delete a school
// @Description Deletes a school. The delete is rejected while students or buses still belong to it.
// @Tags admin, schools
// @Produce json
// @Security BearerAuth
// @Param id path string true "School ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "School deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "School still has students or buses"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /admin/schools/{id} [delete]
func (c *SchoolController) DeleteSchool(ctx *gin.Context) {
	if err := c.schoolService.DeleteSchool(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "School deleted successfully"},
		Timestamp: time.Now(),
	})
}
