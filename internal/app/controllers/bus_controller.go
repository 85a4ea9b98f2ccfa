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

// BusController handles bus management and fleet monitoring endpoints
type BusController struct {
	busService *services.BusService
}

// NewBusController creates a new BusController
func NewBusController(busService *services.BusService) *BusController {
	return &BusController{
		busService: busService,
	}
}

// CreateBus handles bus creation
// @Summary Create a new bus
// @Tags admin, buses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBusRequest true "Bus information"
// @Success 201 {object} dto.APIResponse{data=models.Bus} "Bus created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data, duplicate plate, or unknown school/driver"
// @Router /admin/buses [post]
func (c *BusController) CreateBus(ctx *gin.Context) {
	var req dto.CreateBusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid bus data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	bus, err := c.busService.CreateBus(ctx, &models.Bus{
		PlateNumber:     req.PlateNumber,
		Capacity:        req.Capacity,
		SchoolID:        req.SchoolID,
		CurrentDriverID: req.DriverID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      bus,
		Timestamp: time.Now(),
	})
}

// GetBus retrieves a bus by ID
// @Summary Get bus by ID
// @Tags admin, buses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bus ID"
// @Success 200 {object} dto.APIResponse{data=models.Bus} "Bus retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /admin/buses/{id} [get]
func (c *BusController) GetBus(ctx *gin.Context) {
	bus, err := c.busService.GetBus(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      bus,
		Timestamp: time.Now(),
	})
}

// ListBuses retrieves all buses
// @Summary List all buses
// @Tags admin, buses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Bus} "Buses retrieved successfully"
// @Router /admin/buses [get]
func (c *BusController) ListBuses(ctx *gin.Context) {
	buses, err := c.busService.ListBuses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      buses,
		Timestamp: time.Now(),
	})
}

// UpdateBus handles bus updates
// @Summary Update a bus
// @Tags admin, buses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bus ID"
// @Param request body dto.UpdateBusRequest true "Bus information"
// @Success 200 {object} dto.APIResponse{data=models.Bus} "Bus updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data, duplicate plate, or unknown school"
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /admin/buses/{id} [put]
func (c *BusController) UpdateBus(ctx *gin.Context) {
	var req dto.UpdateBusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid bus data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	bus, err := c.busService.UpdateBus(ctx, &models.Bus{
		ID:          ctx.Param("id"),
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
		SchoolID:    req.SchoolID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      bus,
		Timestamp: time.Now(),
	})
}

// DeleteBus handles bus deletion
// @Summary Delete a bus
// @Description Deletes a bus. The delete is rejected while students are still assigned to it.
// @Tags admin, buses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bus ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Bus deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Bus still has assigned students"
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /admin/buses/{id} [delete]
func (c *BusController) DeleteBus(ctx *gin.Context) {
	if err := c.busService.DeleteBus(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Bus deleted successfully"},
		Timestamp: time.Now(),
	})
}

// AssignDriver sets the current driver of a bus
// @Summary Assign a driver to a bus
// @Tags admin, buses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bus ID"
// @Param request body dto.AssignDriverRequest true "Driver to assign"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Driver assigned successfully"
// @Failure 400 {object} dto.ErrorResponse "User is not a driver or does not exist"
// @Failure 404 {object} dto.ErrorResponse "Bus not found"
// @Router /admin/buses/{id}/assign-driver [post]
func (c *BusController) AssignDriver(ctx *gin.Context) {
	var req dto.AssignDriverRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.busService.AssignDriver(ctx, ctx.Param("id"), req.DriverID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Driver assigned successfully"},
		Timestamp: time.Now(),
	})
}

// FleetLocations retrieves the latest known location of every bus
// @Summary Get the latest location of each bus
// @Tags admin, buses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.BusLocation} "Fleet locations retrieved successfully"
// @Router /admin/buses/locations [get]
func (c *BusController) FleetLocations(ctx *gin.Context) {
	locations, err := c.busService.FleetLocations(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      locations,
		Timestamp: time.Now(),
	})
}
