package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
)

// shiftHandler handles HTTP requests related to shift reference data.
type shiftHandler struct {
	shiftService portssvc.ShiftSvcFacade
}

// registerShiftRoutes registers routes related to shifts.
func registerShiftRoutes(rg *gin.RouterGroup, shiftService portssvc.ShiftSvcFacade) {
	h := &shiftHandler{shiftService: shiftService}

	shifts := rg.Group("/shifts")
	{
		shifts.POST("", h.createShift)
		shifts.GET("", h.listShifts)
		shifts.GET("/:id", h.getShift)
		shifts.PUT("/:id", h.updateShift)
		shifts.DELETE("/:id", h.deactivateShift)
	}
}

// createShift godoc
// @Summary Create a shift
// @Tags shifts
// @Accept  json
// @Produce  json
// @Param   shift body dto.CreateShiftRequest true "Shift details"
// @Success 201 {object} dto.ShiftResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 409 {object} map[string]string "Shift name already exists"
// @Failure 500 {object} map[string]string "Failed to create shift"
// @Router /shifts [post]
func (h *shiftHandler) createShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateShift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)

	shift, err := h.shiftService.CreateShift(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create shift")
		return
	}

	c.JSON(http.StatusCreated, dto.ToShiftResponse(shift))
}

// listShifts godoc
// @Summary List shifts
// @Tags shifts
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated shifts"
// @Success 200 {array} dto.ShiftResponse
// @Failure 500 {object} map[string]string "Failed to list shifts"
// @Router /shifts [get]
func (h *shiftHandler) listShifts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive := c.Query("includeInactive") == "true"

	shifts, err := h.shiftService.ListShifts(c.Request.Context(), includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list shifts")
		return
	}

	c.JSON(http.StatusOK, dto.ToShiftResponses(shifts))
}

// getShift godoc
// @Summary Get a shift by ID
// @Tags shifts
// @Produce  json
// @Param   id path string true "Shift ID"
// @Success 200 {object} dto.ShiftResponse
// @Failure 404 {object} map[string]string "Shift not found"
// @Failure 500 {object} map[string]string "Failed to retrieve shift"
// @Router /shifts/{id} [get]
func (h *shiftHandler) getShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shiftID := c.Param("id")

	shift, err := h.shiftService.GetShiftByID(c.Request.Context(), shiftID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve shift")
		return
	}

	c.JSON(http.StatusOK, dto.ToShiftResponse(shift))
}

// updateShift godoc
// @Summary Update a shift
// @Tags shifts
// @Accept  json
// @Produce  json
// @Param   id path string true "Shift ID"
// @Param   shift body dto.UpdateShiftRequest true "Fields to update"
// @Success 200 {object} dto.ShiftResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Shift not found"
// @Failure 500 {object} map[string]string "Failed to update shift"
// @Router /shifts/{id} [put]
func (h *shiftHandler) updateShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shiftID := c.Param("id")

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateShift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)

	shift, err := h.shiftService.UpdateShift(c.Request.Context(), shiftID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update shift")
		return
	}

	c.JSON(http.StatusOK, dto.ToShiftResponse(shift))
}

// deactivateShift godoc
// @Summary Deactivate a shift
// @Description Marks a shift inactive; existing closures and readings are kept
// @Tags shifts
// @Produce  json
// @Param   id path string true "Shift ID"
// @Success 204 "Shift deactivated"
// @Failure 400 {object} map[string]string "Shift already inactive"
// @Failure 404 {object} map[string]string "Shift not found"
// @Failure 500 {object} map[string]string "Failed to deactivate shift"
// @Router /shifts/{id} [delete]
func (h *shiftHandler) deactivateShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shiftID := c.Param("id")
	actorID := middleware.GetActorIDFromContext(c)

	if err := h.shiftService.DeactivateShift(c.Request.Context(), shiftID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate shift")
		return
	}

	c.Status(http.StatusNoContent)
}
