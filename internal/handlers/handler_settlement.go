package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
)

// settlementHandler handles the shift-day recording and close flow.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// registerSettlementRoutes registers routes for readings, previews and closes.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := &settlementHandler{settlementService: settlementService}

	settlement := rg.Group("/settlement")
	{
		settlement.POST("/readings", h.recordReadings)
		settlement.POST("/other-sales", h.recordOtherSales)
		settlement.GET("/available-shifts", h.availableShifts)
		settlement.POST("/preview", h.previewSettlement)
		settlement.POST("/close", h.closeShift)
		settlement.GET("/closures", h.listClosures)
		settlement.GET("/closures/:shiftID", h.getClosure)
	}
}

// requireDateQuery reads a mandatory yyyy-mm-dd query parameter.
func requireDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing '" + name + "' query parameter (yyyy-mm-dd)"})
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid '" + name + "' date, expected yyyy-mm-dd"})
		return time.Time{}, false
	}
	return t, true
}

// recordReadings godoc
// @Summary Record dispenser readings
// @Description Records a batch of pump meter readings for an open shift-day
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   request body dto.RecordReadingsRequest true "Readings"
// @Success 201 {array} domain.DispenserReading
// @Failure 400 {object} map[string]string "Invalid input or negative net reading"
// @Failure 409 {object} map[string]string "Shift already closed for this date"
// @Failure 500 {object} map[string]string "Failed to record readings"
// @Router /settlement/readings [post]
func (h *settlementHandler) recordReadings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordReadings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)

	readings, err := h.settlementService.RecordDispenserReadings(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record readings")
		return
	}

	c.JSON(http.StatusCreated, readings)
}

// recordOtherSales godoc
// @Summary Record other product sales
// @Description Records a batch of non-fuel sales for an open shift-day
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   request body dto.RecordOtherSalesRequest true "Sales"
// @Success 201 {array} domain.OtherProductSale
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Shift already closed for this date"
// @Failure 500 {object} map[string]string "Failed to record sales"
// @Router /settlement/other-sales [post]
func (h *settlementHandler) recordOtherSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordOtherSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordOtherSales", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)

	sales, err := h.settlementService.RecordOtherProductSales(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record sales")
		return
	}

	c.JSON(http.StatusCreated, sales)
}

// availableShifts godoc
// @Summary List shifts still open for a date
// @Tags settlement
// @Produce  json
// @Param   date query string true "Date (yyyy-mm-dd)"
// @Success 200 {array} dto.ShiftResponse
// @Failure 400 {object} map[string]string "Missing or invalid date"
// @Failure 500 {object} map[string]string "Failed to list shifts"
// @Router /settlement/available-shifts [get]
func (h *settlementHandler) availableShifts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, ok := requireDateQuery(c, "date")
	if !ok {
		return
	}

	shifts, err := h.settlementService.AvailableShifts(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list available shifts")
		return
	}

	c.JSON(http.StatusOK, dto.ToShiftResponses(shifts))
}

// previewSettlement godoc
// @Summary Preview a settlement
// @Description Aggregates the shift-day's recordings and allocates bank/credit splits without sealing anything
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   request body dto.SettlementRequest true "Settlement figures"
// @Success 200 {object} dto.SettlementSnapshotResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Shift already closed for this date"
// @Failure 500 {object} map[string]string "Failed to preview settlement"
// @Router /settlement/preview [post]
func (h *settlementHandler) previewSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PreviewSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.settlementService.PreviewSettlement(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to preview settlement")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// closeShift godoc
// @Summary Close a shift
// @Description Seals the (shift, date): persists the snapshot and any settlement vouchers atomically. Repeating the call yields a conflict.
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   request body dto.CloseShiftRequest true "Close payload"
// @Success 201 {object} dto.ClosureResponse
// @Failure 400 {object} map[string]string "Invalid input or zero sales"
// @Failure 409 {object} map[string]string "Shift already closed for this date"
// @Failure 500 {object} map[string]string "Failed to close shift"
// @Router /settlement/close [post]
func (h *settlementHandler) closeShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseShift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to close shift", slog.String("shift_id", req.ShiftID))

	closure, err := h.settlementService.CloseShift(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close shift")
		return
	}

	c.JSON(http.StatusCreated, dto.ToClosureResponse(closure))
}

// listClosures godoc
// @Summary List closures for a date
// @Tags settlement
// @Produce  json
// @Param   date query string true "Date (yyyy-mm-dd)"
// @Success 200 {array} dto.ClosureResponse
// @Failure 400 {object} map[string]string "Missing or invalid date"
// @Failure 500 {object} map[string]string "Failed to list closures"
// @Router /settlement/closures [get]
func (h *settlementHandler) listClosures(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, ok := requireDateQuery(c, "date")
	if !ok {
		return
	}

	closures, err := h.settlementService.ListClosuresByDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list closures")
		return
	}

	c.JSON(http.StatusOK, dto.ToClosureResponses(closures))
}

// getClosure godoc
// @Summary Get the closure for a shift and date
// @Tags settlement
// @Produce  json
// @Param   shiftID path string true "Shift ID"
// @Param   date query string true "Date (yyyy-mm-dd)"
// @Success 200 {object} dto.ClosureResponse
// @Failure 400 {object} map[string]string "Missing or invalid date"
// @Failure 404 {object} map[string]string "No closure for this shift and date"
// @Failure 500 {object} map[string]string "Failed to retrieve closure"
// @Router /settlement/closures/{shiftID} [get]
func (h *settlementHandler) getClosure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shiftID := c.Param("shiftID")
	date, ok := requireDateQuery(c, "date")
	if !ok {
		return
	}

	closure, err := h.settlementService.GetClosure(c.Request.Context(), shiftID, date)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve closure")
		return
	}

	c.JSON(http.StatusOK, dto.ToClosureResponse(closure))
}
