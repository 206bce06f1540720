package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.PUT("/:id", h.updateVoucher)
		vouchers.DELETE("/:id", h.deleteVoucher)
		vouchers.POST("/bulk-delete", h.bulkDeleteVouchers)
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Enters a Payment or Receipt voucher together with its transaction pair
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Voucher number already exists"
// @Failure 500 {object} map[string]string "Failed to create voucher"
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to create voucher", slog.String("voucher_no", req.VoucherNo), slog.String("type", string(req.Type)))

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Retrieves a filtered, paginated voucher list, newest first
// @Tags vouchers
// @Produce  json
// @Param   type query string false "Voucher type (PAYMENT or RECEIPT)"
// @Param   from query string false "Start date (yyyy-mm-dd)"
// @Param   to query string false "End date (yyyy-mm-dd)"
// @Param   limit query int false "Max results (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Failed to list vouchers"
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := parseDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected yyyy-mm-dd"})
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected yyyy-mm-dd"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := dto.ListVouchersParams{
		From:  from,
		To:    to,
		Limit: limit,
	}
	if rawType := c.Query("type"); rawType != "" {
		voucherType := domain.VoucherType(rawType)
		if voucherType != domain.Payment && voucherType != domain.Receipt {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voucher type, expected PAYMENT or RECEIPT"})
			return
		}
		params.Type = &voucherType
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to retrieve voucher"
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), voucherID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// updateVoucher godoc
// @Summary Update a voucher
// @Description Reverses the old pair, re-applies the transfer with the new fields and repoints the voucher, all atomically
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   voucher body dto.UpdateVoucherRequest true "Fields to update"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to update voucher"
// @Router /vouchers/{id} [put]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	var req dto.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), voucherID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// deleteVoucher godoc
// @Summary Delete a voucher
// @Description Removes the voucher and its pair, reversing the balance effects
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 204 "Voucher deleted"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 500 {object} map[string]string "Failed to delete voucher"
// @Router /vouchers/{id} [delete]
func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")
	actorID := middleware.GetActorIDFromContext(c)

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), voucherID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete voucher")
		return
	}

	c.Status(http.StatusNoContent)
}

// bulkDeleteVouchers godoc
// @Summary Delete multiple vouchers
// @Description Deletes a batch of vouchers and their pairs in one transaction; any missing voucher aborts the whole batch
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   request body dto.BulkDeleteVouchersRequest true "Voucher IDs"
// @Success 204 "Vouchers deleted"
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "A voucher was not found"
// @Failure 500 {object} map[string]string "Failed to delete vouchers"
// @Router /vouchers/bulk-delete [post]
func (h *voucherHandler) bulkDeleteVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BulkDeleteVouchersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkDeleteVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to bulk delete vouchers", slog.Int("count", len(req.VoucherIDs)))

	if err := h.voucherService.BulkDeleteVouchers(c.Request.Context(), req, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete vouchers")
		return
	}

	c.Status(http.StatusNoContent)
}
