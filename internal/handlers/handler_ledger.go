package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
)

const dateLayout = "2006-01-02"

// ledgerHandler serves the read-only ledger views of an account.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers the transaction and statement routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id/transactions", h.listTransactions)
		accounts.GET("/:id/statement", h.getStatement)
	}
}

// parseDateQuery reads an optional yyyy-mm-dd query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// listTransactions godoc
// @Summary List an account's transactions
// @Description Retrieves a page of an account's transactions ordered by date and sequence
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   from query string false "Start date (yyyy-mm-dd)"
// @Param   to query string false "End date (yyyy-mm-dd)"
// @Param   limit query int false "Max results (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid date or cursor"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /accounts/{id}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

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
	params := dto.ListTransactionsParams{
		From:  from,
		To:    to,
		Limit: limit,
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.ledgerService.ListTransactionsByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getStatement godoc
// @Summary Get an account statement
// @Description Replays the account's full history into a running-balance series starting from zero
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountStatementResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build statement"
// @Router /accounts/{id}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	resp, err := h.ledgerService.GetAccountStatement(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build statement")
		return
	}

	logger.Info("Statement built", slog.String("account_id", accountID), slog.Int("entries", len(resp.Entries)))
	c.JSON(http.StatusOK, resp)
}
