package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
)

// bankTransactionHandler handles HTTP requests related to bank transactions.
type bankTransactionHandler struct {
	bankTransactionService portssvc.BankTransactionSvcFacade
}

func newBankTransactionHandler(svc portssvc.BankTransactionSvcFacade) *bankTransactionHandler {
	return &bankTransactionHandler{bankTransactionService: svc}
}

func registerBankTransactionRoutes(rg *gin.RouterGroup, svc portssvc.BankTransactionSvcFacade) {
	h := newBankTransactionHandler(svc)

	txs := rg.Group("/bank-transactions")
	{
		txs.GET("", h.searchBankTransactions)
		txs.POST("/import", h.importBankTransactions)
	}
}

// searchBankTransactions godoc
// @Summary Search bank transactions
// @Description Account, company, status and date filters run on the ledger; the amount range is applied afterwards on the fetched page
// @Tags bank-transactions
// @Produce  json
// @Param   bankAccount query string false "Bank account"
// @Param   company query string false "Company"
// @Param   status query string false "Unreconciled, Reconciled, Settled, Pending or Cancelled"
// @Param   fromDate query string false "YYYY-MM-DD"
// @Param   toDate query string false "YYYY-MM-DD"
// @Param   minAmount query number false "Inclusive lower bound"
// @Param   maxAmount query number false "Inclusive upper bound"
// @Param   limit query int false "Records fetched from the ledger"
// @Success 200 {object} dto.BankTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Security BearerAuth
// @Router /bank-transactions [get]
func (h *bankTransactionHandler) searchBankTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.SearchBankTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query for SearchBankTransactions")
		return
	}

	query, err := q.ToQuery()
	if err != nil {
		respondError(c, logger, err, "Failed to search bank transactions")
		return
	}

	txs, err := h.bankTransactionService.SearchBankTransactions(c.Request.Context(), query)
	if err != nil {
		respondError(c, logger, err, "Failed to search bank transactions")
		return
	}

	c.JSON(http.StatusOK, dto.BankTransactionsResponse{Transactions: txs, Count: len(txs)})
}

// importBankTransactions godoc
// @Summary Import bank statement rows
// @Description Hands rows already parsed from a statement file to the ledger's import procedure
// @Tags bank-transactions
// @Accept  json
// @Produce  json
// @Param   import body dto.ImportBankTransactionsRequest true "Statement rows"
// @Success 200 {object} dto.ImportBankTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Ledger call failed"
// @Security BearerAuth
// @Router /bank-transactions/import [post]
func (h *bankTransactionHandler) importBankTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportBankTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "JSON for ImportBankTransactions")
		return
	}

	logger.Info("Received bank statement import", slog.String("bank_account", req.BankAccount), slog.Int("row_count", len(req.Rows)))

	result, err := h.bankTransactionService.BatchImportBankTransactions(c.Request.Context(), req.Columns, req.Rows, req.BankAccount)
	if err != nil {
		respondError(c, logger, err, "Failed to import bank transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ImportBankTransactionsResponse{Result: result})
}
