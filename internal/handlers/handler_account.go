package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
)

// accountHandler handles HTTP requests related to ledger accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/balance", h.getAccountBalance)
	}
}

// listAccounts godoc
// @Summary List ledger accounts
// @Tags accounts
// @Produce  json
// @Param   company query string false "Company"
// @Param   rootType query string false "Asset, Liability, Equity, Income or Expense"
// @Param   isGroup query bool false "Only group (or only leaf) accounts"
// @Param   limit query int false "Maximum number of accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.ListAccountsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query for ListAccounts")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), q.ToQuery())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: accounts})
}

// getAccountBalance godoc
// @Summary Get the balance of an account
// @Tags accounts
// @Produce  json
// @Param   account query string true "Account, e.g. 1111 - Checking - ABC"
// @Param   date query string false "Balance as of YYYY-MM-DD (default today)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Missing account"
// @Security BearerAuth
// @Router /accounts/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.AccountBalanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query for GetAccountBalance")
		return
	}

	balance, err := h.accountService.GetAccountBalance(c.Request.Context(), domain.LedgerAccountRef(q.Account), q.Date)
	if err != nil {
		respondError(c, logger, err, "Failed to get account balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{Account: q.Account, Date: q.Date, Balance: balance})
}
