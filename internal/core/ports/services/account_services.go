package services

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc reads the remote chart of accounts.
type AccountReaderSvc interface {
	ListAccounts(ctx context.Context, query domain.AccountQuery) ([]domain.Account, error)
}

// AccountBalanceSvc looks up account balances.
type AccountBalanceSvc interface {
	// GetAccountBalance returns the balance of account as of date (YYYY-MM-DD, empty for today).
	GetAccountBalance(ctx context.Context, account domain.LedgerAccountRef, date string) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountBalanceSvc
}
