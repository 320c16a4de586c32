package services

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// BankTransactionSearchSvc searches bank transactions.
type BankTransactionSearchSvc interface {
	SearchBankTransactions(ctx context.Context, query domain.BankTransactionQuery) ([]domain.BankTransaction, error)
}

// BankTransactionImportSvc imports statement rows already parsed into columns and rows.
type BankTransactionImportSvc interface {
	// BatchImportBankTransactions returns the ledger's own import result unchanged.
	BatchImportBankTransactions(ctx context.Context, columns []string, rows [][]any, bankAccount string) (any, error)
}

// BankTransactionSvcFacade combines all bank transaction service interfaces.
type BankTransactionSvcFacade interface {
	BankTransactionSearchSvc
	BankTransactionImportSvc
}
