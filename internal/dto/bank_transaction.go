package dto

import (
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SearchBankTransactionsQuery is bound from the query string of the search endpoint.
type SearchBankTransactionsQuery struct {
	BankAccount string  `form:"bankAccount"`
	Company     string  `form:"company"`
	Status      string  `form:"status" binding:"omitempty,oneof=Unreconciled Reconciled Settled Pending Cancelled"`
	FromDate    string  `form:"fromDate" binding:"omitempty,ledger_date"`
	ToDate      string  `form:"toDate" binding:"omitempty,ledger_date"`
	MinAmount   *string `form:"minAmount" binding:"omitempty,numeric"`
	MaxAmount   *string `form:"maxAmount" binding:"omitempty,numeric"`
	Limit       int     `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToQuery converts the bound parameters to a domain query.
func (q SearchBankTransactionsQuery) ToQuery() (domain.BankTransactionQuery, error) {
	minAmount, err := parseOptionalDecimal("minAmount", q.MinAmount)
	if err != nil {
		return domain.BankTransactionQuery{}, err
	}
	maxAmount, err := parseOptionalDecimal("maxAmount", q.MaxAmount)
	if err != nil {
		return domain.BankTransactionQuery{}, err
	}
	return domain.BankTransactionQuery{
		BankAccount: q.BankAccount,
		Company:     q.Company,
		Status:      domain.BankTransactionStatus(q.Status),
		FromDate:    q.FromDate,
		ToDate:      q.ToDate,
		MinAmount:   minAmount,
		MaxAmount:   maxAmount,
		Limit:       q.Limit,
	}, nil
}

func parseOptionalDecimal(name string, raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", apperrors.ErrStructuralInput, name)
	}
	return &d, nil
}

// BankTransactionsResponse is the result of a search.
type BankTransactionsResponse struct {
	Transactions []domain.BankTransaction `json:"transactions"`
	Count        int                      `json:"count"`
}

// ImportBankTransactionsRequest carries statement rows already parsed from CSV or Excel.
type ImportBankTransactionsRequest struct {
	Columns     []string `json:"columns"`
	Rows        [][]any  `json:"rows"`
	BankAccount string   `json:"bankAccount"`
}

// ImportBankTransactionsResponse wraps the ledger's own import result.
type ImportBankTransactionsResponse struct {
	Result any `json:"result"`
}
