package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const (
	defaultSearchLimit = 100

	// DefaultBankImportMethod is the remote procedure that turns parsed statement rows into bank transactions.
	DefaultBankImportMethod = "erpnext.accounts.doctype.bank_transaction.bank_transaction_upload.create_bank_entries"
)

var bankTransactionFields = []string{
	"name", "date", "deposit", "withdrawal", "description", "reference_number", "status", "bank_account", "currency",
}

// bankTransactionService searches and imports bank transactions.
type bankTransactionService struct {
	BaseService
	gateway      portsgw.LedgerGateway
	searchLimit  int
	importMethod string
}

// BankTransactionServiceOption configures the bank transaction service.
type BankTransactionServiceOption func(*bankTransactionService)

// WithSearchLimit sets the page size requested from the gateway when the query has none.
func WithSearchLimit(limit int) BankTransactionServiceOption {
	return func(s *bankTransactionService) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

// WithImportMethod overrides the remote procedure used by BatchImportBankTransactions.
func WithImportMethod(method string) BankTransactionServiceOption {
	return func(s *bankTransactionService) {
		if method != "" {
			s.importMethod = method
		}
	}
}

// WithBankTransactionMetrics reports search sizes to collector.
func WithBankTransactionMetrics(collector metrics.Collector) BankTransactionServiceOption {
	return func(s *bankTransactionService) {
		s.Metrics = collector
	}
}

// NewBankTransactionService creates a new bank transaction service backed by gateway.
func NewBankTransactionService(gateway portsgw.LedgerGateway, opts ...BankTransactionServiceOption) portssvc.BankTransactionSvcFacade {
	s := &bankTransactionService{
		gateway:      gateway,
		searchLimit:  defaultSearchLimit,
		importMethod: DefaultBankImportMethod,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BankTransactionSvcFacade = (*bankTransactionService)(nil)

// SearchBankTransactions pushes account, company, status and date predicates to the ledger and
// applies the amount range locally. The ledger cannot filter on "deposit if positive, else
// withdrawal", so that predicate stays here; everything else is server-side to keep the
// transferred set small. The limit applies to the server-side fetch, before the amount filter.
// Results keep the ledger's order.
func (s *bankTransactionService) SearchBankTransactions(ctx context.Context, query domain.BankTransactionQuery) ([]domain.BankTransaction, error) {
	if query.MinAmount != nil && query.MaxAmount != nil && query.MinAmount.GreaterThan(*query.MaxAmount) {
		return nil, apperrors.StructuralInputf("minAmount %s is greater than maxAmount %s", query.MinAmount, query.MaxAmount)
	}
	if query.Status != "" && !query.Status.IsValid() {
		return nil, apperrors.StructuralInputf("unknown bank transaction status %q", query.Status)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = s.searchLimit
	}

	records, err := s.gateway.List(ctx, domain.DocTypeBankTransaction, bankTransactionFilters(query), portsgw.ListOptions{
		Fields:  bankTransactionFields,
		Limit:   limit,
		OrderBy: "date desc",
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank transactions")
		return nil, fmt.Errorf("failed to search bank transactions: %w", err)
	}

	transactions := make([]domain.BankTransaction, 0, len(records))
	for _, rec := range records {
		tx := domain.BankTransactionFromRecord(rec)
		if inAmountRange(tx.Amount(), query) {
			transactions = append(transactions, tx)
		}
	}

	s.collector().RecordSearch(len(records), len(transactions))
	s.LogDebug(ctx, "Bank transaction search finished", slog.Int("fetched", len(records)), slog.Int("returned", len(transactions)))
	return transactions, nil
}

// BatchImportBankTransactions hands parsed statement rows to the ledger's import procedure.
func (s *bankTransactionService) BatchImportBankTransactions(ctx context.Context, columns []string, rows [][]any, bankAccount string) (any, error) {
	if bankAccount == "" {
		return nil, apperrors.StructuralInputf("bank account is required")
	}
	if len(columns) == 0 {
		return nil, apperrors.StructuralInputf("columns are required")
	}
	if len(rows) == 0 {
		return nil, apperrors.StructuralInputf("at least one row is required")
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, apperrors.StructuralInputf("row %d has %d values, expected %d", i+1, len(row), len(columns))
		}
	}

	result, err := s.gateway.Invoke(ctx, s.importMethod, map[string]any{
		"columns":      columns,
		"data":         rows,
		"bank_account": bankAccount,
	})
	if err != nil {
		s.LogError(ctx, err, "Bank transaction import failed", slog.String("bank_account", bankAccount), slog.Int("row_count", len(rows)))
		return nil, fmt.Errorf("failed to import bank transactions: %w", err)
	}

	s.LogInfo(ctx, "Bank transactions imported", slog.String("bank_account", bankAccount), slog.Int("row_count", len(rows)))
	return result, nil
}

func bankTransactionFilters(query domain.BankTransactionQuery) []portsgw.Filter {
	var filters []portsgw.Filter
	if f, ok := equalsFilter("bank_account", query.BankAccount); ok {
		filters = append(filters, f)
	}
	if f, ok := equalsFilter("company", query.Company); ok {
		filters = append(filters, f)
	}
	if f, ok := equalsFilter("status", string(query.Status)); ok {
		filters = append(filters, f)
	}
	if f, ok := dateRangeFilter("date", query.FromDate, query.ToDate); ok {
		filters = append(filters, f)
	}
	return filters
}

// inAmountRange is the residual client-side predicate of a search.
func inAmountRange(amount decimal.Decimal, query domain.BankTransactionQuery) bool {
	if query.MinAmount != nil && !amount.GreaterThanOrEqual(*query.MinAmount) {
		return false
	}
	if query.MaxAmount != nil && !amount.LessThanOrEqual(*query.MaxAmount) {
		return false
	}
	return true
}
