package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	defaultAccountListLimit = 500
	balanceMethod           = "erpnext.accounts.utils.get_balance_on"
)

var accountFields = []string{
	"name", "account_name", "account_number", "root_type", "account_type", "parent_account", "company", "account_currency", "is_group",
}

// accountService reads the remote chart of accounts.
type accountService struct {
	BaseService
	gateway portsgw.LedgerGateway
}

// NewAccountService creates a new account service backed by gateway.
func NewAccountService(gateway portsgw.LedgerGateway) portssvc.AccountSvcFacade {
	return &accountService{gateway: gateway}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// ListAccounts lists accounts ordered by account number (lft keeps the tree order).
func (s *accountService) ListAccounts(ctx context.Context, query domain.AccountQuery) ([]domain.Account, error) {
	if query.RootType != "" && !query.RootType.IsValid() {
		return nil, apperrors.StructuralInputf("unknown root type %q", query.RootType)
	}

	var filters []portsgw.Filter
	if f, ok := equalsFilter("company", query.Company); ok {
		filters = append(filters, f)
	}
	if f, ok := equalsFilter("root_type", string(query.RootType)); ok {
		filters = append(filters, f)
	}
	if query.IsGroup != nil {
		isGroup := 0
		if *query.IsGroup {
			isGroup = 1
		}
		filters = append(filters, portsgw.Filter{Field: "is_group", Operator: portsgw.OpEquals, Value: isGroup})
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultAccountListLimit
	}

	records, err := s.gateway.List(ctx, domain.DocTypeAccount, filters, portsgw.ListOptions{
		Fields:  accountFields,
		Limit:   limit,
		OrderBy: "lft asc",
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company", query.Company))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]domain.Account, len(records))
	for i, rec := range records {
		accounts[i] = domain.AccountFromRecord(rec)
	}
	return accounts, nil
}

// GetAccountBalance asks the ledger for the balance of account as of date.
func (s *accountService) GetAccountBalance(ctx context.Context, account domain.LedgerAccountRef, date string) (decimal.Decimal, error) {
	if account == "" {
		return decimal.Zero, apperrors.StructuralInputf("account is required")
	}

	params := map[string]any{"account": string(account)}
	if date != "" {
		params["date"] = date
	}

	raw, err := s.gateway.Invoke(ctx, balanceMethod, params)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch account balance", slog.String("account", string(account)))
		return decimal.Zero, fmt.Errorf("failed to fetch balance of %s: %w", account, err)
	}

	balance, err := decimalFromAny(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: balance of %s: %s", apperrors.ErrGateway, account, err.Error())
	}
	return domain.RoundCents(balance), nil
}

func decimalFromAny(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case decimal.Decimal:
		return n, nil
	}
	return decimal.Zero, fmt.Errorf("unexpected value of type %T", v)
}
