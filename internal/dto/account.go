package dto

import (
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListAccountsQuery is bound from the query string of the accounts endpoint.
type ListAccountsQuery struct {
	Company  string `form:"company"`
	RootType string `form:"rootType" binding:"omitempty,oneof=Asset Liability Equity Income Expense"`
	IsGroup  *bool  `form:"isGroup"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToQuery converts the bound parameters to a domain query.
func (q ListAccountsQuery) ToQuery() domain.AccountQuery {
	return domain.AccountQuery{
		Company:  q.Company,
		RootType: domain.RootType(q.RootType),
		IsGroup:  q.IsGroup,
		Limit:    q.Limit,
	}
}

// ListAccountsResponse is a list of accounts.
type ListAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

// AccountBalanceQuery is bound from the query string of the balance endpoint.
type AccountBalanceQuery struct {
	Account string `form:"account" binding:"required"`
	Date    string `form:"date" binding:"omitempty,ledger_date"`
}

// AccountBalanceResponse is the balance of one account.
type AccountBalanceResponse struct {
	Account string          `json:"account"`
	Date    string          `json:"date,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}
