package domain

// RootType is the top-level classification of a ledger account.
type RootType string

const (
	Asset     RootType = "Asset"
	Liability RootType = "Liability"
	Equity    RootType = "Equity"
	Income    RootType = "Income"
	Expense   RootType = "Expense"
)

// IsValid reports whether r is one of the five root types.
func (r RootType) IsValid() bool {
	switch r {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account is a node of the remote chart of accounts.
type Account struct {
	Name          LedgerAccountRef `json:"name"`
	AccountName   string           `json:"accountName"`
	AccountNumber string           `json:"accountNumber,omitempty"`
	RootType      RootType         `json:"rootType"`
	AccountType   string           `json:"accountType,omitempty"`
	ParentAccount string           `json:"parentAccount,omitempty"`
	Company       string           `json:"company"`
	Currency      string           `json:"currency,omitempty"`
	IsGroup       bool             `json:"isGroup"`
}

// AccountQuery filters the chart of accounts.
type AccountQuery struct {
	Company  string
	RootType RootType
	IsGroup  *bool
	Limit    int
}

// AccountFromRecord maps a ledger "Account" document.
func AccountFromRecord(r RemoteRecord) Account {
	return Account{
		Name:          LedgerAccountRef(r.ID()),
		AccountName:   r.String("account_name"),
		AccountNumber: r.String("account_number"),
		RootType:      RootType(r.String("root_type")),
		AccountType:   r.String("account_type"),
		ParentAccount: r.String("parent_account"),
		Company:       r.String("company"),
		Currency:      r.String("account_currency"),
		IsGroup:       r.Bool("is_group"),
	}
}
