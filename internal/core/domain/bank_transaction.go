package domain

import "github.com/shopspring/decimal"

// BankTransactionStatus is the reconciliation status of an imported bank transaction.
type BankTransactionStatus string

const (
	StatusUnreconciled BankTransactionStatus = "Unreconciled"
	StatusReconciled   BankTransactionStatus = "Reconciled"
	StatusSettled      BankTransactionStatus = "Settled"
	StatusPending      BankTransactionStatus = "Pending"
	StatusCancelled    BankTransactionStatus = "Cancelled"
)

// IsValid reports whether s is one of the known statuses.
func (s BankTransactionStatus) IsValid() bool {
	switch s {
	case StatusUnreconciled, StatusReconciled, StatusSettled, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// BankTransaction is a bank statement line as stored by the ledger.
type BankTransaction struct {
	ID              string                `json:"id"`
	Date            string                `json:"date"`
	Deposit         decimal.Decimal       `json:"deposit"`
	Withdrawal      decimal.Decimal       `json:"withdrawal"`
	Description     string                `json:"description"`
	ReferenceNumber string                `json:"referenceNumber,omitempty"`
	Status          BankTransactionStatus `json:"status"`
	BankAccount     string                `json:"bankAccount,omitempty"`
	Currency        string                `json:"currency,omitempty"`
}

// Amount returns the deposit when it is positive, otherwise the withdrawal.
// Deposit and withdrawal are mutually exclusive on a single transaction.
func (t BankTransaction) Amount() decimal.Decimal {
	if t.Deposit.GreaterThan(decimal.Zero) {
		return t.Deposit
	}
	return t.Withdrawal
}

// BankTransactionQuery selects bank transactions. Empty fields and nil bounds are ignored.
type BankTransactionQuery struct {
	BankAccount string
	Company     string
	Status      BankTransactionStatus
	FromDate    string
	ToDate      string
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Limit       int
}

// BankTransactionFromRecord maps a ledger "Bank Transaction" document.
func BankTransactionFromRecord(r RemoteRecord) BankTransaction {
	return BankTransaction{
		ID:              r.ID(),
		Date:            r.String("date"),
		Deposit:         r.Decimal("deposit"),
		Withdrawal:      r.Decimal("withdrawal"),
		Description:     r.String("description"),
		ReferenceNumber: r.String("reference_number"),
		Status:          BankTransactionStatus(r.String("status")),
		BankAccount:     r.String("bank_account"),
		Currency:        r.String("currency"),
	}
}
