package domain

import "github.com/shopspring/decimal"

// LedgerAccountRef identifies a ledger account, e.g. "1111 - Checking - ABC".
// The remote system embeds number, name and company abbreviation in it; it is never parsed here.
type LedgerAccountRef string

// JournalLine is one debit or credit row of a journal entry.
// Exactly one of Debit and Credit is expected to be non-zero.
type JournalLine struct {
	Account       LedgerAccountRef `json:"account"`
	Debit         decimal.Decimal  `json:"debit"`
	Credit        decimal.Decimal  `json:"credit"`
	Remark        string           `json:"remark,omitempty"`
	ReferenceType string           `json:"referenceType,omitempty"`
	ReferenceName string           `json:"referenceName,omitempty"`
}

// JournalEntryDraft is a journal entry that exists only on the client until it is created remotely.
type JournalEntryDraft struct {
	PostingDate string        `json:"postingDate"` // YYYY-MM-DD
	Company     string        `json:"company"`
	Lines       []JournalLine `json:"lines"`
	Remark      string        `json:"remark,omitempty"`
}

// ValidationResult is the verdict of the entry validator. Errors and Warnings are never nil.
type ValidationResult struct {
	Valid       bool            `json:"valid"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Difference  decimal.Decimal `json:"difference"`
	Errors      []string        `json:"errors"`
	Warnings    []string        `json:"warnings"`
}

// JournalCreation is the outcome of creating a single journal entry.
type JournalCreation struct {
	Record      RemoteRecord `json:"record"`
	Submitted   bool         `json:"submitted"`
	SubmitError string       `json:"submitError,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}
