package services

import (
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Validation messages reported by ValidateJournalEntry.
const (
	MsgPostingDateRequired = "posting_date is required"
	MsgCompanyRequired     = "company is required"
	MsgNoAccountEntries    = "at least one account entry is required"
	MsgMinAccountEntries   = "journal entry must have at least 2 account entries"
)

// ValidateJournalEntry checks a draft for structural and double-entry balance errors.
// It is pure: no network, no mutation of the draft, same result for the same input.
// A line carrying both a debit and a credit is only a warning.
func ValidateJournalEntry(draft domain.JournalEntryDraft) domain.ValidationResult {
	result := domain.ValidationResult{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Difference:  decimal.Zero,
		Errors:      []string{},
		Warnings:    []string{},
	}

	if draft.PostingDate == "" {
		result.Errors = append(result.Errors, MsgPostingDateRequired)
	}
	if draft.Company == "" {
		result.Errors = append(result.Errors, MsgCompanyRequired)
	}

	if len(draft.Lines) == 0 {
		result.Errors = append(result.Errors, MsgNoAccountEntries)
		result.Valid = false
		return result
	}
	if len(draft.Lines) < 2 {
		result.Errors = append(result.Errors, MsgMinAccountEntries)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range draft.Lines {
		row := i + 1
		if line.Account == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("account entry %d: account is required", row))
			continue
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)

		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		switch {
		case hasDebit && hasCredit:
			result.Warnings = append(result.Warnings, fmt.Sprintf("account entry %d (%s): has both debit and credit amounts", row, line.Account))
		case !hasDebit && !hasCredit:
			result.Errors = append(result.Errors, fmt.Sprintf("account entry %d (%s): either debit or credit amount is required", row, line.Account))
		}
	}

	result.TotalDebit = domain.RoundCents(totalDebit)
	result.TotalCredit = domain.RoundCents(totalCredit)
	result.Difference = domain.RoundCents(result.TotalDebit.Sub(result.TotalCredit))

	if result.Difference.Abs().GreaterThan(domain.CentTolerance) {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"journal entry is not balanced: total debit %s, total credit %s, difference %s",
			result.TotalDebit.StringFixed(2), result.TotalCredit.StringFixed(2), result.Difference.StringFixed(2)))
	}

	result.Valid = len(result.Errors) == 0
	return result
}
