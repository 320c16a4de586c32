package domain

// Document types understood by the remote ledger.
const (
	DocTypeJournalEntry    = "Journal Entry"
	DocTypeBankTransaction = "Bank Transaction"
	DocTypeAccount         = "Account"
)

// DocStatus is the lifecycle state of a submittable ledger document.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// IsTerminal reports whether no further local mutation is permitted.
func (s DocStatus) IsTerminal() bool {
	return s == DocStatusSubmitted || s == DocStatusCancelled
}

func (s DocStatus) String() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
