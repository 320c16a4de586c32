package dto

import (
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one account row of a journal entry request.
type JournalLineRequest struct {
	Account       string          `json:"account"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Remark        string          `json:"remark,omitempty"`
	ReferenceType string          `json:"referenceType,omitempty"`
	ReferenceName string          `json:"referenceName,omitempty"`
}

// JournalEntryRequest carries a journal entry draft.
// Required fields are not enforced at binding time: the entry validator reports them.
type JournalEntryRequest struct {
	PostingDate string               `json:"postingDate" binding:"omitempty,ledger_date"`
	Company     string               `json:"company"`
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
	Remark      string               `json:"remark,omitempty"`
}

// ToDraft converts the request to a domain draft.
func (r JournalEntryRequest) ToDraft() domain.JournalEntryDraft {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.JournalLine{
			Account:       domain.LedgerAccountRef(l.Account),
			Debit:         l.Debit,
			Credit:        l.Credit,
			Remark:        l.Remark,
			ReferenceType: l.ReferenceType,
			ReferenceName: l.ReferenceName,
		}
	}
	return domain.JournalEntryDraft{
		PostingDate: r.PostingDate,
		Company:     r.Company,
		Lines:       lines,
		Remark:      r.Remark,
	}
}

// CreateJournalEntryRequest is the body of the create endpoint.
type CreateJournalEntryRequest struct {
	JournalEntryRequest
	SkipValidation bool `json:"skipValidation"`
	AutoSubmit     bool `json:"autoSubmit"`
}

// BatchCreateJournalEntriesRequest is the body of the batch endpoint.
type BatchCreateJournalEntriesRequest struct {
	Entries     []JournalEntryRequest `json:"entries" binding:"dive"`
	AutoSubmit  bool                  `json:"autoSubmit"`
	StopOnError bool                  `json:"stopOnError"`
}

// ToDrafts converts every entry of the batch.
func (r BatchCreateJournalEntriesRequest) ToDrafts() []domain.JournalEntryDraft {
	drafts := make([]domain.JournalEntryDraft, len(r.Entries))
	for i, e := range r.Entries {
		drafts[i] = e.ToDraft()
	}
	return drafts
}

// ValidationFailedResponse is returned when a single entry fails validation.
type ValidationFailedResponse struct {
	Error      string                  `json:"error"`
	Validation domain.ValidationResult `json:"validation"`
}

// ListJournalEntriesParams holds parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Company   string  `form:"company"`
	DocStatus *int    `form:"docstatus" binding:"omitempty,min=0,max=2"`
	FromDate  string  `form:"fromDate" binding:"omitempty,ledger_date"`
	ToDate    string  `form:"toDate" binding:"omitempty,ledger_date"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse is a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []domain.RemoteRecord `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ListBatchRunsQuery is bound from the query string of the batch run history endpoint.
type ListBatchRunsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// BatchRunsResponse is a list of batch run summaries.
type BatchRunsResponse struct {
	Runs []domain.BatchRun `json:"runs"`
}
