package services

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/dto"
)

// JournalValidatorSvc validates drafts locally, without touching the ledger.
type JournalValidatorSvc interface {
	ValidateJournalEntry(draft domain.JournalEntryDraft) domain.ValidationResult
}

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a journal entry by its remote id.
	GetJournalEntry(ctx context.Context, id string) (domain.RemoteRecord, error)

	// ListJournalEntries retrieves a page of journal entries.
	ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries.
type JournalWriterSvc interface {
	// CreateJournalEntry validates (unless skipValidation) and creates a draft, optionally submitting it.
	CreateJournalEntry(ctx context.Context, draft domain.JournalEntryDraft, skipValidation, autoSubmit bool) (*domain.JournalCreation, error)

	// SubmitJournalEntry moves a draft entry to the Submitted state.
	SubmitJournalEntry(ctx context.Context, id string) (domain.RemoteRecord, error)

	// UpdateJournalEntry replaces the content of a draft entry.
	UpdateJournalEntry(ctx context.Context, id string, draft domain.JournalEntryDraft) (domain.RemoteRecord, error)
}

// JournalBatchSvc creates many journal entries in one call.
type JournalBatchSvc interface {
	// RunBatch processes entries sequentially; it never rolls back entries already created.
	RunBatch(ctx context.Context, entries []domain.JournalEntryDraft, autoSubmit, stopOnError bool) (*domain.BatchResult, error)

	// GetBatchRun retrieves the audit record of one batch run.
	GetBatchRun(ctx context.Context, runID string) (*domain.BatchRun, error)

	// ListBatchRuns retrieves the most recent batch runs, newest first.
	ListBatchRuns(ctx context.Context, limit int) ([]domain.BatchRun, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalValidatorSvc
	JournalReaderSvc
	JournalWriterSvc
	JournalBatchSvc
}
