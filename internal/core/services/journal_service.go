package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/platform/metrics"
	"github.com/SscSPs/ledger_bridge/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultJournalListLimit = 20

var journalListFields = []string{
	"name", "posting_date", "company", "voucher_type", "total_debit", "total_credit", "docstatus", "user_remark",
}

// ValidationFailedError is returned when a draft fails local validation.
// It carries the full result so callers can show every error and warning.
type ValidationFailedError struct {
	Result domain.ValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%s: %s", apperrors.ErrValidation, strings.Join(e.Result.Errors, "; "))
}

func (e *ValidationFailedError) Unwrap() error {
	return apperrors.ErrValidation
}

// journalService provides journal entry operations against the remote ledger.
type journalService struct {
	BaseService
	gateway      portsgw.LedgerGateway
	batchRunRepo portsrepo.BatchRunRepositoryFacade
	listLimit    int
	now          func() time.Time
}

// JournalServiceOption configures optional dependencies of the journal service.
type JournalServiceOption func(*journalService)

// WithBatchRunRepository records every batch run in repo.
func WithBatchRunRepository(repo portsrepo.BatchRunRepositoryFacade) JournalServiceOption {
	return func(s *journalService) {
		s.batchRunRepo = repo
	}
}

// WithJournalMetrics reports batch outcomes to collector.
func WithJournalMetrics(collector metrics.Collector) JournalServiceOption {
	return func(s *journalService) {
		s.Metrics = collector
	}
}

// WithJournalListLimit sets the default page size of ListJournalEntries.
func WithJournalListLimit(limit int) JournalServiceOption {
	return func(s *journalService) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

// WithClock overrides the time source used for batch run timestamps.
func WithClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new journal service backed by gateway.
func NewJournalService(gateway portsgw.LedgerGateway, opts ...JournalServiceOption) portssvc.JournalSvcFacade {
	s := &journalService{
		gateway:   gateway,
		listLimit: defaultJournalListLimit,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// ValidateJournalEntry runs the local entry validator.
func (s *journalService) ValidateJournalEntry(draft domain.JournalEntryDraft) domain.ValidationResult {
	return ValidateJournalEntry(draft)
}

// CreateJournalEntry validates (unless skipValidation) and creates the entry, submitting it when autoSubmit is set.
// A failed submission does not undo the creation: the draft stays on the ledger and SubmitError is set.
func (s *journalService) CreateJournalEntry(ctx context.Context, draft domain.JournalEntryDraft, skipValidation, autoSubmit bool) (*domain.JournalCreation, error) {
	logger := s.GetLogger(ctx)

	var warnings []string
	if !skipValidation {
		result := ValidateJournalEntry(draft)
		if !result.Valid {
			logger.Warn("Journal entry failed validation", slog.Int("error_count", len(result.Errors)))
			return nil, &ValidationFailedError{Result: result}
		}
		warnings = result.Warnings
	}

	record, err := s.gateway.Create(ctx, domain.DocTypeJournalEntry, journalEntryPayload(draft))
	if err != nil {
		s.LogError(ctx, err, "Failed to create journal entry", slog.String("company", draft.Company))
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	creation := &domain.JournalCreation{Record: record, Warnings: warnings}
	logger.Info("Journal entry created", slog.String("journal_id", record.ID()))

	if autoSubmit {
		submitted, err := s.gateway.Submit(ctx, domain.DocTypeJournalEntry, record.ID())
		if err != nil {
			logger.Warn("Journal entry created but submission failed", slog.String("journal_id", record.ID()), slog.String("error", err.Error()))
			creation.SubmitError = err.Error()
			return creation, nil
		}
		creation.Record = submitted
		creation.Submitted = true
		logger.Info("Journal entry submitted", slog.String("journal_id", record.ID()))
	}

	return creation, nil
}

// SubmitJournalEntry submits a draft entry. Entries already submitted or cancelled are rejected
// with ErrTerminalState without calling submit on the ledger.
func (s *journalService) SubmitJournalEntry(ctx context.Context, id string) (domain.RemoteRecord, error) {
	if id == "" {
		return nil, apperrors.StructuralInputf("journal entry id is required")
	}

	if _, err := s.findDraft(ctx, id); err != nil {
		return nil, err
	}

	record, err := s.gateway.Submit(ctx, domain.DocTypeJournalEntry, id)
	if err != nil {
		s.LogError(ctx, err, "Failed to submit journal entry", slog.String("journal_id", id))
		return nil, fmt.Errorf("failed to submit journal entry %s: %w", id, err)
	}

	s.LogInfo(ctx, "Journal entry submitted", slog.String("journal_id", id))
	return record, nil
}

// UpdateJournalEntry replaces the content of a draft entry after validating the new content.
func (s *journalService) UpdateJournalEntry(ctx context.Context, id string, draft domain.JournalEntryDraft) (domain.RemoteRecord, error) {
	if id == "" {
		return nil, apperrors.StructuralInputf("journal entry id is required")
	}

	if _, err := s.findDraft(ctx, id); err != nil {
		return nil, err
	}

	result := ValidateJournalEntry(draft)
	if !result.Valid {
		return nil, &ValidationFailedError{Result: result}
	}

	record, err := s.gateway.Update(ctx, domain.DocTypeJournalEntry, id, journalEntryPayload(draft))
	if err != nil {
		s.LogError(ctx, err, "Failed to update journal entry", slog.String("journal_id", id))
		return nil, fmt.Errorf("failed to update journal entry %s: %w", id, err)
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("journal_id", id))
	return record, nil
}

// GetJournalEntry retrieves the header fields of a journal entry.
func (s *journalService) GetJournalEntry(ctx context.Context, id string) (domain.RemoteRecord, error) {
	if id == "" {
		return nil, apperrors.StructuralInputf("journal entry id is required")
	}
	return s.findJournalEntry(ctx, id, []string{"*"})
}

// ListJournalEntries retrieves a page of journal entries, newest first.
func (s *journalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = s.listLimit
	}

	offset := 0
	if params.NextToken != nil && *params.NextToken != "" {
		decoded, err := pagination.DecodeOffsetToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrStructuralInput, err.Error())
		}
		offset = decoded
	}

	var filters []portsgw.Filter
	if f, ok := equalsFilter("company", params.Company); ok {
		filters = append(filters, f)
	}
	if params.DocStatus != nil {
		filters = append(filters, portsgw.Filter{Field: "docstatus", Operator: portsgw.OpEquals, Value: *params.DocStatus})
	}
	if f, ok := dateRangeFilter("posting_date", params.FromDate, params.ToDate); ok {
		filters = append(filters, f)
	}

	// One extra record tells whether another page exists.
	records, err := s.gateway.List(ctx, domain.DocTypeJournalEntry, filters, portsgw.ListOptions{
		Fields:  journalListFields,
		Limit:   limit + 1,
		Offset:  offset,
		OrderBy: "posting_date desc, name desc",
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := &dto.ListJournalEntriesResponse{Entries: records}
	if len(records) > limit {
		resp.Entries = records[:limit]
		next := pagination.EncodeOffsetToken(offset + limit)
		resp.NextToken = &next
	}
	if resp.Entries == nil {
		resp.Entries = []domain.RemoteRecord{}
	}
	return resp, nil
}

// findDraft loads an entry and rejects it when it is no longer a draft.
func (s *journalService) findDraft(ctx context.Context, id string) (domain.RemoteRecord, error) {
	current, err := s.findJournalEntry(ctx, id, []string{"name", "docstatus"})
	if err != nil {
		return nil, err
	}
	if status := current.DocStatus(); status.IsTerminal() {
		s.GetLogger(ctx).Warn("Journal entry is not a draft", slog.String("journal_id", id), slog.String("docstatus", status.String()))
		return nil, fmt.Errorf("%w: journal entry %s is %s", apperrors.ErrTerminalState, id, status)
	}
	return current, nil
}

func (s *journalService) findJournalEntry(ctx context.Context, id string, fields []string) (domain.RemoteRecord, error) {
	records, err := s.gateway.List(ctx, domain.DocTypeJournalEntry,
		[]portsgw.Filter{{Field: "name", Operator: portsgw.OpEquals, Value: id}},
		portsgw.ListOptions{Fields: fields, Limit: 1},
	)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up journal entry", slog.String("journal_id", id))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", id, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, id)
	}
	return records[0], nil
}

// journalEntryPayload maps a draft to the ledger's "Journal Entry" document shape.
func journalEntryPayload(draft domain.JournalEntryDraft) map[string]any {
	accounts := make([]map[string]any, len(draft.Lines))
	for i, line := range draft.Lines {
		row := map[string]any{
			"account":                    string(line.Account),
			"debit_in_account_currency":  jsonAmount(line.Debit),
			"credit_in_account_currency": jsonAmount(line.Credit),
		}
		if line.Remark != "" {
			row["user_remark"] = line.Remark
		}
		if line.ReferenceType != "" {
			row["reference_type"] = line.ReferenceType
		}
		if line.ReferenceName != "" {
			row["reference_name"] = line.ReferenceName
		}
		accounts[i] = row
	}

	payload := map[string]any{
		"voucher_type": "Journal Entry",
		"posting_date": draft.PostingDate,
		"company":      draft.Company,
		"accounts":     accounts,
	}
	if draft.Remark != "" {
		payload["user_remark"] = draft.Remark
	}
	return payload
}

// jsonAmount encodes a decimal as a bare JSON number without float rounding.
func jsonAmount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
