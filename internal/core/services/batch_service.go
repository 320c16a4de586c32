package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// RunBatch creates journal entries one at a time, in input order.
//
// Each entry is validated, created and (with autoSubmit) submitted before the next one starts.
// Entries created before a later failure are never rolled back, and running the same batch
// twice may create duplicates. With stopOnError, every entry after the first validation or
// gateway failure is reported as not attempted and never reaches the ledger.
//
// Only a structurally invalid call (no entries) returns an error; item failures are outcomes.
func (s *journalService) RunBatch(ctx context.Context, entries []domain.JournalEntryDraft, autoSubmit, stopOnError bool) (*domain.BatchResult, error) {
	if len(entries) == 0 {
		return nil, apperrors.StructuralInputf("entries array is required")
	}

	run := domain.BatchRun{
		RunID:       uuid.NewString(),
		StartedAt:   s.now(),
		EntryCount:  len(entries),
		AutoSubmit:  autoSubmit,
		StopOnError: stopOnError,
	}
	logger := s.GetLogger(ctx).With(slog.String("batch_run_id", run.RunID))
	logger.Info("Batch started", slog.Int("entry_count", len(entries)), slog.Bool("auto_submit", autoSubmit), slog.Bool("stop_on_error", stopOnError))

	result := &domain.BatchResult{
		Outcomes: make([]domain.BatchItemOutcome, 0, len(entries)),
	}

	stopped := false
	for i, draft := range entries {
		var outcome domain.BatchItemOutcome
		if stopped {
			outcome = domain.BatchItemOutcome{Index: i, Kind: domain.OutcomeNotAttempted}
		} else {
			outcome = s.processBatchItem(ctx, logger, i, draft, autoSubmit)
		}

		switch {
		case outcome.Kind == domain.OutcomeCreated:
			result.SuccessCount++
		case outcome.IsFailure():
			result.ErrorCount++
			if stopOnError && !stopped {
				stopped = true
				logger.Warn("Stopping batch after failure", slog.Int("index", i), slog.String("kind", string(outcome.Kind)))
			}
		}

		s.collector().RecordBatchOutcome(string(outcome.Kind))
		result.Outcomes = append(result.Outcomes, outcome)
	}

	run.FinishedAt = s.now()
	run.SuccessCount = result.SuccessCount
	run.ErrorCount = result.ErrorCount
	run.Outcomes = result.Outcomes
	s.recordBatchRun(ctx, run)

	logger.Info("Batch finished",
		slog.Int("success_count", result.SuccessCount),
		slog.Int("error_count", result.ErrorCount),
		slog.Bool("partial_failure", result.IsPartialFailure()),
	)
	return result, nil
}

// processBatchItem drives one entry through validate, create and optional submit.
func (s *journalService) processBatchItem(ctx context.Context, logger *slog.Logger, index int, draft domain.JournalEntryDraft, autoSubmit bool) domain.BatchItemOutcome {
	validation := ValidateJournalEntry(draft)
	if !validation.Valid {
		logger.Warn("Batch entry failed validation", slog.Int("index", index), slog.Int("error_count", len(validation.Errors)))
		return domain.BatchItemOutcome{
			Index:    index,
			Kind:     domain.OutcomeValidationFailed,
			Errors:   validation.Errors,
			Warnings: validation.Warnings,
		}
	}

	record, err := s.gateway.Create(ctx, domain.DocTypeJournalEntry, journalEntryPayload(draft))
	if err != nil {
		logger.Error("Batch entry creation failed", slog.Int("index", index), slog.String("error", err.Error()))
		return domain.BatchItemOutcome{
			Index:   index,
			Kind:    domain.OutcomeGatewayFailed,
			Message: err.Error(),
		}
	}

	outcome := domain.BatchItemOutcome{
		Index: index,
		Kind:  domain.OutcomeCreated,
		ID:    record.ID(),
	}
	if len(validation.Warnings) > 0 {
		outcome.Warnings = validation.Warnings
	}

	if autoSubmit {
		if _, err := s.gateway.Submit(ctx, domain.DocTypeJournalEntry, outcome.ID); err != nil {
			logger.Warn("Batch entry created but submission failed", slog.Int("index", index), slog.String("journal_id", outcome.ID), slog.String("error", err.Error()))
			outcome.SubmitError = err.Error()
			return outcome
		}
		outcome.Submitted = true
	}

	logger.Debug("Batch entry created", slog.Int("index", index), slog.String("journal_id", outcome.ID), slog.Bool("submitted", outcome.Submitted))
	return outcome
}

// recordBatchRun writes the audit record. A failure here never changes the batch result.
func (s *journalService) recordBatchRun(ctx context.Context, run domain.BatchRun) {
	if s.batchRunRepo == nil {
		return
	}
	if err := s.batchRunRepo.SaveBatchRun(ctx, run); err != nil {
		s.LogError(ctx, err, "Failed to record batch run", slog.String("batch_run_id", run.RunID))
	}
}

const (
	defaultBatchRunListLimit = 20
	maxBatchRunListLimit     = 200
)

// GetBatchRun retrieves the audit record of one batch run.
func (s *journalService) GetBatchRun(ctx context.Context, runID string) (*domain.BatchRun, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, apperrors.StructuralInputf("batch run id %q is not a valid UUID", runID)
	}
	if s.batchRunRepo == nil {
		return nil, fmt.Errorf("%w: batch run %s (auditing is disabled)", apperrors.ErrNotFound, runID)
	}

	run, err := s.batchRunRepo.FindBatchRunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to find batch run %s: %w", runID, err)
	}
	return run, nil
}

// ListBatchRuns retrieves the most recent batch runs without their outcomes.
// An empty list is returned when auditing is disabled.
func (s *journalService) ListBatchRuns(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	if limit <= 0 {
		limit = defaultBatchRunListLimit
	}
	if limit > maxBatchRunListLimit {
		limit = maxBatchRunListLimit
	}
	if s.batchRunRepo == nil {
		return []domain.BatchRun{}, nil
	}

	runs, err := s.batchRunRepo.ListRecentBatchRuns(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list batch runs")
		return nil, fmt.Errorf("failed to list batch runs: %w", err)
	}
	return runs, nil
}
