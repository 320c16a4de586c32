package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
)

type PgxBatchRunRepository struct {
	BaseRepository
}

// NewBatchRunRepository creates a new repository for batch run audit records.
func NewBatchRunRepository(db DBTX) portsrepo.BatchRunRepositoryFacade {
	return &PgxBatchRunRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxBatchRunRepository implements portsrepo.BatchRunRepositoryFacade
var _ portsrepo.BatchRunRepositoryFacade = (*PgxBatchRunRepository)(nil)

// SaveBatchRun inserts a run. Saving the same run id twice is a no-op.
func (r *PgxBatchRunRepository) SaveBatchRun(ctx context.Context, run domain.BatchRun) error {
	outcomes, err := encodeOutcomes(run.Outcomes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO batch_runs (
			run_id, started_at, finished_at, entry_count, success_count, error_count,
			auto_submit, stop_on_error, outcomes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id) DO NOTHING;
	`
	_, err = r.DB.Exec(ctx, query,
		run.RunID,
		run.StartedAt,
		run.FinishedAt,
		run.EntryCount,
		run.SuccessCount,
		run.ErrorCount,
		run.AutoSubmit,
		run.StopOnError,
		outcomes,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch run %s: %w", run.RunID, err)
	}
	return nil
}

// FindBatchRunByID retrieves a run with its per-entry outcomes.
func (r *PgxBatchRunRepository) FindBatchRunByID(ctx context.Context, runID string) (*domain.BatchRun, error) {
	query := `
		SELECT run_id, started_at, finished_at, entry_count, success_count, error_count,
		       auto_submit, stop_on_error, outcomes
		FROM batch_runs
		WHERE run_id = $1;
	`
	var run domain.BatchRun
	var outcomes []byte
	err := r.DB.QueryRow(ctx, query, runID).Scan(
		&run.RunID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.EntryCount,
		&run.SuccessCount,
		&run.ErrorCount,
		&run.AutoSubmit,
		&run.StopOnError,
		&outcomes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: batch run %s", apperrors.ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to find batch run %s: %w", runID, err)
	}

	run.Outcomes, err = decodeOutcomes(outcomes)
	if err != nil {
		return nil, fmt.Errorf("batch run %s: %w", runID, err)
	}
	return &run, nil
}

// ListRecentBatchRuns retrieves run summaries, newest first. Outcomes are not loaded.
func (r *PgxBatchRunRepository) ListRecentBatchRuns(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	query := `
		SELECT run_id, started_at, finished_at, entry_count, success_count, error_count,
		       auto_submit, stop_on_error
		FROM batch_runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT $1;
	`
	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.BatchRun{}
	for rows.Next() {
		var run domain.BatchRun
		if err := rows.Scan(
			&run.RunID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.EntryCount,
			&run.SuccessCount,
			&run.ErrorCount,
			&run.AutoSubmit,
			&run.StopOnError,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch runs: %w", err)
	}
	return runs, nil
}

func encodeOutcomes(outcomes []domain.BatchItemOutcome) ([]byte, error) {
	if outcomes == nil {
		outcomes = []domain.BatchItemOutcome{}
	}
	b, err := json.Marshal(outcomes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch outcomes: %w", err)
	}
	return b, nil
}

func decodeOutcomes(raw []byte) ([]domain.BatchItemOutcome, error) {
	outcomes := []domain.BatchItemOutcome{}
	if len(raw) == 0 {
		return outcomes, nil
	}
	if err := json.Unmarshal(raw, &outcomes); err != nil {
		return nil, fmt.Errorf("failed to decode batch outcomes: %w", err)
	}
	return outcomes, nil
}
