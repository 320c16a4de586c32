package repositories

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// BatchRunWriter persists batch run audit records.
type BatchRunWriter interface {
	SaveBatchRun(ctx context.Context, run domain.BatchRun) error
}

// BatchRunReader reads batch run audit records.
type BatchRunReader interface {
	FindBatchRunByID(ctx context.Context, runID string) (*domain.BatchRun, error)
	ListRecentBatchRuns(ctx context.Context, limit int) ([]domain.BatchRun, error)
}

// BatchRunRepositoryFacade combines all batch run repository interfaces.
type BatchRunRepositoryFacade interface {
	BatchRunWriter
	BatchRunReader
}
