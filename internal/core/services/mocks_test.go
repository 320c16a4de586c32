package services_test

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerGateway ---
type MockLedgerGateway struct {
	mock.Mock
}

var _ portsgw.LedgerGateway = (*MockLedgerGateway)(nil)

func (m *MockLedgerGateway) List(ctx context.Context, docType string, filters []portsgw.Filter, opts portsgw.ListOptions) ([]domain.RemoteRecord, error) {
	args := m.Called(ctx, docType, filters, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RemoteRecord), args.Error(1)
}

func (m *MockLedgerGateway) Create(ctx context.Context, docType string, payload map[string]any) (domain.RemoteRecord, error) {
	args := m.Called(ctx, docType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RemoteRecord), args.Error(1)
}

func (m *MockLedgerGateway) Update(ctx context.Context, docType string, id string, payload map[string]any) (domain.RemoteRecord, error) {
	args := m.Called(ctx, docType, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RemoteRecord), args.Error(1)
}

func (m *MockLedgerGateway) Submit(ctx context.Context, docType string, id string) (domain.RemoteRecord, error) {
	args := m.Called(ctx, docType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RemoteRecord), args.Error(1)
}

func (m *MockLedgerGateway) Invoke(ctx context.Context, method string, params map[string]any) (any, error) {
	args := m.Called(ctx, method, params)
	return args.Get(0), args.Error(1)
}

// --- Mock BatchRunRepository ---
type MockBatchRunRepository struct {
	mock.Mock
}

var _ portsrepo.BatchRunRepositoryFacade = (*MockBatchRunRepository)(nil)

func (m *MockBatchRunRepository) SaveBatchRun(ctx context.Context, run domain.BatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockBatchRunRepository) FindBatchRunByID(ctx context.Context, runID string) (*domain.BatchRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRun), args.Error(1)
}

func (m *MockBatchRunRepository) ListRecentBatchRuns(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchRun), args.Error(1)
}

// --- Fixtures ---

func line(account string, debit, credit string) domain.JournalLine {
	return domain.JournalLine{
		Account: domain.LedgerAccountRef(account),
		Debit:   dec(debit),
		Credit:  dec(credit),
	}
}

func balancedDraft(amount string) domain.JournalEntryDraft {
	return domain.JournalEntryDraft{
		PostingDate: "2024-03-31",
		Company:     "ABC Corp",
		Lines: []domain.JournalLine{
			line("1111 - Checking - ABC", amount, "0"),
			line("4000 - Revenue - ABC", "0", amount),
		},
	}
}

func unbalancedDraft() domain.JournalEntryDraft {
	return domain.JournalEntryDraft{
		PostingDate: "2024-03-31",
		Company:     "ABC Corp",
		Lines: []domain.JournalLine{
			line("1111 - Checking - ABC", "100", "0"),
			line("4000 - Revenue - ABC", "0", "90"),
		},
	}
}
