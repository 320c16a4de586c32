package handlers_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) ValidateJournalEntry(draft domain.JournalEntryDraft) domain.ValidationResult {
	args := m.Called(draft)
	return args.Get(0).(domain.ValidationResult)
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, id string) (domain.RemoteRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RemoteRecord), args.Error(1)
}

func (m *MockJournalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateJournalEntry(ctx context.Context, draft domain.JournalEntryDraft, skipValidation, autoSubmit bool) (*domain.JournalCreation, error) {
	args := m.Called(ctx, draft, skipValidation, autoSubmit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalCreation), args.Error(1)
}

func (m *MockJournalService) SubmitJournalEntry(ctx context.Context, id string) (domain.RemoteRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RemoteRecord), args.Error(1)
}

func (m *MockJournalService) UpdateJournalEntry(ctx context.Context, id string, draft domain.JournalEntryDraft) (domain.RemoteRecord, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RemoteRecord), args.Error(1)
}

func (m *MockJournalService) RunBatch(ctx context.Context, entries []domain.JournalEntryDraft, autoSubmit, stopOnError bool) (*domain.BatchResult, error) {
	args := m.Called(ctx, entries, autoSubmit, stopOnError)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockJournalService) GetBatchRun(ctx context.Context, runID string) (*domain.BatchRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRun), args.Error(1)
}

func (m *MockJournalService) ListBatchRuns(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchRun), args.Error(1)
}

// --- Mock BankTransactionService ---
type MockBankTransactionService struct {
	mock.Mock
}

var _ portssvc.BankTransactionSvcFacade = (*MockBankTransactionService)(nil)

func (m *MockBankTransactionService) SearchBankTransactions(ctx context.Context, query domain.BankTransactionQuery) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionService) BatchImportBankTransactions(ctx context.Context, columns []string, rows [][]any, bankAccount string) (any, error) {
	args := m.Called(ctx, columns, rows, bankAccount)
	return args.Get(0), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) ListAccounts(ctx context.Context, query domain.AccountQuery) ([]domain.Account, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountBalance(ctx context.Context, account domain.LedgerAccountRef, date string) (decimal.Decimal, error) {
	args := m.Called(ctx, account, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
