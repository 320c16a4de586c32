package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BatchServiceTestSuite struct {
	suite.Suite
	mockGateway *MockLedgerGateway
	mockRepo    *MockBatchRunRepository
	service     portssvc.JournalSvcFacade
	ctx         context.Context
	fixedNow    time.Time
}

func (s *BatchServiceTestSuite) SetupTest() {
	s.mockGateway = new(MockLedgerGateway)
	s.mockRepo = new(MockBatchRunRepository)
	s.fixedNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	s.service = services.NewJournalService(s.mockGateway,
		services.WithBatchRunRepository(s.mockRepo),
		services.WithClock(func() time.Time { return s.fixedNow }),
	)
	s.ctx = context.Background()
}

func (s *BatchServiceTestSuite) TearDownTest() {
	s.mockGateway.AssertExpectations(s.T())
	s.mockRepo.AssertExpectations(s.T())
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}

func (s *BatchServiceTestSuite) expectCreate(id string) {
	s.mockGateway.On("Create", s.ctx, domain.DocTypeJournalEntry, mock.Anything).
		Return(domain.RemoteRecord{"name": id, "docstatus": 0}, nil).Once()
}

func (s *BatchServiceTestSuite) TestRunBatch_ContinuesPastFailures() {
	entries := []domain.JournalEntryDraft{balancedDraft("100"), unbalancedDraft(), balancedDraft("300")}
	s.expectCreate("JV-0001")
	s.expectCreate("JV-0003")
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.AnythingOfType("domain.BatchRun")).Return(nil).Once()

	result, err := s.service.RunBatch(s.ctx, entries, false, false)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, result.SuccessCount)
	assert.Equal(s.T(), 1, result.ErrorCount)
	assert.False(s.T(), result.Atomic)
	assert.True(s.T(), result.IsPartialFailure())
	require.Len(s.T(), result.Outcomes, 3)

	assert.Equal(s.T(), 0, result.Outcomes[0].Index)
	assert.Equal(s.T(), domain.OutcomeCreated, result.Outcomes[0].Kind)
	assert.Equal(s.T(), "JV-0001", result.Outcomes[0].ID)

	assert.Equal(s.T(), 1, result.Outcomes[1].Index)
	assert.Equal(s.T(), domain.OutcomeValidationFailed, result.Outcomes[1].Kind)
	assert.NotEmpty(s.T(), result.Outcomes[1].Errors)

	assert.Equal(s.T(), 2, result.Outcomes[2].Index)
	assert.Equal(s.T(), domain.OutcomeCreated, result.Outcomes[2].Kind)
	assert.Equal(s.T(), "JV-0003", result.Outcomes[2].ID)

	s.mockGateway.AssertNumberOfCalls(s.T(), "Create", 2)
	s.mockGateway.AssertNotCalled(s.T(), "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestRunBatch_StopOnError() {
	entries := []domain.JournalEntryDraft{balancedDraft("100"), unbalancedDraft(), balancedDraft("300")}
	s.expectCreate("JV-0001")
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.AnythingOfType("domain.BatchRun")).Return(nil).Once()

	result, err := s.service.RunBatch(s.ctx, entries, false, true)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.SuccessCount)
	assert.Equal(s.T(), 1, result.ErrorCount)
	require.Len(s.T(), result.Outcomes, 3)
	assert.Equal(s.T(), domain.OutcomeCreated, result.Outcomes[0].Kind)
	assert.Equal(s.T(), domain.OutcomeValidationFailed, result.Outcomes[1].Kind)
	assert.Equal(s.T(), domain.OutcomeNotAttempted, result.Outcomes[2].Kind)
	assert.Equal(s.T(), 2, result.Outcomes[2].Index)

	s.mockGateway.AssertNumberOfCalls(s.T(), "Create", 1)
}

func (s *BatchServiceTestSuite) TestRunBatch_GatewayFailureIsAnOutcome() {
	entries := []domain.JournalEntryDraft{balancedDraft("100"), balancedDraft("200")}
	gwErr := &apperrors.GatewayError{Operation: "create", DocType: domain.DocTypeJournalEntry, StatusCode: 417, Message: "Account is frozen"}
	s.mockGateway.On("Create", s.ctx, domain.DocTypeJournalEntry, mock.Anything).Return(nil, gwErr).Once()
	s.expectCreate("JV-0002")
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.AnythingOfType("domain.BatchRun")).Return(nil).Once()

	result, err := s.service.RunBatch(s.ctx, entries, false, false)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.SuccessCount)
	assert.Equal(s.T(), 1, result.ErrorCount)
	assert.Equal(s.T(), domain.OutcomeGatewayFailed, result.Outcomes[0].Kind)
	assert.Contains(s.T(), result.Outcomes[0].Message, "Account is frozen")
	assert.Equal(s.T(), domain.OutcomeCreated, result.Outcomes[1].Kind)
}

func (s *BatchServiceTestSuite) TestRunBatch_SubmitFailureKeepsCreation() {
	entries := []domain.JournalEntryDraft{balancedDraft("100")}
	s.expectCreate("JV-0001")
	s.mockGateway.On("Submit", s.ctx, domain.DocTypeJournalEntry, "JV-0001").Return(nil, errors.New("period closed")).Once()
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.AnythingOfType("domain.BatchRun")).Return(nil).Once()

	result, err := s.service.RunBatch(s.ctx, entries, true, true)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.SuccessCount)
	assert.Equal(s.T(), 0, result.ErrorCount)
	assert.Equal(s.T(), domain.OutcomeCreated, result.Outcomes[0].Kind)
	assert.False(s.T(), result.Outcomes[0].Submitted)
	assert.Equal(s.T(), "period closed", result.Outcomes[0].SubmitError)
}

func (s *BatchServiceTestSuite) TestRunBatch_AutoSubmit() {
	entries := []domain.JournalEntryDraft{balancedDraft("100")}
	s.expectCreate("JV-0001")
	s.mockGateway.On("Submit", s.ctx, domain.DocTypeJournalEntry, "JV-0001").
		Return(domain.RemoteRecord{"name": "JV-0001", "docstatus": 1}, nil).Once()
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.AnythingOfType("domain.BatchRun")).Return(nil).Once()

	result, err := s.service.RunBatch(s.ctx, entries, true, false)

	require.NoError(s.T(), err)
	assert.True(s.T(), result.Outcomes[0].Submitted)
	assert.Empty(s.T(), result.Outcomes[0].SubmitError)
}

func (s *BatchServiceTestSuite) TestRunBatch_EmptyEntries() {
	result, err := s.service.RunBatch(s.ctx, nil, false, false)

	assert.Nil(s.T(), result)
	assert.ErrorIs(s.T(), err, apperrors.ErrStructuralInput)
	s.mockGateway.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
	s.mockRepo.AssertNotCalled(s.T(), "SaveBatchRun", mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestRunBatch_RecordsAuditRun() {
	entries := []domain.JournalEntryDraft{balancedDraft("100"), unbalancedDraft()}
	s.expectCreate("JV-0001")
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.MatchedBy(func(run domain.BatchRun) bool {
		return run.RunID != "" &&
			run.EntryCount == 2 &&
			run.SuccessCount == 1 &&
			run.ErrorCount == 1 &&
			run.StartedAt.Equal(s.fixedNow) &&
			len(run.Outcomes) == 2
	})).Return(nil).Once()

	_, err := s.service.RunBatch(s.ctx, entries, false, false)

	require.NoError(s.T(), err)
}

func (s *BatchServiceTestSuite) TestRunBatch_AuditFailureDoesNotFailBatch() {
	entries := []domain.JournalEntryDraft{balancedDraft("100")}
	s.expectCreate("JV-0001")
	s.mockRepo.On("SaveBatchRun", s.ctx, mock.AnythingOfType("domain.BatchRun")).Return(errors.New("connection refused")).Once()

	result, err := s.service.RunBatch(s.ctx, entries, false, false)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.SuccessCount)
}

func TestRunBatch_WithoutAuditRepository(t *testing.T) {
	gw := new(MockLedgerGateway)
	gw.On("Create", mock.Anything, domain.DocTypeJournalEntry, mock.Anything).
		Return(domain.RemoteRecord{"name": "JV-0001"}, nil).Once()
	svc := services.NewJournalService(gw)

	result, err := svc.RunBatch(context.Background(), []domain.JournalEntryDraft{balancedDraft("1")}, false, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	gw.AssertExpectations(t)
}

func (s *BatchServiceTestSuite) TestGetBatchRun() {
	run := &domain.BatchRun{RunID: "0b6a3f2e-6c1d-4c8e-9a57-2f9d1e0c4b11", EntryCount: 3}
	s.mockRepo.On("FindBatchRunByID", s.ctx, "0b6a3f2e-6c1d-4c8e-9a57-2f9d1e0c4b11").Return(run, nil).Once()

	found, err := s.service.GetBatchRun(s.ctx, "0b6a3f2e-6c1d-4c8e-9a57-2f9d1e0c4b11")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), run, found)
}

func (s *BatchServiceTestSuite) TestGetBatchRun_NotFound() {
	s.mockRepo.On("FindBatchRunByID", s.ctx, "5d0e2c55-7a61-4f0b-8d3e-9c4b6a1f2e30").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetBatchRun(s.ctx, "5d0e2c55-7a61-4f0b-8d3e-9c4b6a1f2e30")

	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *BatchServiceTestSuite) TestListBatchRuns_ClampsLimit() {
	s.mockRepo.On("ListRecentBatchRuns", s.ctx, 200).Return([]domain.BatchRun{{RunID: "a"}}, nil).Once()

	runs, err := s.service.ListBatchRuns(s.ctx, 1000)

	require.NoError(s.T(), err)
	assert.Len(s.T(), runs, 1)
}

func TestBatchRuns_WithoutAuditRepository(t *testing.T) {
	svc := services.NewJournalService(new(MockLedgerGateway))

	runs, err := svc.ListBatchRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = svc.GetBatchRun(context.Background(), "0b6a3f2e-6c1d-4c8e-9a57-2f9d1e0c4b11")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.GetBatchRun(context.Background(), "abc")
	assert.ErrorIs(t, err, apperrors.ErrStructuralInput)
}
