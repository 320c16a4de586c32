package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/core/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/handlers"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
)

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	mockBankTxService  *MockBankTransactionService
	mockAccountService *MockAccountService
	jwtSecret          string
	token              string
}

// generateTestToken creates a signed JWT for testing.
func (suite *HandlersTestSuite) generateTestToken(subject string, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-bridge-test",
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.token = suite.generateTestToken("accountant-1", time.Hour)

	suite.mockJournalService = new(MockJournalService)
	suite.mockBankTxService = new(MockBankTransactionService)
	suite.mockAccountService = new(MockAccountService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true,
	}
	container := &portssvc.ServiceContainer{
		Journal:         suite.mockJournalService,
		BankTransaction: suite.mockBankTxService,
		Account:         suite.mockAccountService,
	}
	handlers.RegisterRoutes(suite.router, cfg, container, nil)
}

func (suite *HandlersTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), "Failed to unmarshal response body")
}

func entryBody(debit, credit string) map[string]any {
	return map[string]any{
		"postingDate": "2024-03-31",
		"company":     "ABC Corp",
		"lines": []map[string]any{
			{"account": "1111 - Checking - ABC", "debit": json.Number(debit), "credit": 0},
			{"account": "4000 - Sales - ABC", "debit": 0, "credit": json.Number(credit)},
		},
	}
}

func draftWithCompany(company string) any {
	return mock.MatchedBy(func(d domain.JournalEntryDraft) bool {
		return d.Company == company && len(d.Lines) == 2
	})
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestRequiresAuthentication() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestValidateJournalEntry_Success() {
	result := domain.ValidationResult{
		Valid:       false,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(90),
		Difference:  decimal.NewFromInt(10),
		Errors:      []string{"Entry is not balanced. Debit: 100.00, Credit: 90.00, Difference: 10.00"},
		Warnings:    []string{},
	}
	suite.mockJournalService.On("ValidateJournalEntry", mock.MatchedBy(func(d domain.JournalEntryDraft) bool {
		return len(d.Lines) == 2 && d.Lines[0].Debit.Equal(decimal.NewFromInt(100)) && d.Lines[1].Credit.Equal(decimal.NewFromInt(90))
	})).Return(result).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/validate", entryBody("100", "90"))

	// validation verdicts are data, not failures
	suite.Equal(http.StatusOK, w.Code)
	var body domain.ValidationResult
	suite.decode(w, &body)
	suite.False(body.Valid)
	suite.Len(body.Errors, 1)
	suite.True(body.Difference.Equal(decimal.NewFromInt(10)))
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCreateJournalEntry_Created() {
	creation := &domain.JournalCreation{
		Record:    domain.RemoteRecord{"name": "ACC-JV-2024-00001", "docstatus": json.Number("1")},
		Submitted: true,
		Warnings:  []string{},
	}
	suite.mockJournalService.On("CreateJournalEntry", mock.Anything, draftWithCompany("ABC Corp"), false, true).
		Return(creation, nil).Once()

	body := entryBody("100", "100")
	body["autoSubmit"] = true
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp domain.JournalCreation
	suite.decode(w, &resp)
	suite.True(resp.Submitted)
	suite.Equal("ACC-JV-2024-00001", resp.Record.ID())
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCreateJournalEntry_ValidationFailed() {
	validationErr := &services.ValidationFailedError{Result: domain.ValidationResult{
		Valid:    false,
		Errors:   []string{"Entry is not balanced. Debit: 100.00, Credit: 90.00, Difference: 10.00"},
		Warnings: []string{},
	}}
	suite.mockJournalService.On("CreateJournalEntry", mock.Anything, draftWithCompany("ABC Corp"), false, false).
		Return(nil, validationErr).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", entryBody("100", "90"))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp dto.ValidationFailedResponse
	suite.decode(w, &resp)
	suite.Equal("journal entry failed validation", resp.Error)
	suite.Len(resp.Validation.Errors, 1)
}

func (suite *HandlersTestSuite) TestCreateJournalEntry_GatewayError() {
	gwErr := &apperrors.GatewayError{Operation: "create", DocType: "Journal Entry", StatusCode: 417, Message: "Account is frozen"}
	suite.mockJournalService.On("CreateJournalEntry", mock.Anything, mock.Anything, false, false).
		Return(nil, gwErr).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", entryBody("100", "100"))

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "Account is frozen")
}

func (suite *HandlersTestSuite) TestCreateJournalEntry_MalformedJSON() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/journal-entries", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid request format")
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateJournalEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateJournalEntry_BadPostingDate() {
	body := entryBody("100", "100")
	body["postingDate"] = "31/03/2024"

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestSubmitJournalEntry_TerminalState() {
	err := errors.Join(apperrors.ErrTerminalState, errors.New("journal entry ACC-JV-2024-00001 is already submitted"))
	suite.mockJournalService.On("SubmitJournalEntry", mock.Anything, "ACC-JV-2024-00001").Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/ACC-JV-2024-00001/submit", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestGetJournalEntry_NotFound() {
	gwErr := &apperrors.GatewayError{Operation: "list", DocType: "Journal Entry", StatusCode: http.StatusNotFound, Message: "Not Found"}
	suite.mockJournalService.On("GetJournalEntry", mock.Anything, "ACC-JV-MISSING").Return(nil, gwErr).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries/ACC-JV-MISSING", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateJournalEntry_Success() {
	record := domain.RemoteRecord{"name": "ACC-JV-2024-00002", "docstatus": json.Number("0")}
	suite.mockJournalService.On("UpdateJournalEntry", mock.Anything, "ACC-JV-2024-00002", draftWithCompany("ABC Corp")).
		Return(record, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/journal-entries/ACC-JV-2024-00002", entryBody("50", "50"))

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "ACC-JV-2024-00002")
}

func (suite *HandlersTestSuite) TestListJournalEntries_PassesParams() {
	next := "Mg=="
	resp := &dto.ListJournalEntriesResponse{
		Entries:   []domain.RemoteRecord{{"name": "ACC-JV-2024-00001"}},
		NextToken: &next,
	}
	suite.mockJournalService.On("ListJournalEntries", mock.Anything, mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
		return p.Company == "ABC Corp" && p.Limit == 1 && p.DocStatus != nil && *p.DocStatus == 1
	})).Return(resp, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?company=ABC+Corp&limit=1&docstatus=1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListJournalEntriesResponse
	suite.decode(w, &body)
	suite.Len(body.Entries, 1)
	suite.Require().NotNil(body.NextToken)
	suite.Equal(next, *body.NextToken)
}

func (suite *HandlersTestSuite) TestBatchCreate_MixedOutcomes() {
	result := &domain.BatchResult{
		SuccessCount: 1,
		ErrorCount:   1,
		Outcomes: []domain.BatchItemOutcome{
			{Index: 0, Kind: domain.OutcomeCreated, ID: "ACC-JV-2024-00010"},
			{Index: 1, Kind: domain.OutcomeValidationFailed, Errors: []string{"Entry is not balanced"}},
		},
	}
	suite.mockJournalService.On("RunBatch", mock.Anything, mock.MatchedBy(func(e []domain.JournalEntryDraft) bool {
		return len(e) == 2
	}), false, true).Return(result, nil).Once()

	body := map[string]any{
		"entries":     []any{entryBody("10", "10"), entryBody("10", "5")},
		"stopOnError": true,
	}
	w := suite.do(http.MethodPost, "/api/v1/journal-entries/batch", body)

	// partial failure is still a successful batch call
	suite.Equal(http.StatusOK, w.Code)
	var resp domain.BatchResult
	suite.decode(w, &resp)
	suite.Equal(1, resp.SuccessCount)
	suite.Equal(1, resp.ErrorCount)
	suite.False(resp.Atomic)
	suite.Len(resp.Outcomes, 2)
	suite.Equal(domain.OutcomeValidationFailed, resp.Outcomes[1].Kind)
}

func (suite *HandlersTestSuite) TestBatchCreate_Empty() {
	suite.mockJournalService.On("RunBatch", mock.Anything, mock.Anything, false, false).
		Return(nil, apperrors.StructuralInputf("batch contains no entries")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/batch", map[string]any{"entries": []any{}})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "batch contains no entries")
}

func (suite *HandlersTestSuite) TestBatchRuns() {
	started := time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC)
	runs := []domain.BatchRun{{RunID: "0b6a3f2e-6c1d-4c8e-9a57-2f9d1e0c4b11", StartedAt: started, FinishedAt: started, EntryCount: 2}}
	suite.mockJournalService.On("ListBatchRuns", mock.Anything, 5).Return(runs, nil).Once()
	suite.mockJournalService.On("GetBatchRun", mock.Anything, "5d0e2c55-7a61-4f0b-8d3e-9c4b6a1f2e30").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/batch-runs?limit=5", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body dto.BatchRunsResponse
	suite.decode(w, &body)
	suite.Require().Len(body.Runs, 1)
	suite.Equal(runs[0].RunID, body.Runs[0].RunID)

	w = suite.do(http.MethodGet, "/api/v1/batch-runs/5d0e2c55-7a61-4f0b-8d3e-9c4b6a1f2e30", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSearchBankTransactions_Success() {
	txs := []domain.BankTransaction{{ID: "BT-002", Status: domain.StatusUnreconciled}}
	suite.mockBankTxService.On("SearchBankTransactions", mock.Anything, mock.MatchedBy(func(q domain.BankTransactionQuery) bool {
		return q.BankAccount == "Checking - ABC" &&
			q.MinAmount != nil && q.MinAmount.Equal(decimal.NewFromInt(100)) &&
			q.MaxAmount == nil &&
			q.Status == domain.StatusUnreconciled
	})).Return(txs, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/bank-transactions?bankAccount=Checking+-+ABC&minAmount=100&status=Unreconciled", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.BankTransactionsResponse
	suite.decode(w, &body)
	suite.Equal(1, body.Count)
	suite.mockBankTxService.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSearchBankTransactions_BadAmount() {
	w := suite.do(http.MethodGet, "/api/v1/bank-transactions?minAmount=abc", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBankTxService.AssertNotCalled(suite.T(), "SearchBankTransactions", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestImportBankTransactions() {
	columns := []string{"Date", "Description", "Deposit"}
	suite.mockBankTxService.On("BatchImportBankTransactions", mock.Anything, columns, mock.MatchedBy(func(rows [][]any) bool {
		return len(rows) == 1 && len(rows[0]) == 3
	}), "Checking - ABC").Return(map[string]any{"success": true}, nil).Once()

	body := map[string]any{
		"columns":     columns,
		"rows":        [][]any{{"2024-03-01", "Wire in", 1500}},
		"bankAccount": "Checking - ABC",
	}
	w := suite.do(http.MethodPost, "/api/v1/bank-transactions/import", body)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"result":{"success":true}}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestListAccounts() {
	accounts := []domain.Account{{Name: "1111 - Checking - ABC", RootType: domain.Asset}}
	suite.mockAccountService.On("ListAccounts", mock.Anything, mock.MatchedBy(func(q domain.AccountQuery) bool {
		return q.Company == "ABC Corp" && q.RootType == domain.Asset && q.IsGroup != nil && !*q.IsGroup
	})).Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?company=ABC+Corp&rootType=Asset&isGroup=false", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListAccountsResponse
	suite.decode(w, &body)
	suite.Len(body.Accounts, 1)
}

func (suite *HandlersTestSuite) TestGetAccountBalance() {
	suite.mockAccountService.On("GetAccountBalance", mock.Anything, domain.LedgerAccountRef("1111 - Checking - ABC"), "2024-03-31").
		Return(decimal.RequireFromString("15230.46"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/balance?account=1111+-+Checking+-+ABC&date=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountBalanceResponse
	suite.decode(w, &body)
	suite.Equal("1111 - Checking - ABC", body.Account)
	suite.True(body.Balance.Equal(decimal.RequireFromString("15230.46")))
}

func (suite *HandlersTestSuite) TestGetAccountBalance_MissingAccount() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/balance", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
