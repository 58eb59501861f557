package history_test

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"posconsole/internal/api/history"
	"posconsole/internal/domain"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/service/historyservice"
)

// MockHistoryService é uma implementação mock da interface HistoryService.
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) List(ctx context.Context, filter domain.TransactionFilter) (historyservice.History, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(historyservice.History), args.Error(1)
}

func (m *MockHistoryService) Summary(ctx context.Context, filter domain.TransactionFilter) (historyservice.Summary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(historyservice.Summary), args.Error(1)
}

func TestListTransactionsHandler_PassesFilter(t *testing.T) {
	svc := new(MockHistoryService)
	userID := int64(7)
	svc.On("List", mock.Anything, domain.TransactionFilter{UserID: &userID, StartDate: "2024-01-01", EndDate: "2024-01-31"}).
		Return(historyservice.History{Transactions: []domain.EnrichedTransaction{}, Partial: true, Warnings: []string{"x"}}, nil)
	h := history.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.ListTransactionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions?userId=7&startDate=2024-01-01&endDate=2024-01-31", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"transactions":[],"partial":true,"warnings":["x"]}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestListTransactionsHandler_Fail_InvertedRange(t *testing.T) {
	svc := new(MockHistoryService)
	h := history.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.ListTransactionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions?startDate=2024-02-01&endDate=2024-01-01", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "endDate")
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListTransactionsHandler_Fail_Upstream(t *testing.T) {
	svc := new(MockHistoryService)
	svc.On("List", mock.Anything, mock.Anything).Return(historyservice.History{}, errors.New("boom"))
	h := history.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.ListTransactionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExportHandler_CSV(t *testing.T) {
	svc := new(MockHistoryService)
	qty := 4
	svc.On("List", mock.Anything, domain.TransactionFilter{}).Return(historyservice.History{
		Transactions: []domain.EnrichedTransaction{{ID: 3, TransactionType: domain.TransactionRestock, Quantity: &qty, ProductName: "Yerba"}},
		Partial:      true,
	}, nil)
	h := history.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions/export?format=csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "true", rec.Header().Get("X-Partial-References"))
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Yerba", records[1][4])
}

func TestExportHandler_Fail_UnknownFormat(t *testing.T) {
	svc := new(MockHistoryService)
	h := history.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions/export?format=pdf", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
