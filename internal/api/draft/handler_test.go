package draft_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"posconsole/internal/api/draft"
	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/service/draftservice"
)

// MockDraftService é uma implementação mock da interface DraftService.
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) Create(ctx context.Context, userID int64, initial draftservice.DraftPatch) (draftservice.DraftView, error) {
	args := m.Called(ctx, userID, initial)
	return args.Get(0).(draftservice.DraftView), args.Error(1)
}

func (m *MockDraftService) Get(ctx context.Context, userID int64, id string) (draftservice.DraftView, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(draftservice.DraftView), args.Error(1)
}

func (m *MockDraftService) Update(ctx context.Context, userID int64, id string, patch draftservice.DraftPatch) (draftservice.DraftView, error) {
	args := m.Called(ctx, userID, id, patch)
	return args.Get(0).(draftservice.DraftView), args.Error(1)
}

func (m *MockDraftService) Discard(ctx context.Context, userID int64, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockDraftService) Query(ctx context.Context, userID int64, id string, query string) error {
	return m.Called(ctx, userID, id, query).Error(0)
}

func (m *MockDraftService) Candidates(ctx context.Context, userID int64, id string) ([]domain.CandidateItem, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).([]domain.CandidateItem), args.Error(1)
}

func (m *MockDraftService) AddItem(ctx context.Context, userID int64, id string, req draftservice.AddItemRequest) (draftservice.DraftView, error) {
	args := m.Called(ctx, userID, id, req)
	return args.Get(0).(draftservice.DraftView), args.Error(1)
}

func (m *MockDraftService) UpdateItem(ctx context.Context, userID int64, id string, key domain.ItemKey, quantity int) (draftservice.DraftView, error) {
	args := m.Called(ctx, userID, id, key, quantity)
	return args.Get(0).(draftservice.DraftView), args.Error(1)
}

func (m *MockDraftService) RemoveItem(ctx context.Context, userID int64, id string, key domain.ItemKey) (draftservice.DraftView, error) {
	args := m.Called(ctx, userID, id, key)
	return args.Get(0).(draftservice.DraftView), args.Error(1)
}

func (m *MockDraftService) Payload(ctx context.Context, userID int64, id string) (domain.BulkTransactionRequest, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(domain.BulkTransactionRequest), args.Error(1)
}

func (m *MockDraftService) Submit(ctx context.Context, userID int64, id string) (draftservice.SubmitResult, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(draftservice.SubmitResult), args.Error(1)
}

func (m *MockDraftService) Submissions(ctx context.Context, userID int64, limit int) ([]domain.SubmissionEntry, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.SubmissionEntry), args.Error(1)
}

func newRouter(svc draft.DraftService) http.Handler {
	h := draft.NewHandler(svc, logger.NewNop())
	r := chi.NewRouter()
	r.Post("/v1/drafts", h.CreateDraftHandler)
	r.Patch("/v1/drafts/{id}", h.UpdateDraftHandler)
	r.Put("/v1/drafts/{id}/items/{key}", h.UpdateItemHandler)
	r.Post("/v1/drafts/{id}/submit", h.SubmitHandler)
	r.Get("/v1/submissions", h.SubmissionsHandler)
	return r
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateDraftHandler_Success(t *testing.T) {
	svc := new(MockDraftService)
	saleType := domain.TransactionSale
	svc.On("Create", mock.Anything, int64(0), draftservice.DraftPatch{TransactionType: &saleType}).
		Return(draftservice.DraftView{ID: "d1"}, nil)

	rec := serve(t, newRouter(svc), http.MethodPost, "/v1/drafts", `{"transactionType":"sale"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"d1"`)
	svc.AssertExpectations(t)
}

func TestCreateDraftHandler_Success_EmptyBody(t *testing.T) {
	svc := new(MockDraftService)
	svc.On("Create", mock.Anything, int64(0), draftservice.DraftPatch{}).Return(draftservice.DraftView{ID: "d2"}, nil)

	rec := serve(t, newRouter(svc), http.MethodPost, "/v1/drafts", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateDraftHandler_Fail_InvalidPaymentMethod(t *testing.T) {
	svc := new(MockDraftService)

	rec := serve(t, newRouter(svc), http.MethodPatch, "/v1/drafts/d1", `{"paymentMethod":"bitcoin"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Fields, "paymentMethod")
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateItemHandler_Success(t *testing.T) {
	svc := new(MockDraftService)
	svc.On("UpdateItem", mock.Anything, int64(0), "d1", domain.ItemKey("inv:10"), -2).Return(draftservice.DraftView{ID: "d1"}, nil)

	rec := serve(t, newRouter(svc), http.MethodPut, "/v1/drafts/d1/items/inv:10", `{"quantity":-2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateItemHandler_Fail_BadKey(t *testing.T) {
	svc := new(MockDraftService)

	rec := serve(t, newRouter(svc), http.MethodPut, "/v1/drafts/d1/items/abc", `{"quantity":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItemHandler_Fail_MissingQuantity(t *testing.T) {
	svc := new(MockDraftService)

	rec := serve(t, newRouter(svc), http.MethodPut, "/v1/drafts/d1/items/inv:10", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitHandler_Fail_InFlight(t *testing.T) {
	svc := new(MockDraftService)
	svc.On("Submit", mock.Anything, int64(0), "d1").Return(draftservice.SubmitResult{}, apperror.NewConflictError("em andamento"))

	rec := serve(t, newRouter(svc), http.MethodPost, "/v1/drafts/d1/submit", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
}

func TestSubmitHandler_Fail_ValidationFields(t *testing.T) {
	svc := new(MockDraftService)
	svc.On("Submit", mock.Anything, int64(0), "d1").Return(draftservice.SubmitResult{},
		apperror.NewFieldValidationError("inválido", map[string]string{"remarks": "Las observaciones son obligatorias."}))

	rec := serve(t, newRouter(svc), http.MethodPost, "/v1/drafts/d1/submit", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Las observaciones son obligatorias.", body.Fields["remarks"])
}

func TestSubmissionsHandler_PassesLimit(t *testing.T) {
	svc := new(MockDraftService)
	svc.On("Submissions", mock.Anything, int64(0), 5).Return([]domain.SubmissionEntry{}, nil)

	rec := serve(t, newRouter(svc), http.MethodGet, "/v1/submissions?limit=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
