package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posconsole/internal/api/draft"
	"posconsole/internal/api/history"
	"posconsole/internal/api/pointofsale"
	"posconsole/internal/api/router"
	"posconsole/internal/domain"
	"posconsole/internal/pkg/cache"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
	"posconsole/internal/pkg/token"
	"posconsole/internal/service/draftservice"
	"posconsole/internal/service/historyservice"
)

type stubCatalog struct{}

func (stubCatalog) SearchProducts(ctx context.Context, query string) ([]domain.CandidateItem, error) {
	return nil, nil
}

func (stubCatalog) SearchInventory(ctx context.Context, pointOfSaleID int64, query string) ([]domain.CandidateItem, error) {
	return nil, nil
}

func (stubCatalog) ListPointsOfSale(ctx context.Context) ([]domain.PointOfSale, error) {
	return []domain.PointOfSale{{ID: 1, Name: "Centro", IsActive: true}}, nil
}

type stubHistory struct{}

func (stubHistory) List(ctx context.Context, filter domain.TransactionFilter) (historyservice.History, error) {
	return historyservice.History{Transactions: []domain.EnrichedTransaction{}}, nil
}

func (stubHistory) Summary(ctx context.Context, filter domain.TransactionFilter) (historyservice.Summary, error) {
	return historyservice.Summary{Summary: []domain.TypeSummary{}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *token.Service) {
	t.Helper()
	log := logger.NewNop()
	tokens := token.NewService("segredo", time.Hour)
	drafts := draftservice.NewService(stubCatalog{}, nil, log, draftservice.Options{})

	h := router.NewRouter(router.Dependencies{
		Drafts:       draft.NewHandler(drafts, log),
		History:      history.NewHandler(stubHistory{}, log),
		PointsOfSale: pointofsale.NewHandler(drafts, log),
		TokenService: tokens,
		RateLimiter:  cache.NewMemoryClient(),
		RateLimit:    100,
		RatePeriod:   time.Minute,
		Metrics:      metrics.New(),
		Logger:       log,
	})
	return h, tokens
}

func bearer(t *testing.T, tokens *token.Service, role domain.UserRole) string {
	t.Helper()
	tok, err := tokens.GenerateToken(7, string(role))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestPing(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestMetricsIsPublic(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestV1RequiresToken(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/points-of-sale", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPointsOfSaleWithToken(t *testing.T) {
	h, tokens := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/points-of-sale", nil)
	req.Header.Set("Authorization", bearer(t, tokens, domain.RoleSeller))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Centro")
}

func TestTransactionsRoute(t *testing.T) {
	h, tokens := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions", nil)
	req.Header.Set("Authorization", bearer(t, tokens, domain.RoleViewer))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"transactions":[],"partial":false}`, rec.Body.String())
}

func TestSubmitForbiddenForViewer(t *testing.T) {
	h, tokens := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/drafts/abc/submit", nil)
	req.Header.Set("Authorization", bearer(t, tokens, domain.RoleViewer))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitUnknownDraftForSeller(t *testing.T) {
	h, tokens := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/drafts/abc/submit", nil)
	req.Header.Set("Authorization", bearer(t, tokens, domain.RoleSeller))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftLifecycle(t *testing.T) {
	h, tokens := newTestRouter(t)
	auth := bearer(t, tokens, domain.RoleSeller)

	req := httptest.NewRequest(http.MethodPost, "/v1/drafts", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"submitting":false`)
}
