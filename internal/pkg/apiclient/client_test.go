package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/apiclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := apiclient.NewClient(srv.URL + "/")
	require.NoError(t, err)
	return client
}

func TestGet_ForwardsTokenAndQuery(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Centro"}]`))
	})

	ctx := apiclient.ContextWithToken(context.Background(), "tok-123")
	var out []map[string]interface{}
	err := client.Get(ctx, "/product/search", url.Values{"q": {"yerba mate"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/product/search", gotPath)
	assert.Equal(t, "yerba mate", gotQuery)
	assert.Len(t, out, 1)
}

func TestPost_SendsJSONBodyAndHeaders(t *testing.T) {
	var body map[string]interface{}
	var idempotency string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		idempotency = r.Header.Get("Idempotency-Key")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"transactionGroupId":"g-1"}`))
	})

	var out struct {
		TransactionGroupID string `json:"transactionGroupId"`
	}
	header := http.Header{}
	header.Set("Idempotency-Key", "abc")
	err := client.Post(context.Background(), "/inventory-transaction/bulk", map[string]string{"remarks": "x"}, &out, header)

	require.NoError(t, err)
	assert.Equal(t, "abc", idempotency)
	assert.Equal(t, "x", body["remarks"])
	assert.Equal(t, "g-1", out.TransactionGroupID)
}

func TestDo_Fail_NonSuccessBecomesUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"stock insuficiente"}`))
	})

	err := client.Post(context.Background(), "/inventory-transaction/bulk", map[string]int{"a": 1}, nil, nil)

	require.Error(t, err)
	var upstream *apperror.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.Status)
	assert.Contains(t, err.Error(), "stock insuficiente")
	assert.Contains(t, err.Error(), "422")
}

func TestDo_Fail_UnauthorizedPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Get(context.Background(), "/users", nil, nil)

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestDo_Fail_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	var out map[string]interface{}
	err := client.Get(context.Background(), "/product", nil, &out)

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.ErrorIs(t, err, apiclient.ErrUndecodableResponse)
}

func TestNewClient_Fail_EmptyBaseURL(t *testing.T) {
	_, err := apiclient.NewClient("  ")

	assert.Error(t, err)
}
