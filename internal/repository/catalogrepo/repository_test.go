package catalogrepo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posconsole/internal/pkg/apiclient"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/repository/catalogrepo"
)

func newRepo(t *testing.T, handler http.HandlerFunc) *catalogrepo.CatalogRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := apiclient.NewClient(srv.URL)
	require.NoError(t, err)
	return catalogrepo.NewCatalogRepository(client, logger.NewNop())
}

func TestSearchInventory_MapsEmbeddedProduct(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/point-of-sale/3/inventory/search", r.URL.Path)
		assert.Equal(t, "yer", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"id":12,"productId":4,"pointOfSaleId":3,"quantity":7,"minimumStock":2,"onDisplay":true,
			"product":{"id":4,"name":"Yerba","sku":"YER-1","price":"1500.50"}}]`))
	})

	items, err := repo.SearchInventory(context.Background(), 3, "yer")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(12), items[0].ID)
	assert.Equal(t, int64(12), items[0].InventoryID)
	assert.Equal(t, int64(4), items[0].ProductID)
	assert.Equal(t, "Yerba", items[0].ProductName)
	assert.Equal(t, 7, items[0].StockQuantity)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, "1500.5", items[0].Price.String())
}

func TestSearchProducts_NoInventory(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/search", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":44,"name":"Azúcar","sku":"AZU-1"}]`))
	})

	items, err := repo.SearchProducts(context.Background(), "azu")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(44), items[0].ProductID)
	assert.Zero(t, items[0].InventoryID)
	assert.Nil(t, items[0].Price)
}

func TestListPointsOfSale_EmptyBody(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	points, err := repo.ListPointsOfSale(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}
