package catalogrepo

import (
	"context"
	"fmt"
	"net/url"

	"posconsole/internal/domain"
	"posconsole/internal/pkg/logger"
)

// Requester é o subconjunto do apiclient usado pelo repositório.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
}

// CatalogRepository resolve buscas de candidatos e a lista de pontos de venda no backend.
type CatalogRepository struct {
	api    Requester
	logger logger.Logger
}

// NewCatalogRepository cria e retorna uma nova instância do repositório de catálogo.
func NewCatalogRepository(api Requester, logger logger.Logger) *CatalogRepository {
	return &CatalogRepository{api: api, logger: logger}
}

// productSearchResult é um produto do catálogo global. inventoryId só vem quando o
// backend já conhece o inventário do produto no ponto de venda.
type productSearchResult struct {
	domain.Product
	InventoryID int64 `json:"inventoryId"`
}

// SearchProducts consulta GET /product/search (candidatos de restock).
func (r *CatalogRepository) SearchProducts(ctx context.Context, query string) ([]domain.CandidateItem, error) {
	var products []productSearchResult
	if err := r.api.Get(ctx, "/product/search", url.Values{"q": {query}}, &products); err != nil {
		return nil, err
	}

	out := make([]domain.CandidateItem, 0, len(products))
	for _, p := range products {
		out = append(out, domain.CandidateItem{
			ID:          p.ID,
			InventoryID: p.InventoryID,
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Barcode:     p.Barcode,
			Price:       p.Price,
		})
	}

	r.logger.Debug("Busca de produtos concluída.", map[string]interface{}{"query": query, "results": len(out)})
	return out, nil
}

// SearchInventory consulta GET /point-of-sale/{id}/inventory/search.
func (r *CatalogRepository) SearchInventory(ctx context.Context, pointOfSaleID int64, query string) ([]domain.CandidateItem, error) {
	var inventories []domain.Inventory
	path := fmt.Sprintf("/point-of-sale/%d/inventory/search", pointOfSaleID)
	if err := r.api.Get(ctx, path, url.Values{"q": {query}}, &inventories); err != nil {
		return nil, err
	}

	out := make([]domain.CandidateItem, 0, len(inventories))
	for _, inv := range inventories {
		c := domain.CandidateItem{
			ID:            inv.ID,
			InventoryID:   inv.ID,
			ProductID:     inv.ProductID,
			StockQuantity: inv.Quantity,
			MinimumStock:  inv.MinimumStock,
			OnDisplay:     inv.OnDisplay,
		}
		if inv.Product != nil {
			c.ProductName = inv.Product.Name
			c.ProductSKU = inv.Product.SKU
			c.Barcode = inv.Product.Barcode
			c.Price = inv.Product.Price
		}
		out = append(out, c)
	}

	r.logger.Debug("Busca de inventário concluída.", map[string]interface{}{
		"point_of_sale_id": pointOfSaleID,
		"query":            query,
		"results":          len(out),
	})
	return out, nil
}

// ListPointsOfSale consulta GET /point-of-sale.
func (r *CatalogRepository) ListPointsOfSale(ctx context.Context) ([]domain.PointOfSale, error) {
	var points []domain.PointOfSale
	if err := r.api.Get(ctx, "/point-of-sale", nil, &points); err != nil {
		return nil, err
	}
	if points == nil {
		points = []domain.PointOfSale{}
	}
	return points, nil
}
