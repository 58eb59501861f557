package domain

import (
	"github.com/shopspring/decimal"
)

// Product representa o item do catálogo global, como devolvido por GET /product.
// O preço é opcional no backend (produtos recém-cadastrados podem não ter).
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	SKU         string           `json:"sku"` // Stock Keeping Unit (código único de produto)
	Barcode     string           `json:"barcode,omitempty"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// Inventory representa o estoque de um produto em um ponto de venda (GET /inventory).
// Pode vir com o produto embutido quando retornado pela busca de inventário.
type Inventory struct {
	ID            int64    `json:"id"`
	ProductID     int64    `json:"productId"`
	PointOfSaleID int64    `json:"pointOfSaleId"`
	Quantity      int      `json:"quantity"`
	MinimumStock  int      `json:"minimumStock"`
	OnDisplay     bool     `json:"onDisplay"`
	Product       *Product `json:"product,omitempty"`
}
