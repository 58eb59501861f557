package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord é o registro normalizado devolvido por GET /inventory-transaction.
// Pode ser de item único (InventoryID/Quantity) ou agrupado (IsGrouped/Items).
type TransactionRecord struct {
	ID                       int64           `json:"id"`
	InventoryID              *int64          `json:"inventoryId,omitempty"`
	TransactionType          TransactionType `json:"transactionType"`
	Quantity                 *int            `json:"quantity,omitempty"`
	Remarks                  *string         `json:"remarks,omitempty"`
	Date                     *time.Time      `json:"date,omitempty"`
	CreatedAt                *time.Time      `json:"createdAt,omitempty"`
	SourcePointOfSaleID      *int64          `json:"sourcePointOfSaleId,omitempty"`
	DestinationPointOfSaleID *int64          `json:"destinationPointOfSaleId,omitempty"`
	UserID                   *int64          `json:"userId,omitempty"`
	PaymentMethod            string          `json:"paymentMethod,omitempty"`
	IsGrouped                bool            `json:"isGrouped,omitempty"`
	TransactionGroupID       string          `json:"transactionGroupId,omitempty"`
	Items                    []RecordItem    `json:"items,omitempty"`
}

// RecordItem é um item de um registro agrupado. O inventário pode vir embutido.
type RecordItem struct {
	InventoryID int64      `json:"inventoryId"`
	Quantity    int        `json:"quantity"`
	Inventory   *Inventory `json:"inventory,omitempty"`
}

// EnrichedItem é um item agrupado com referências resolvidas e subtotal calculado.
type EnrichedItem struct {
	InventoryID     int64           `json:"inventoryId"`
	ProductID       int64           `json:"productId,omitempty"`
	Quantity        int             `json:"quantity"`
	ProductName     string          `json:"productName"`
	ProductSKU      string          `json:"productSku"`
	PointOfSaleName string          `json:"pointOfSaleName"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// EnrichedTransaction é a visão pronta para exibição de um TransactionRecord.
// É derivada a cada carga da lista e nunca persistida.
type EnrichedTransaction struct {
	ID                         int64            `json:"id"`
	TransactionType            TransactionType  `json:"transactionType"`
	TransactionGroupID         string           `json:"transactionGroupId,omitempty"`
	IsGrouped                  bool             `json:"isGrouped"`
	InventoryID                *int64           `json:"inventoryId,omitempty"`
	Quantity                   *int             `json:"quantity,omitempty"`
	Remarks                    string           `json:"remarks"`
	Date                       *time.Time       `json:"date,omitempty"`
	UserID                     *int64           `json:"userId,omitempty"`
	PaymentMethod              string           `json:"paymentMethod,omitempty"`
	SourcePointOfSaleID        *int64           `json:"sourcePointOfSaleId,omitempty"`
	DestinationPointOfSaleID   *int64           `json:"destinationPointOfSaleId,omitempty"`
	ProductName                string           `json:"productName,omitempty"`
	ProductSKU                 string           `json:"productSku,omitempty"`
	PointOfSaleName            string           `json:"pointOfSaleName,omitempty"`
	SourcePointOfSaleName      string           `json:"sourcePointOfSaleName,omitempty"`
	DestinationPointOfSaleName string           `json:"destinationPointOfSaleName,omitempty"`
	UserName                   string           `json:"userName,omitempty"`
	EnrichedItems              []EnrichedItem   `json:"enrichedItems,omitempty"`
	TotalValue                 *decimal.Decimal `json:"totalValue,omitempty"`
	TotalQuantity              *int             `json:"totalQuantity,omitempty"`
}

// TransactionFilter são os filtros aceitos por GET /inventory-transaction.
type TransactionFilter struct {
	UserID    *int64
	StartDate string
	EndDate   string
}

// TypeSummary agrega as transações enriquecidas de um mesmo tipo.
type TypeSummary struct {
	TransactionType TransactionType `json:"transactionType"`
	Count           int             `json:"count"`
	TotalQuantity   int             `json:"totalQuantity"`
	TotalValue      decimal.Decimal `json:"totalValue"`
}
