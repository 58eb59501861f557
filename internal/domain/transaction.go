package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType é o tipo da transação de inventário. Governa todas as regras do rascunho.
type TransactionType string

const (
	TransactionSale       TransactionType = "sale"
	TransactionRestock    TransactionType = "restock"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionTransfer   TransactionType = "transfer"
)

// TransactionTypes lista os tipos aceitos, na ordem em que o console os apresenta.
var TransactionTypes = []TransactionType{
	TransactionSale,
	TransactionRestock,
	TransactionAdjustment,
	TransactionTransfer,
}

// Valid informa se o tipo pertence ao enum fechado.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionRestock, TransactionAdjustment, TransactionTransfer:
		return true
	}
	return false
}

// PaymentMethod é o vocabulário de pagamento do console (difere do backend).
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentQR   PaymentMethod = "qr"
)

// Valid informa se o método pertence ao vocabulário do console.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentQR:
		return true
	}
	return false
}

// CandidateItem é um resultado de busca elegível para entrar no rascunho.
// Para restock vem do catálogo global (InventoryID só é preenchido quando o produto
// já possui inventário no ponto de venda); para os outros tipos vem da busca de
// inventário do ponto de venda e ID == InventoryID.
type CandidateItem struct {
	ID            int64            `json:"id"`
	InventoryID   int64            `json:"inventoryId"`
	ProductID     int64            `json:"productId"`
	ProductName   string           `json:"productName"`
	ProductSKU    string           `json:"productSku"`
	Barcode       string           `json:"barcode,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	MinimumStock  int              `json:"minimumStock"`
	OnDisplay     bool             `json:"onDisplay"`
	Price         *decimal.Decimal `json:"price,omitempty"`
}

// CartItem é uma linha do rascunho em composição.
type CartItem struct {
	InventoryID   int64            `json:"inventoryId"`
	ProductID     int64            `json:"productId,omitempty"`
	Quantity      int              `json:"quantity"`
	ProductName   string           `json:"productName"`
	ProductSKU    string           `json:"productSku"`
	Barcode       string           `json:"barcode,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	Price         *decimal.Decimal `json:"price,omitempty"`
}

// ItemKey identifica uma linha do rascunho para merge e busca.
// Formato: "inv:<inventoryId>" ou "prod:<productId>".
type ItemKey string

const (
	inventoryKeyPrefix = "inv:"
	productKeyPrefix   = "prod:"
)

// InventoryKey monta a chave de uma linha identificada pelo inventário.
func InventoryKey(inventoryID int64) ItemKey {
	return ItemKey(inventoryKeyPrefix + strconv.FormatInt(inventoryID, 10))
}

// ProductKey monta a chave de uma linha de restock sem inventário prévio.
func ProductKey(productID int64) ItemKey {
	return ItemKey(productKeyPrefix + strconv.FormatInt(productID, 10))
}

// ParseItemKey valida uma chave recebida de fora (ex: segmento de URL).
func ParseItemKey(raw string) (ItemKey, error) {
	var digits string
	switch {
	case strings.HasPrefix(raw, inventoryKeyPrefix):
		digits = strings.TrimPrefix(raw, inventoryKeyPrefix)
	case strings.HasPrefix(raw, productKeyPrefix):
		digits = strings.TrimPrefix(raw, productKeyPrefix)
	default:
		return "", fmt.Errorf("chave de item inválida: %q", raw)
	}
	if _, err := strconv.ParseInt(digits, 10, 64); err != nil {
		return "", fmt.Errorf("chave de item inválida: %q", raw)
	}
	return ItemKey(raw), nil
}

// KeyFor calcula a chave de identidade de uma linha para o tipo informado.
// Restock sem inventário existente usa o produto; todo o resto usa o inventário.
func KeyFor(t TransactionType, item CartItem) ItemKey {
	if t == TransactionRestock && item.InventoryID == 0 && item.ProductID != 0 {
		return ProductKey(item.ProductID)
	}
	return InventoryKey(item.InventoryID)
}

// TransactionDraft é o estado explícito e serializável da transação em composição.
// Só deve ser alterado pelos mutadores de internal/transaction.
type TransactionDraft struct {
	PointOfSaleID            int64           `json:"pointOfSaleId"`
	TransactionType          TransactionType `json:"transactionType"`
	PaymentMethod            PaymentMethod   `json:"paymentMethod,omitempty"`
	Remarks                  string          `json:"remarks"`
	DestinationPointOfSaleID int64           `json:"destinationPointOfSaleId,omitempty"`
	Discount                 decimal.Decimal `json:"discount"`
	Items                    []CartItem      `json:"items"`
}
