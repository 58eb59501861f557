package domain

// BulkItem é uma linha do corpo de POST /inventory-transaction/bulk.
// O backend discrimina a operação pelos campos presentes, por isso todos são opcionais.
type BulkItem struct {
	InventoryID   *int64 `json:"inventoryId,omitempty"`
	ProductID     *int64 `json:"productId,omitempty"`
	PointOfSaleID *int64 `json:"pointOfSaleId,omitempty"`
	Quantity      int    `json:"quantity"`
}

// BulkTransactionRequest é o corpo enviado ao endpoint de transações em lote.
type BulkTransactionRequest struct {
	TransactionType          TransactionType `json:"transactionType"`
	Remarks                  string          `json:"remarks"`
	Items                    []BulkItem      `json:"items"`
	PaymentMethod            string          `json:"paymentMethod,omitempty"`
	Discount                 *float64        `json:"discount,omitempty"`
	SourcePointOfSaleID      *int64          `json:"sourcePointOfSaleId,omitempty"`
	DestinationPointOfSaleID *int64          `json:"destinationPointOfSaleId,omitempty"`
}

// BulkTransactionResponse é a resposta do backend a uma submissão em lote.
type BulkTransactionResponse struct {
	TransactionGroupID string              `json:"transactionGroupId,omitempty"`
	Transactions       []TransactionRecord `json:"transactions,omitempty"`
}
