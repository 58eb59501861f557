package transaction

import (
	"posconsole/internal/domain"
)

// backendPaymentMethod traduz o vocabulário do console para o do backend:
// "qr" vira "transfer"; "cash" e "card" passam iguais.
func backendPaymentMethod(m domain.PaymentMethod) string {
	if m == domain.PaymentQR {
		return "transfer"
	}
	return string(m)
}

// Shape monta o corpo de POST /inventory-transaction/bulk a partir do rascunho.
// O backend decide a operação pelos campos presentes, então os conjuntos de
// campos por tipo precisam ser exatamente estes.
func Shape(state domain.TransactionDraft) domain.BulkTransactionRequest {
	req := domain.BulkTransactionRequest{
		TransactionType: state.TransactionType,
		Remarks:         state.Remarks,
		Items:           make([]domain.BulkItem, 0, len(state.Items)),
	}

	for _, item := range state.Items {
		req.Items = append(req.Items, shapeItem(state, item))
	}

	switch state.TransactionType {
	case domain.TransactionSale:
		discount := state.Discount.InexactFloat64()
		req.Discount = &discount
		if state.PaymentMethod != "" {
			req.PaymentMethod = backendPaymentMethod(state.PaymentMethod)
		}
	case domain.TransactionTransfer:
		source := state.PointOfSaleID
		destination := state.DestinationPointOfSaleID
		req.SourcePointOfSaleID = &source
		req.DestinationPointOfSaleID = &destination
	}

	return req
}

// Prepare valida o rascunho e só então monta o corpo de envio.
func Prepare(state domain.TransactionDraft) (domain.BulkTransactionRequest, error) {
	if err := Validate(state).Err(); err != nil {
		return domain.BulkTransactionRequest{}, err
	}
	return Shape(state), nil
}

func shapeItem(state domain.TransactionDraft, item domain.CartItem) domain.BulkItem {
	quantity := item.Quantity

	// Produto novo no inventário: o backend cria a linha no ponto de venda.
	if state.TransactionType == domain.TransactionRestock && item.ProductID != 0 && item.InventoryID == 0 {
		productID := item.ProductID
		pointOfSaleID := state.PointOfSaleID
		return domain.BulkItem{ProductID: &productID, PointOfSaleID: &pointOfSaleID, Quantity: quantity}
	}

	inventoryID := item.InventoryID
	return domain.BulkItem{InventoryID: &inventoryID, Quantity: quantity}
}
