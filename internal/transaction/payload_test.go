package transaction_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/transaction"
)

func shapeJSON(t *testing.T, state domain.TransactionDraft) string {
	t.Helper()
	raw, err := json.Marshal(transaction.Shape(state))
	require.NoError(t, err)
	return string(raw)
}

func TestShape_Sale(t *testing.T) {
	state := validSale()
	state.PaymentMethod = domain.PaymentQR
	state.Discount = decimal.RequireFromString("12.5")

	assert.JSONEq(t, `{
		"transactionType": "sale",
		"remarks": "venta",
		"items": [{"inventoryId": 5, "quantity": 2}],
		"paymentMethod": "transfer",
		"discount": 12.5
	}`, shapeJSON(t, state))
}

func TestShape_SaleDefaultsDiscountToZero(t *testing.T) {
	state := validSale()
	state.Discount = decimal.Zero

	assert.JSONEq(t, `{
		"transactionType": "sale",
		"remarks": "venta",
		"items": [{"inventoryId": 5, "quantity": 2}],
		"paymentMethod": "cash",
		"discount": 0
	}`, shapeJSON(t, state))
}

func TestShape_RestockMixedItems(t *testing.T) {
	state := domain.TransactionDraft{
		PointOfSaleID:   4,
		TransactionType: domain.TransactionRestock,
		Remarks:         "reposición",
		Items: []domain.CartItem{
			{ProductID: 8, Quantity: 10},
			{InventoryID: 7, ProductID: 9, Quantity: 3},
		},
	}

	assert.JSONEq(t, `{
		"transactionType": "restock",
		"remarks": "reposición",
		"items": [
			{"productId": 8, "pointOfSaleId": 4, "quantity": 10},
			{"inventoryId": 7, "quantity": 3}
		]
	}`, shapeJSON(t, state))
}

func TestShape_AdjustmentKeepsSignedQuantities(t *testing.T) {
	state := domain.TransactionDraft{
		PointOfSaleID:   4,
		TransactionType: domain.TransactionAdjustment,
		Remarks:         "conteo",
		Items: []domain.CartItem{
			{InventoryID: 1, Quantity: -2},
			{InventoryID: 2, Quantity: 0},
		},
	}

	assert.JSONEq(t, `{
		"transactionType": "adjustment",
		"remarks": "conteo",
		"items": [
			{"inventoryId": 1, "quantity": -2},
			{"inventoryId": 2, "quantity": 0}
		]
	}`, shapeJSON(t, state))
}

func TestShape_Transfer(t *testing.T) {
	state := domain.TransactionDraft{
		PointOfSaleID:            1,
		DestinationPointOfSaleID: 2,
		TransactionType:          domain.TransactionTransfer,
		Remarks:                  "traspaso",
		PaymentMethod:            domain.PaymentCash,
		Items:                    []domain.CartItem{{InventoryID: 5, Quantity: 3}},
	}

	assert.JSONEq(t, `{
		"transactionType": "transfer",
		"remarks": "traspaso",
		"items": [{"inventoryId": 5, "quantity": 3}],
		"sourcePointOfSaleId": 1,
		"destinationPointOfSaleId": 2
	}`, shapeJSON(t, state))
}

func TestPrepare_Fail_InvalidDraft(t *testing.T) {
	state := validSale()
	state.Remarks = ""

	_, err := transaction.Prepare(state)

	assert.Error(t, err)
	assert.Contains(t, apperror.FieldsOf(err), transaction.FieldRemarks)
}

func TestPrepare_Success(t *testing.T) {
	req, err := transaction.Prepare(validSale())

	assert.NoError(t, err)
	assert.Equal(t, domain.TransactionSale, req.TransactionType)
	assert.Len(t, req.Items, 1)
}
