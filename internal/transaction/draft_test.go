package transaction_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/transaction"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func inventoryCandidate(id int64, productID int64, unitPrice string) domain.CandidateItem {
	return domain.CandidateItem{
		ID:            id,
		InventoryID:   id,
		ProductID:     productID,
		ProductName:   "Producto",
		ProductSKU:    "SKU-1",
		StockQuantity: 20,
		Price:         price(unitPrice),
	}
}

func newDraft(t *testing.T, typ domain.TransactionType, posID int64) *transaction.Draft {
	t.Helper()
	d := transaction.NewDraft()
	_, err := d.SetType(typ)
	require.NoError(t, err)
	d.SetPointOfSale(posID)
	return d
}

func TestSetType_Success_ResetsDraft(t *testing.T) {
	d := newDraft(t, domain.TransactionSale, 3)
	require.NoError(t, d.SetPaymentMethod(domain.PaymentCard))
	d.SetDiscount(decimal.NewFromInt(10))
	d.SetRemarks("venta mostrador")
	_, err := d.AddItem(inventoryCandidate(5, 1, "100"))
	require.NoError(t, err)

	changed, err := d.SetType(domain.TransactionTransfer)

	assert.NoError(t, err)
	assert.True(t, changed)
	state := d.State()
	assert.Equal(t, domain.TransactionTransfer, state.TransactionType)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.PointOfSaleID)
	assert.Empty(t, state.PaymentMethod)
	assert.True(t, state.Discount.IsZero())
	assert.Equal(t, "venta mostrador", state.Remarks)
}

func TestSetType_Success_SameTypeKeepsItems(t *testing.T) {
	d := newDraft(t, domain.TransactionSale, 3)
	_, err := d.AddItem(inventoryCandidate(5, 1, "100"))
	require.NoError(t, err)

	changed, err := d.SetType(domain.TransactionSale)

	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, d.Items(), 1)
}

func TestSetType_Fail_UnknownType(t *testing.T) {
	d := transaction.NewDraft()

	_, err := d.SetType("refund")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestSetPointOfSale_ClearsItemsOnChange(t *testing.T) {
	d := newDraft(t, domain.TransactionSale, 3)
	_, err := d.AddItem(inventoryCandidate(5, 1, "100"))
	require.NoError(t, err)

	assert.False(t, d.SetPointOfSale(3))
	assert.Len(t, d.Items(), 1)

	assert.True(t, d.SetPointOfSale(4))
	assert.Empty(t, d.Items())
	assert.Equal(t, int64(4), d.PointOfSaleID())
}

func TestSetPaymentMethod_Fail_Unknown(t *testing.T) {
	d := newDraft(t, domain.TransactionSale, 1)

	err := d.SetPaymentMethod("cheque")

	assert.Error(t, err)
	assert.NoError(t, d.SetPaymentMethod(""))
}

func TestState_ReturnsCopy(t *testing.T) {
	d := newDraft(t, domain.TransactionSale, 1)
	_, err := d.AddItem(inventoryCandidate(5, 1, "100"))
	require.NoError(t, err)

	state := d.State()
	state.Items[0].Quantity = 99

	item, ok := d.Item(domain.InventoryKey(5))
	assert.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
}

func TestFromState_RestoresDraft(t *testing.T) {
	state := domain.TransactionDraft{
		PointOfSaleID:   2,
		TransactionType: domain.TransactionRestock,
		Remarks:         "reposición",
		Items:           []domain.CartItem{{ProductID: 8, Quantity: 4}},
	}

	d := transaction.FromState(state)
	_, err := d.AddItemQuantity(domain.CandidateItem{ID: 8, ProductID: 8}, 2)

	assert.NoError(t, err)
	item, ok := d.Item(domain.ProductKey(8))
	assert.True(t, ok)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, 4, state.Items[0].Quantity)
}
