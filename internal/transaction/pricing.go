package transaction

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"posconsole/internal/domain"
)

// Totals é o resultado do cálculo de preço de um rascunho.
// Applicable é false para tipos que não são venda; nesse caso os valores são zero.
type Totals struct {
	Applicable bool            `json:"applicable"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
}

// Subtotal soma preço x quantidade. Preço ausente conta como 0
// (candidatos de restock podem vir sem preço).
func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if item.Price == nil {
			continue
		}
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// Price calcula subtotal e total com desconto. Só se aplica a vendas.
// O total nunca é negativo.
func Price(state domain.TransactionDraft) Totals {
	if state.TransactionType != domain.TransactionSale {
		return Totals{}
	}
	subtotal := Subtotal(state.Items)
	total := subtotal.Sub(state.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Applicable: true,
		Subtotal:   subtotal,
		Discount:   state.Discount,
		Total:      total,
	}
}

var moneyPrinter = message.NewPrinter(language.Spanish)

// FormatMoney formata um valor para mensagens ao operador (ex: "$1.500").
func FormatMoney(amount decimal.Decimal) string {
	return "$" + moneyPrinter.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(2)))
}
