// Package transaction implementa o rascunho de transação de inventário com vários itens:
// merge de itens, política de quantidade por tipo, preço, validação e o formato de envio.
// Nada aqui faz I/O; as invariantes valem de forma síncrona após cada mutação.
package transaction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
)

// Draft encapsula o domain.TransactionDraft e é o único caminho de mutação do estado.
// Não é seguro para uso concorrente; quem compartilha um Draft deve sincronizar.
type Draft struct {
	state domain.TransactionDraft
}

// NewDraft cria um rascunho vazio.
func NewDraft() *Draft {
	return &Draft{state: domain.TransactionDraft{Items: []domain.CartItem{}}}
}

// FromState reconstrói um rascunho a partir de um estado serializado.
func FromState(state domain.TransactionDraft) *Draft {
	d := &Draft{state: state}
	d.state.Items = cloneItems(state.Items)
	return d
}

// State devolve uma cópia do estado atual.
func (d *Draft) State() domain.TransactionDraft {
	out := d.state
	out.Items = cloneItems(d.state.Items)
	return out
}

// Type devolve o tipo atual do rascunho.
func (d *Draft) Type() domain.TransactionType {
	return d.state.TransactionType
}

// PointOfSaleID devolve o ponto de venda de origem.
func (d *Draft) PointOfSaleID() int64 {
	return d.state.PointOfSaleID
}

// SetType troca o tipo da transação. O rascunho não é portável entre tipos:
// ponto de venda, destino, método de pagamento, desconto e itens são limpos.
// Devolve true quando o tipo mudou.
func (d *Draft) SetType(t domain.TransactionType) (bool, error) {
	if !t.Valid() {
		return false, apperror.NewValidationError(fmt.Sprintf("Tipo de transação inválido: %q", t))
	}
	if t == d.state.TransactionType {
		return false, nil
	}
	d.state = domain.TransactionDraft{
		TransactionType: t,
		Remarks:         d.state.Remarks,
		Items:           []domain.CartItem{},
	}
	return true, nil
}

// SetPointOfSale troca o ponto de venda de origem e limpa a lista de itens
// quando o valor muda. Devolve true quando houve mudança.
func (d *Draft) SetPointOfSale(id int64) bool {
	if id == d.state.PointOfSaleID {
		return false
	}
	d.state.PointOfSaleID = id
	d.state.Items = []domain.CartItem{}
	return true
}

// SetDestination define o ponto de venda de destino (apenas transfer o usa).
func (d *Draft) SetDestination(id int64) {
	d.state.DestinationPointOfSaleID = id
}

// SetPaymentMethod define o método de pagamento; vazio limpa o campo.
func (d *Draft) SetPaymentMethod(m domain.PaymentMethod) error {
	if m != "" && !m.Valid() {
		return apperror.NewValidationError(fmt.Sprintf("Método de pagamento inválido: %q", m))
	}
	d.state.PaymentMethod = m
	return nil
}

// SetDiscount define o desconto em valor absoluto. Os limites são checados por Validate.
func (d *Draft) SetDiscount(amount decimal.Decimal) {
	d.state.Discount = amount
}

// SetRemarks define as observações.
func (d *Draft) SetRemarks(remarks string) {
	d.state.Remarks = remarks
}
