package transaction

import (
	"fmt"
	"strings"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
)

// Nomes de campo usados no mapa de erros (iguais às chaves JSON do rascunho).
const (
	FieldPointOfSale     = "pointOfSaleId"
	FieldTransactionType = "transactionType"
	FieldRemarks         = "remarks"
	FieldPaymentMethod   = "paymentMethod"
	FieldDiscount        = "discount"
	FieldDestination     = "destinationPointOfSaleId"
)

// ValidationResult é o resultado da validação completa de um rascunho.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Err converte o resultado em um ValidationError com o detalhe por campo (nil se válido).
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return apperror.NewFieldValidationError("El borrador tiene campos inválidos.", r.Errors)
}

// Validate roda todas as regras de campo e entre campos e coleta todas as violações.
// Quantidades por item não são inspecionadas: o Draft já garante a política por tipo.
func Validate(state domain.TransactionDraft) ValidationResult {
	errs := map[string]string{}

	if state.PointOfSaleID == 0 {
		errs[FieldPointOfSale] = "Debe seleccionar un punto de venta."
	}

	switch {
	case state.TransactionType == "":
		errs[FieldTransactionType] = "Debe seleccionar un tipo de transacción."
	case !state.TransactionType.Valid():
		errs[FieldTransactionType] = "Tipo de transacción no válido."
	}

	if strings.TrimSpace(state.Remarks) == "" {
		errs[FieldRemarks] = "Las observaciones son obligatorias."
	}

	switch state.TransactionType {
	case domain.TransactionSale:
		switch {
		case state.PaymentMethod == "":
			errs[FieldPaymentMethod] = "Debe seleccionar un método de pago."
		case !state.PaymentMethod.Valid():
			errs[FieldPaymentMethod] = "Método de pago no válido."
		}

		if state.Discount.IsNegative() {
			errs[FieldDiscount] = "El descuento no puede ser negativo."
		} else if len(state.Items) > 0 {
			subtotal := Subtotal(state.Items)
			if state.Discount.GreaterThan(subtotal) {
				errs[FieldDiscount] = fmt.Sprintf("El descuento no puede ser mayor al subtotal (%s).", FormatMoney(subtotal))
			}
		}

	case domain.TransactionTransfer:
		switch {
		case state.DestinationPointOfSaleID == 0:
			errs[FieldDestination] = "Debe seleccionar un punto de venta de destino."
		case state.DestinationPointOfSaleID == state.PointOfSaleID:
			errs[FieldDestination] = "El punto de venta de destino debe ser distinto al de origen."
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
