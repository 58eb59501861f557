package transaction

import (
	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
)

// DefaultQuantity é a quantidade usada na primeira inclusão de um candidato.
// Um ajuste começa em 0 ("sem alteração") até o operador informar o delta.
func DefaultQuantity(t domain.TransactionType) int {
	if t == domain.TransactionAdjustment {
		return 0
	}
	return 1
}

// AddItem inclui o candidato com a quantidade padrão do tipo.
func (d *Draft) AddItem(c domain.CandidateItem) (domain.ItemKey, error) {
	return d.AddItemQuantity(c, DefaultQuantity(d.state.TransactionType))
}

// AddItemQuantity inclui o candidato no rascunho. Se já existir uma linha com a
// mesma chave de identidade, a quantidade é somada à existente em vez de duplicar.
func (d *Draft) AddItemQuantity(c domain.CandidateItem, quantity int) (domain.ItemKey, error) {
	t := d.state.TransactionType
	if !t.Valid() {
		return "", apperror.NewValidationError("Selecione o tipo de transação antes de incluir itens.")
	}

	item := cartItemFromCandidate(t, c)
	if t != domain.TransactionRestock && item.InventoryID == 0 {
		return "", apperror.NewValidationError("O candidato não possui inventário no ponto de venda.")
	}
	if t == domain.TransactionRestock && item.InventoryID == 0 && item.ProductID == 0 {
		return "", apperror.NewValidationError("O candidato não possui produto nem inventário.")
	}

	key := domain.KeyFor(t, item)
	if idx := d.indexOf(key); idx >= 0 {
		return key, d.setQuantityAt(idx, d.state.Items[idx].Quantity+quantity)
	}

	if t != domain.TransactionAdjustment && quantity <= 0 {
		return "", apperror.NewValidationError("A quantidade deve ser positiva.")
	}
	item.Quantity = quantity
	d.state.Items = append(d.state.Items, item)
	return key, nil
}

// UpdateQuantity define a quantidade de uma linha. Para adjustment o valor é
// guardado como veio (inclusive 0 ou negativo); para os demais tipos um valor
// <= 0 remove a linha.
func (d *Draft) UpdateQuantity(key domain.ItemKey, value int) error {
	idx := d.indexOf(key)
	if idx < 0 {
		return apperror.NewNotFoundError("Item " + string(key) + " não está no rascunho.")
	}
	return d.setQuantityAt(idx, value)
}

// RemoveItem retira a linha incondicionalmente. Devolve false se a chave não existia.
func (d *Draft) RemoveItem(key domain.ItemKey) bool {
	idx := d.indexOf(key)
	if idx < 0 {
		return false
	}
	d.state.Items = append(d.state.Items[:idx], d.state.Items[idx+1:]...)
	return true
}

// Item devolve a linha identificada pela chave.
func (d *Draft) Item(key domain.ItemKey) (domain.CartItem, bool) {
	idx := d.indexOf(key)
	if idx < 0 {
		return domain.CartItem{}, false
	}
	return d.state.Items[idx], true
}

// Items devolve uma cópia das linhas atuais.
func (d *Draft) Items() []domain.CartItem {
	return cloneItems(d.state.Items)
}

func (d *Draft) setQuantityAt(idx int, value int) error {
	if d.state.TransactionType != domain.TransactionAdjustment && value <= 0 {
		d.state.Items = append(d.state.Items[:idx], d.state.Items[idx+1:]...)
		return nil
	}
	d.state.Items[idx].Quantity = value
	return nil
}

func (d *Draft) indexOf(key domain.ItemKey) int {
	for i, item := range d.state.Items {
		if domain.KeyFor(d.state.TransactionType, item) == key {
			return i
		}
	}
	return -1
}

func cartItemFromCandidate(t domain.TransactionType, c domain.CandidateItem) domain.CartItem {
	item := domain.CartItem{
		InventoryID:   c.InventoryID,
		ProductID:     c.ProductID,
		ProductName:   c.ProductName,
		ProductSKU:    c.ProductSKU,
		Barcode:       c.Barcode,
		StockQuantity: c.StockQuantity,
		Price:         c.Price,
	}
	// Candidatos da busca de inventário carregam o inventário no próprio ID.
	if t != domain.TransactionRestock && item.InventoryID == 0 {
		item.InventoryID = c.ID
	}
	return item
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
