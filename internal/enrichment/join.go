package enrichment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"posconsole/internal/domain"
)

// UnknownSKU é o SKU exibido quando o produto não pôde ser resolvido.
const UnknownSKU = "N/A"

// UnknownPointOfSale é o ponto de venda de uma linha cujo inventário não foi encontrado.
const UnknownPointOfSale = "Punto de Venta desconocido"

// PointOfSaleLabel é o rótulo de um ponto de venda ausente da coleção de referência.
func PointOfSaleLabel(id int64) string { return fmt.Sprintf("Punto de Venta %d", id) }

// UserLabel é o rótulo de um usuário ausente da coleção de referência.
func UserLabel(id int64) string { return fmt.Sprintf("Usuario %d", id) }

// ProductLabel é o rótulo de um produto ausente da coleção de referência.
func ProductLabel(id int64) string { return fmt.Sprintf("Producto %d", id) }

// InventoryLabel é o rótulo usado quando nem o inventário foi encontrado.
func InventoryLabel(id int64) string { return fmt.Sprintf("Inventario %d", id) }

// Join produz as visões enriquecidas, na mesma ordem dos registros.
// É uma função pura: referências não resolvidas viram rótulos, nunca erro.
func Join(records []domain.TransactionRecord, snap Snapshot) []domain.EnrichedTransaction {
	out := make([]domain.EnrichedTransaction, 0, len(records))
	for _, rec := range records {
		out = append(out, joinRecord(rec, snap))
	}
	return out
}

func joinRecord(rec domain.TransactionRecord, snap Snapshot) domain.EnrichedTransaction {
	view := domain.EnrichedTransaction{
		ID:                       rec.ID,
		TransactionType:          rec.TransactionType,
		TransactionGroupID:       rec.TransactionGroupID,
		IsGrouped:                rec.IsGrouped,
		InventoryID:              rec.InventoryID,
		Quantity:                 rec.Quantity,
		UserID:                   rec.UserID,
		PaymentMethod:            rec.PaymentMethod,
		SourcePointOfSaleID:      rec.SourcePointOfSaleID,
		DestinationPointOfSaleID: rec.DestinationPointOfSaleID,
	}

	if rec.Remarks != nil {
		view.Remarks = *rec.Remarks
	}
	view.Date = rec.Date
	if view.Date == nil {
		view.Date = rec.CreatedAt
	}

	if rec.SourcePointOfSaleID != nil {
		view.SourcePointOfSaleName = snap.pointOfSaleName(*rec.SourcePointOfSaleID)
	}
	if rec.DestinationPointOfSaleID != nil {
		view.DestinationPointOfSaleName = snap.pointOfSaleName(*rec.DestinationPointOfSaleID)
	}
	if rec.UserID != nil {
		view.UserName = snap.userName(*rec.UserID)
	}

	if rec.IsGrouped {
		joinGroup(&view, rec, snap)
		return view
	}

	if rec.InventoryID != nil {
		line := resolveLine(*rec.InventoryID, nil, snap)
		view.ProductName = line.productName
		view.ProductSKU = line.productSKU
		view.PointOfSaleName = line.pointOfSaleName
		if line.pointOfSaleName == UnknownPointOfSale && rec.SourcePointOfSaleID != nil {
			view.PointOfSaleName = view.SourcePointOfSaleName
		}
	}
	return view
}

func joinGroup(view *domain.EnrichedTransaction, rec domain.TransactionRecord, snap Snapshot) {
	items := make([]domain.EnrichedItem, 0, len(rec.Items))
	totalQuantity := 0
	totalValue := decimal.Zero

	for _, item := range rec.Items {
		line := resolveLine(item.InventoryID, item.Inventory, snap)
		subtotal := line.unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		items = append(items, domain.EnrichedItem{
			InventoryID:     item.InventoryID,
			ProductID:       line.productID,
			Quantity:        item.Quantity,
			ProductName:     line.productName,
			ProductSKU:      line.productSKU,
			PointOfSaleName: line.pointOfSaleName,
			UnitPrice:       line.unitPrice,
			Subtotal:        subtotal,
		})

		totalQuantity += item.Quantity
		if rec.TransactionType == domain.TransactionSale {
			totalValue = totalValue.Add(subtotal)
		}
	}

	view.EnrichedItems = items
	view.TotalQuantity = &totalQuantity
	if rec.TransactionType == domain.TransactionSale {
		view.TotalValue = &totalValue
	}
}

type resolvedLine struct {
	productID       int64
	productName     string
	productSKU      string
	pointOfSaleName string
	unitPrice       decimal.Decimal
}

// resolveLine segue inventário -> produto -> ponto de venda. O inventário
// embutido no registro tem precedência sobre a coleção de referência.
func resolveLine(inventoryID int64, embedded *domain.Inventory, snap Snapshot) resolvedLine {
	var inv domain.Inventory
	found := false
	if embedded != nil {
		inv, found = *embedded, true
	} else {
		inv, found = snap.inventory(inventoryID)
	}

	if !found {
		return resolvedLine{
			productName:     InventoryLabel(inventoryID),
			productSKU:      UnknownSKU,
			pointOfSaleName: UnknownPointOfSale,
			unitPrice:       decimal.Zero,
		}
	}

	line := resolvedLine{
		productID:       inv.ProductID,
		pointOfSaleName: snap.pointOfSaleName(inv.PointOfSaleID),
		unitPrice:       decimal.Zero,
	}

	product, ok := snap.product(inv.ProductID)
	if !ok && inv.Product != nil {
		product, ok = *inv.Product, true
	}
	if !ok {
		line.productName = ProductLabel(inv.ProductID)
		line.productSKU = UnknownSKU
		return line
	}

	line.productName = product.Name
	line.productSKU = product.SKU
	if line.productSKU == "" {
		line.productSKU = UnknownSKU
	}
	if product.Price != nil {
		line.unitPrice = *product.Price
	}
	return line
}
