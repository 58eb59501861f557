// Package draftfile lê rascunhos de transação descritos em YAML, usados pelo txctl.
package draftfile

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"posconsole/internal/domain"
	"posconsole/internal/transaction"
)

// File é o conteúdo de um arquivo de rascunho.
//
//	transactionType: sale
//	pointOfSaleId: 1
//	paymentMethod: qr
//	discount: "10.50"
//	remarks: venta mostrador
//	items:
//	  - inventoryId: 10
//	    quantity: 2
//	    price: "100"
type File struct {
	TransactionType          domain.TransactionType `yaml:"transactionType"`
	PointOfSaleID            int64                  `yaml:"pointOfSaleId"`
	DestinationPointOfSaleID int64                  `yaml:"destinationPointOfSaleId"`
	PaymentMethod            domain.PaymentMethod   `yaml:"paymentMethod"`
	Discount                 string                 `yaml:"discount"`
	Remarks                  string                 `yaml:"remarks"`
	Items                    []Item                 `yaml:"items"`
}

// Item é uma linha do arquivo. Restock de produto sem inventário usa productId.
type Item struct {
	InventoryID int64  `yaml:"inventoryId"`
	ProductID   int64  `yaml:"productId"`
	ProductName string `yaml:"productName"`
	ProductSKU  string `yaml:"productSku"`
	Quantity    *int   `yaml:"quantity"`
	Price       string `yaml:"price"`
}

// Load decodifica um arquivo de rascunho, recusando chaves desconhecidas.
func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("arquivo de rascunho inválido: %w", err)
	}
	return f, nil
}

// LoadPath abre e decodifica o arquivo em path.
func LoadPath(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Load(fh)
}

// Draft monta o rascunho aplicando os mesmos mutadores usados pelo console,
// de modo que as regras de merge e quantidade por tipo valem também aqui.
func (f File) Draft() (*transaction.Draft, error) {
	d := transaction.NewDraft()
	if _, err := d.SetType(f.TransactionType); err != nil {
		return nil, err
	}
	d.SetPointOfSale(f.PointOfSaleID)
	d.SetDestination(f.DestinationPointOfSaleID)
	if err := d.SetPaymentMethod(f.PaymentMethod); err != nil {
		return nil, err
	}
	if f.Discount != "" {
		discount, err := decimal.NewFromString(f.Discount)
		if err != nil {
			return nil, fmt.Errorf("desconto inválido %q: %w", f.Discount, err)
		}
		d.SetDiscount(discount)
	}
	d.SetRemarks(f.Remarks)

	for i, item := range f.Items {
		candidate, err := item.candidate()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if item.Quantity != nil {
			_, err = d.AddItemQuantity(candidate, *item.Quantity)
		} else {
			_, err = d.AddItem(candidate)
		}
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return d, nil
}

func (it Item) candidate() (domain.CandidateItem, error) {
	c := domain.CandidateItem{
		ID:          it.InventoryID,
		InventoryID: it.InventoryID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		ProductSKU:  it.ProductSKU,
	}
	if it.Price != "" {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return domain.CandidateItem{}, fmt.Errorf("preço inválido %q: %w", it.Price, err)
		}
		c.Price = &price
	}
	return c, nil
}
