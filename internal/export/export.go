// Package export gera planilhas do histórico enriquecido. Registros agrupados
// produzem uma linha por item; registros simples, uma linha.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"posconsole/internal/domain"
)

// Format é o formato de saída da exportação.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName é o nome da planilha no arquivo XLSX.
const SheetName = "Transacciones"

// Header são as colunas da exportação.
var Header = []string{
	"ID", "Fecha", "Tipo", "Grupo", "Producto", "SKU", "Punto de Venta",
	"Origen", "Destino", "Cantidad", "Precio Unitario", "Subtotal",
	"Usuario", "Pago", "Observaciones",
}

// ParseFormat valida o formato pedido; vazio assume CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("formato de exportação desconhecido: %q", raw)
}

// ContentType devolve o tipo MIME do formato.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write grava as visões no formato pedido.
func Write(w io.Writer, format Format, views []domain.EnrichedTransaction) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, views)
	case FormatCSV:
		return WriteCSV(w, views)
	}
	return fmt.Errorf("formato de exportação desconhecido: %q", format)
}

// Rows achata as visões nas linhas da exportação, sem o cabeçalho.
func Rows(views []domain.EnrichedTransaction) [][]string {
	var rows [][]string
	for _, v := range views {
		base := baseRow(v)
		if !v.IsGrouped {
			row := append([]string{}, base...)
			row[4] = v.ProductName
			row[5] = v.ProductSKU
			row[6] = v.PointOfSaleName
			row[9] = intOrEmpty(v.Quantity)
			rows = append(rows, row)
			continue
		}
		for _, item := range v.EnrichedItems {
			row := append([]string{}, base...)
			row[4] = item.ProductName
			row[5] = item.ProductSKU
			row[6] = item.PointOfSaleName
			row[9] = strconv.Itoa(item.Quantity)
			if v.TransactionType == domain.TransactionSale {
				row[10] = item.UnitPrice.StringFixed(2)
				row[11] = item.Subtotal.StringFixed(2)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func baseRow(v domain.EnrichedTransaction) []string {
	row := make([]string, len(Header))
	row[0] = strconv.FormatInt(v.ID, 10)
	if v.Date != nil {
		row[1] = v.Date.Format(time.RFC3339)
	}
	row[2] = string(v.TransactionType)
	row[3] = v.TransactionGroupID
	row[7] = v.SourcePointOfSaleName
	row[8] = v.DestinationPointOfSaleName
	row[12] = v.UserName
	row[13] = v.PaymentMethod
	row[14] = v.Remarks
	return row
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// WriteCSV grava o cabeçalho e as linhas em CSV.
func WriteCSV(w io.Writer, views []domain.EnrichedTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	if err := cw.WriteAll(Rows(views)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX grava o cabeçalho e as linhas em uma planilha XLSX.
func WriteXLSX(w io.Writer, views []domain.EnrichedTransaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	write := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(SheetName, cell, &row)
	}

	if err := write(1, Header); err != nil {
		return err
	}
	for i, values := range Rows(views) {
		if err := write(i+2, values); err != nil {
			return fmt.Errorf("linha %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
