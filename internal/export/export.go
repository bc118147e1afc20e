// Package export writes the stock list to JSON and XLSX files.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

// Placeholders for fields left empty on an item.
const (
	MissingName        = "Nome não disponível"
	MissingDescription = "Descrição não disponível"
)

// SheetName is the worksheet holding the stock list in XLSX exports.
const SheetName = "Estoque"

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

var header = []any{"Nome", "Descrição", "Quantidade"}

// Record is one exported stock item.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// StockRecords keeps the stock items and fills in placeholders for blank
// names and descriptions.
func StockRecords(items []model.Item) []Record {
	records := make([]Record, 0, len(items))
	for _, it := range items {
		if it.Category != model.CategoryStock {
			continue
		}
		r := Record{Name: it.Name, Description: it.Description, Quantity: it.Quantity}
		if strings.TrimSpace(r.Name) == "" {
			r.Name = MissingName
		}
		if strings.TrimSpace(r.Description) == "" {
			r.Description = MissingDescription
		}
		records = append(records, r)
	}
	return records
}

// LoadStock reads the stock items from the database as export records.
func LoadStock(ctx context.Context, db *sql.DB) ([]Record, error) {
	items, err := store.ListItems(ctx, db, model.CategoryStock)
	if err != nil {
		return nil, fmt.Errorf("loading stock for export: %w", err)
	}
	return StockRecords(items), nil
}

// ValidFormat checks whether format is a supported export format.
func ValidFormat(format string) bool {
	return format == FormatJSON || format == FormatXLSX
}

// Write encodes records in the given format.
func Write(w io.Writer, format string, records []Record) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding JSON export: %w", err)
	}
	return nil
}

// WriteXLSX writes records to a workbook with a single sheet, a header row
// and one row per record.
func WriteXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Name, r.Description, r.Quantity}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}
