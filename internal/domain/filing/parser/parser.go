// Package parser turns raw spreadsheet grids into canonical invoice records.
// It detects the platform's column layout, resolves each canonical field to a
// column, and coerces loosely-typed cells into the record's field types.
package parser

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/sniffer"
)

// minRowCells is the inclusion threshold: shorter rows are footer/noise.
const minRowCells = 3

var one = decimal.NewFromInt(1)

// Result carries the parsed records plus everything a caller needs to show
// why the file parsed the way it did.
type Result struct {
	Records   []*invoice.Record
	Platform  invoice.Platform
	Detection sniffer.Detection
	Columns   []ResolvedColumn

	TotalRows   int // data rows seen after the header
	ParsedRows  int
	SkippedRows int
}

// Parse maps a raw cell grid into invoice records. The header row is the
// first non-sparse row; the platform detected from it selects the column
// mapping. Rows without an invoice number are treated as non-data rows
// (totals, footers), not as errors. A grid too small to hold a header and a
// data row yields an empty result.
func Parse(grid [][]Cell) *Result {
	res := &Result{Platform: invoice.PlatformOther}
	if len(grid) < 2 {
		return res
	}

	display := make([][]string, len(grid))
	for i, row := range grid {
		display[i] = make([]string, len(row))
		for j, c := range row {
			display[i][j] = c.String()
		}
	}

	headerIdx := sniffer.FindHeaderRow(display)
	headers := make([]string, len(display[headerIdx]))
	for i, h := range display[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	res.Detection = sniffer.DetectPlatform(headers)
	res.Platform = res.Detection.Platform
	res.Columns = resolveColumns(headers, mapFor(res.Platform))

	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]
		res.TotalRows++

		rec := parseRow(row, res.Columns, res.Platform)
		if rec == nil {
			res.SkippedRows++
			continue
		}
		res.Records = append(res.Records, rec)
		res.ParsedRows++
	}

	return res
}

// parseRow builds one record, or nil when the row is not a data row.
func parseRow(row []Cell, cols []ResolvedColumn, platform invoice.Platform) *invoice.Record {
	if len(row) < minRowCells {
		return nil
	}

	at := func(field string) Cell {
		idx := columnIndex(cols, field)
		if idx < 0 || idx >= len(row) {
			return Empty
		}
		return row[idx]
	}

	invoiceNo := trimmed(at(FieldInvoiceNo))
	if invoiceNo == "" {
		return nil
	}

	taxable := coerceAmount(at(FieldTaxableValue))
	cgst := coerceAmount(at(FieldCGST))
	sgst := coerceAmount(at(FieldSGST))
	igst := coerceAmount(at(FieldIGST))
	cess := coerceAmount(at(FieldCess))

	total := coerceAmount(at(FieldTotal))
	if total.IsZero() {
		total = taxable.Add(cgst).Add(sgst).Add(igst).Add(cess)
	}

	qty := one
	if columnIndex(cols, FieldQuantity) >= 0 {
		qty = coerceAmount(at(FieldQuantity))
	}

	return &invoice.Record{
		ID:            uuid.New(),
		InvoiceNo:     invoiceNo,
		InvoiceDate:   coerceDate(at(FieldInvoiceDate)),
		BuyerGSTIN:    strings.ToUpper(trimmed(at(FieldBuyerGSTIN))),
		BuyerName:     trimmed(at(FieldBuyerName)),
		PlaceOfSupply: trimmed(at(FieldPlaceOfSupply)),
		HSNCode:       trimmed(at(FieldHSNCode)),
		Description:   trimmed(at(FieldDescription)),
		Quantity:      qty,
		TaxableValue:  taxable,
		TaxRate:       coerceAmount(at(FieldTaxRate)),
		CGST:          cgst,
		SGST:          sgst,
		IGST:          igst,
		Cess:          cess,
		Total:         total,
		Platform:      platform,
		Issues:        []invoice.Issue{},
	}
}
