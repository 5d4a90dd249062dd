package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/classifier"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/pkg/gstin"
	"github.com/FACorreiaa/gst-filing/pkg/money"
)

var allInvoicesHeader = []any{
	"Invoice No", "Invoice Date", "Buyer GSTIN", "Buyer Name", "Place of Supply",
	"HSN Code", "Description", "Qty", "Taxable Value", "Tax Rate",
	"CGST", "SGST", "IGST", "Cess", "Total", "Type", "Errors",
}

var b2bHeader = []any{
	"Buyer GSTIN", "Invoice No", "Invoice Date", "Invoice Value", "Place of Supply",
	"Reverse Charge", "Taxable Value", "Tax Rate", "CGST", "SGST", "IGST", "Cess",
}

var b2csHeader = []any{
	"Type", "Place of Supply", "Tax Rate", "Taxable Value", "CGST", "SGST", "IGST", "Cess",
}

var hsnHeader = []any{
	"HSN/SAC Code", "Description", "UQC", "Qty", "Total Taxable Value",
	"Total CGST", "Total SGST", "Total IGST", "Total Cess", "Total Tax",
}

// WriteWorkbook builds the review workbook and writes it as an .xlsx stream.
// The All Invoices sheet is always present; the B2B, B2CS and HSN Summary
// sheets are only added when their section is non-empty.
func WriteWorkbook(w io.Writer, records []*invoice.Record, c *classifier.Classification) error {
	f := excelize.NewFile()
	defer f.Close()

	const first = "All Invoices"
	if err := f.SetSheetName(f.GetSheetName(0), first); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRows(f, first, allInvoicesHeader, invoiceRows(records)); err != nil {
		return err
	}

	if len(c.B2B) > 0 {
		if _, err := f.NewSheet("B2B"); err != nil {
			return fmt.Errorf("add sheet B2B: %w", err)
		}
		if err := writeRows(f, "B2B", b2bHeader, b2bRows(c.B2B)); err != nil {
			return err
		}
	}
	if len(c.B2CS) > 0 {
		if _, err := f.NewSheet("B2CS"); err != nil {
			return fmt.Errorf("add sheet B2CS: %w", err)
		}
		if err := writeRows(f, "B2CS", b2csHeader, b2csRows(c.B2CS)); err != nil {
			return err
		}
	}
	if len(c.HSN) > 0 {
		if _, err := f.NewSheet("HSN Summary"); err != nil {
			return fmt.Errorf("add sheet HSN Summary: %w", err)
		}
		if err := writeRows(f, "HSN Summary", hsnHeader, hsnRows(c.HSN)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func invoiceRows(records []*invoice.Record) [][]any {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		buyer := rec.BuyerGSTIN
		if buyer == "" {
			buyer = gstin.URP
		}
		typ := "B2CS"
		if classifier.IsB2B(rec) {
			typ = "B2B"
		}
		var msgs []string
		for _, is := range rec.Issues {
			msgs = append(msgs, is.Message)
		}
		rows = append(rows, []any{
			rec.InvoiceNo, rec.InvoiceDate, buyer, rec.BuyerName, rec.PlaceOfSupply,
			rec.HSNCode, rec.Description, money.Float2(rec.Quantity),
			money.Float2(rec.TaxableValue), money.Float2(rec.TaxRate),
			money.Float2(rec.CGST), money.Float2(rec.SGST), money.Float2(rec.IGST),
			money.Float2(rec.Cess), money.Float2(rec.Total), typ,
			strings.Join(msgs, "; "),
		})
	}
	return rows
}

func b2bRows(parties []classifier.B2BParty) [][]any {
	var rows [][]any
	for _, p := range parties {
		for _, inv := range p.Invoices {
			var det classifier.ItemDetails
			if len(inv.Items) > 0 {
				det = inv.Items[0].Details
			}
			rows = append(rows, []any{
				p.CTIN, inv.Number, inv.Date, inv.Value, inv.POS, inv.ReverseCharge,
				det.TaxableValue, det.Rate, det.CGST, det.SGST, det.IGST, det.Cess,
			})
		}
	}
	return rows
}

func b2csRows(entries []classifier.B2CSEntry) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.SupplyType, e.POS, e.Rate, e.TaxableValue, e.CGST, e.SGST, e.IGST, e.Cess,
		})
	}
	return rows
}

func hsnRows(entries []classifier.HSNEntry) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		totalTax := round2f(e.CGST + e.SGST + e.IGST + e.Cess)
		rows = append(rows, []any{
			e.HSN, e.Description, e.UQC, e.Quantity, e.TaxableValue,
			e.CGST, e.SGST, e.IGST, e.Cess, totalTax,
		})
	}
	return rows
}

func round2f(f float64) float64 {
	return money.Float2(decimal.NewFromFloat(f))
}
