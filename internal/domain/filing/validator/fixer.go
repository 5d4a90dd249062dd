package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/parser"
	"github.com/FACorreiaa/gst-filing/pkg/money"
)

// isoDateRe matches an ISO yyyy-mm-dd date that slipped past the parser.
var isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// fixer accumulates changes to a single record. The original value of each
// touched field is snapshotted exactly once, so repeated fixes still undo
// back to the parsed state.
type fixer struct {
	rec  *invoice.Record
	logs []string
}

func (f *fixer) snapshot(field string, old any) {
	if f.rec.Snapshot == nil {
		f.rec.Snapshot = make(map[string]any)
	}
	if _, seen := f.rec.Snapshot[field]; !seen {
		f.rec.Snapshot[field] = old
	}
}

func (f *fixer) setString(field string, dst *string, val, msg string) {
	if *dst == val {
		return
	}
	f.snapshot(field, *dst)
	*dst = val
	f.logs = append(f.logs, msg)
}

func (f *fixer) setDecimal(field string, dst *decimal.Decimal, val decimal.Decimal, msg string) {
	if dst.Equal(val) {
		return
	}
	f.snapshot(field, *dst)
	*dst = val
	f.logs = append(f.logs, msg)
}

// Fix applies the safe automatic corrections to a record in a fixed order:
// whitespace trimming, ISO date reformatting, tax-regime exclusivity, paisa
// rounding, then total recomputation from the corrected components. A record
// is marked fixed only when at least one field actually changed; no-op passes
// leave it untouched. Returns true when anything changed.
func Fix(rec *invoice.Record) bool {
	f := &fixer{rec: rec}

	f.setString(parser.FieldInvoiceNo, &rec.InvoiceNo,
		strings.TrimSpace(rec.InvoiceNo), "Trimmed whitespace from invoice number.")
	f.setString(parser.FieldBuyerGSTIN, &rec.BuyerGSTIN,
		strings.TrimSpace(rec.BuyerGSTIN), "Trimmed whitespace from buyer GSTIN.")
	f.setString(parser.FieldHSNCode, &rec.HSNCode,
		strings.TrimSpace(rec.HSNCode), "Trimmed whitespace from HSN code.")

	if !strings.Contains(rec.InvoiceDate, "/") {
		if m := isoDateRe.FindStringSubmatch(rec.InvoiceDate); m != nil {
			f.setString(parser.FieldInvoiceDate, &rec.InvoiceDate,
				fmt.Sprintf("%s/%s/%s", m[3], m[2], m[1]),
				fmt.Sprintf("Reformatted date from %s to DD/MM/YYYY.", m[0]))
		}
	}

	// When both regimes carry tax, the intra-state pair wins and IGST is
	// zeroed. Interstate sales on marketplace exports rarely also carry
	// CGST/SGST, so a populated pair is the stronger signal.
	hasIntra := rec.CGST.GreaterThan(regimeEpsilon) || rec.SGST.GreaterThan(regimeEpsilon)
	if hasIntra && rec.IGST.GreaterThan(regimeEpsilon) {
		f.setDecimal(parser.FieldIGST, &rec.IGST, decimal.Zero,
			"Zeroed IGST because CGST/SGST are present (intra-state sale).")
	}

	f.setDecimal(parser.FieldCGST, &rec.CGST, money.Round2(rec.CGST), "Rounded CGST to 2 decimals.")
	f.setDecimal(parser.FieldSGST, &rec.SGST, money.Round2(rec.SGST), "Rounded SGST to 2 decimals.")
	f.setDecimal(parser.FieldIGST, &rec.IGST, money.Round2(rec.IGST), "Rounded IGST to 2 decimals.")
	f.setDecimal(parser.FieldTaxableValue, &rec.TaxableValue, money.Round2(rec.TaxableValue),
		"Rounded taxable value to 2 decimals.")

	computed := money.Round2(rec.TaxableValue.Add(money.Round2(rec.TotalTax())).Add(rec.Cess))
	f.setDecimal(parser.FieldTotal, &rec.Total, computed,
		fmt.Sprintf("Recalculated total from ₹%s to ₹%s.",
			rec.Total.StringFixed(2), computed.StringFixed(2)))

	if len(f.logs) == 0 {
		return false
	}
	rec.Fixed = true
	rec.FixLog = append(rec.FixLog, f.logs...)
	return true
}

// FixAll runs Fix over every record and reports how many changed.
func FixAll(records []*invoice.Record) int {
	n := 0
	for _, rec := range records {
		if Fix(rec) {
			n++
		}
	}
	return n
}

// Undo restores every snapshotted field to its pre-fix value and clears the
// fix state. Restoration is all-or-nothing: a record without a snapshot is
// left untouched. Returns true when a restore happened.
func Undo(rec *invoice.Record) bool {
	if !rec.Fixed || len(rec.Snapshot) == 0 {
		return false
	}
	for field, old := range rec.Snapshot {
		switch field {
		case parser.FieldInvoiceNo:
			rec.InvoiceNo = old.(string)
		case parser.FieldInvoiceDate:
			rec.InvoiceDate = old.(string)
		case parser.FieldBuyerGSTIN:
			rec.BuyerGSTIN = old.(string)
		case parser.FieldHSNCode:
			rec.HSNCode = old.(string)
		case parser.FieldCGST:
			rec.CGST = old.(decimal.Decimal)
		case parser.FieldSGST:
			rec.SGST = old.(decimal.Decimal)
		case parser.FieldIGST:
			rec.IGST = old.(decimal.Decimal)
		case parser.FieldTaxableValue:
			rec.TaxableValue = old.(decimal.Decimal)
		case parser.FieldTotal:
			rec.Total = old.(decimal.Decimal)
		}
	}
	rec.Fixed = false
	rec.FixLog = nil
	rec.Snapshot = nil
	return true
}
