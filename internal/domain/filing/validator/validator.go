// Package validator applies the GSTR-1 filing rules to invoice records. Rules
// never abort the pipeline: every finding is attached to its record as an
// issue with a severity, and callers decide what blocks on the aggregate.
package validator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/parser"
	"github.com/FACorreiaa/gst-filing/pkg/gstin"
	"github.com/FACorreiaa/gst-filing/pkg/money"
)

// maxInvoiceNoLen is the portal's invoice number limit.
const maxInvoiceNoLen = 16

// highValueThreshold flags B2C invoices large enough to look like
// misclassified B2B transactions.
var highValueThreshold = decimal.NewFromInt(250000)

// taxTolerance is the ₹1 slack allowed on computed tax and total checks.
var taxTolerance = decimal.NewFromInt(1)

// regimeEpsilon ignores sub-paisa noise when deciding whether a tax
// component is "present".
var regimeEpsilon = decimal.NewFromFloat(0.01)

var numericRe = regexp.MustCompile(`^\d+$`)

// Validate replaces every record's issue list with the findings of the full
// rule set against the given MMYYYY filing period. Validation is
// non-cumulative: re-running on an unchanged set produces an identical list.
func Validate(records []*invoice.Record, filingPeriod string) {
	month, year := parsePeriod(filingPeriod)
	for _, rec := range records {
		rec.Issues = validateRecord(rec, filingPeriod, month, year)
	}
}

// DefaultChunkSize bounds how many records are validated between progress
// yields when the caller does not pick a size.
const DefaultChunkSize = 200

// ProgressFunc reports validation progress as records complete.
type ProgressFunc func(done, total int)

// ValidateWithProgress behaves like Validate but processes the set in chunks
// of chunkSize (DefaultChunkSize when <= 0), invoking progress and honoring
// ctx between chunks. Cancellation discards nothing already written:
// per-record issue replacement is atomic, so a caller that aborts mid-pass
// must re-run Validate before trusting the set.
func ValidateWithProgress(ctx context.Context, records []*invoice.Record, filingPeriod string, chunkSize int, progress ProgressFunc) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	month, year := parsePeriod(filingPeriod)
	total := len(records)
	for start := 0; start < total; start += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + chunkSize
		if end > total {
			end = total
		}
		for _, rec := range records[start:end] {
			rec.Issues = validateRecord(rec, filingPeriod, month, year)
		}
		if progress != nil {
			progress(end, total)
		}
	}
	return nil
}

func parsePeriod(p string) (month, year int) {
	if len(p) != 6 {
		return 0, 0
	}
	month, _ = strconv.Atoi(p[:2])
	year, _ = strconv.Atoi(p[2:])
	return month, year
}

func validateRecord(rec *invoice.Record, period string, month, year int) []invoice.Issue {
	issues := make([]invoice.Issue, 0, 4)

	// 1. Invoice number.
	if strings.TrimSpace(rec.InvoiceNo) == "" {
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldInvoiceNo,
			Message:    "Invoice number is required",
			Severity:   invoice.SeverityError,
			Suggestion: `Ensure the "Invoice No" column is correctly mapped or populated.`,
		})
	} else if len(rec.InvoiceNo) > maxInvoiceNoLen {
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldInvoiceNo,
			Message:    "Invoice number is too long (max 16 chars)",
			Severity:   invoice.SeverityWarning,
			Suggestion: "GSTR-1 only allows 16 characters for invoice numbers.",
		})
	}

	// 2. Invoice date vs filing period.
	if strings.TrimSpace(rec.InvoiceDate) == "" {
		issues = append(issues, invoice.Issue{
			Field:    parser.FieldInvoiceDate,
			Message:  "Invoice date is missing",
			Severity: invoice.SeverityError,
		})
	} else if _, m, y, ok := splitDate(rec.InvoiceDate); !ok || m != month || y != year {
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldInvoiceDate,
			Message:    fmt.Sprintf("Invoice date (%s) is outside selected period (%s)", rec.InvoiceDate, period),
			Severity:   invoice.SeverityError,
			Suggestion: fmt.Sprintf("Did you mean %02d/%d?", month, year),
		})
	}

	// 3. Buyer GSTIN structure and checksum.
	if rec.BuyerGSTIN != "" && rec.BuyerGSTIN != gstin.URP && !gstin.Valid(rec.BuyerGSTIN) {
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldBuyerGSTIN,
			Message:    "Invalid GSTIN format or checksum",
			Severity:   invoice.SeverityError,
			Suggestion: "Check for typos or verify the GSTIN on the portal.",
		})
	}

	// 4. Taxable value.
	if !rec.TaxableValue.IsPositive() {
		issues = append(issues, invoice.Issue{
			Field:    parser.FieldTaxableValue,
			Message:  "Taxable value must be greater than 0",
			Severity: invoice.SeverityError,
		})
	}

	// 5. Tax-regime exclusivity.
	hasIGST := rec.IGST.GreaterThan(regimeEpsilon)
	hasCGST := rec.CGST.GreaterThan(regimeEpsilon)
	hasSGST := rec.SGST.GreaterThan(regimeEpsilon)
	if hasIGST && (hasCGST || hasSGST) {
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldIGST,
			Message:    "Both IGST and CGST/SGST present",
			Severity:   invoice.SeverityError,
			Suggestion: "Choose only one tax type: IGST for interstate, CGST+SGST for local.",
		})
	}

	// 6. Tax amount vs rate.
	actualTax := money.Round2(rec.TotalTax())
	if rec.TaxRate.IsPositive() {
		expected := money.ExpectedTax(rec.TaxableValue, rec.TaxRate)
		if actualTax.Sub(expected).Abs().GreaterThan(taxTolerance) {
			issues = append(issues, invoice.Issue{
				Field: parser.FieldTaxRate,
				Message: fmt.Sprintf("Tax mismatch: expected ₹%s, got ₹%s",
					expected.StringFixed(2), actualTax.StringFixed(2)),
				Severity:   invoice.SeverityWarning,
				Suggestion: "Verify if the tax rate or taxable value is correctly calculated.",
			})
		}
	}

	// 7. Total consistency.
	computedTotal := money.Round2(rec.TaxableValue.Add(actualTax).Add(rec.Cess))
	statedTotal := money.Round2(rec.Total)
	if computedTotal.Sub(statedTotal).Abs().GreaterThan(taxTolerance) {
		issues = append(issues, invoice.Issue{
			Field: parser.FieldTotal,
			Message: fmt.Sprintf("Invoice total mismatch: computed ₹%s, but file says ₹%s",
				computedTotal.String(), statedTotal.String()),
			Severity:   invoice.SeverityWarning,
			Suggestion: "Check if there are other charges or discounts missing from the mapping.",
		})
	}

	// 8. HSN/SAC code.
	switch hsn := strings.TrimSpace(rec.HSNCode); {
	case hsn == "":
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldHSNCode,
			Message:    "HSN/SAC code is missing",
			Severity:   invoice.SeverityWarning,
			Suggestion: "HSN is mandatory for GSTR-1 filings.",
		})
	case !numericRe.MatchString(hsn):
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldHSNCode,
			Message:    "HSN must be numeric",
			Severity:   invoice.SeverityError,
			Suggestion: "Remove any non-numeric characters from the HSN code.",
		})
	case len(hsn) < 4 || len(hsn) > 8:
		issues = append(issues, invoice.Issue{
			Field:    parser.FieldHSNCode,
			Message:  "HSN code should be 4-8 digits",
			Severity: invoice.SeverityWarning,
		})
	}

	// 9. High-value invoice without a buyer GSTIN.
	if rec.TaxableValue.GreaterThan(highValueThreshold) && rec.BuyerGSTIN == "" {
		issues = append(issues, invoice.Issue{
			Field:      parser.FieldBuyerGSTIN,
			Message:    "High value B2C invoice",
			Severity:   invoice.SeverityInfo,
			Suggestion: "Ensure this is not a B2B transaction that requires a GSTIN.",
		})
	}

	return issues
}

// splitDate parses a DD/MM/YYYY display date.
func splitDate(s string) (d, m, y int, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if d, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if m, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if y, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return d, m, y, true
}

// Summary buckets every record into exactly one severity tier: a row with an
// error counts as an error row no matter what else it carries, and so on
// down. The four row counts always sum to Total.
type Summary struct {
	TotalErrors   int
	TotalWarnings int
	TotalInfo     int
	ErrorRows     int
	WarningRows   int
	InfoRows      int
	CleanRows     int
	Total         int
}

// Summarize computes aggregate issue counts over a validated record set.
func Summarize(records []*invoice.Record) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		for _, is := range rec.Issues {
			switch is.Severity {
			case invoice.SeverityError:
				s.TotalErrors++
			case invoice.SeverityWarning:
				s.TotalWarnings++
			case invoice.SeverityInfo:
				s.TotalInfo++
			}
		}
		switch {
		case rec.HasSeverity(invoice.SeverityError):
			s.ErrorRows++
		case rec.HasSeverity(invoice.SeverityWarning):
			s.WarningRows++
		case rec.HasSeverity(invoice.SeverityInfo):
			s.InfoRows++
		default:
			s.CleanRows++
		}
	}
	return s
}
