// Package invoice defines the canonical invoice record the filing pipeline
// operates on, along with the validation issue and platform types shared by
// every stage.
package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Platform identifies the marketplace a sales report came from. Detection is
// heuristic; a wrong tag degrades column mapping but never fails parsing.
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
	// PlatformCustom is the generic tax-format fallback for reports that
	// carry standard GST columns without a marketplace signature.
	PlatformCustom Platform = "custom"
	PlatformOther  Platform = "other"
)

// Severity ranks a validation issue. Errors block document generation;
// warnings and info are surfaced for review but never block.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding attached to a record. Issues are
// immutable once attached; re-validation replaces the whole list.
type Issue struct {
	Field      string   `json:"field"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Record is the canonical invoice row. It is created by the parser, has its
// issue list replaced by the validator, and is mutated in place by the
// auto-fixer, which keeps an undo snapshot of every field it touches.
type Record struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNo     string          `json:"invoice_no"`
	InvoiceDate   string          `json:"invoice_date"` // DD/MM/YYYY display form
	BuyerGSTIN    string          `json:"buyer_gstin"`
	BuyerName     string          `json:"buyer_name"`
	PlaceOfSupply string          `json:"place_of_supply"`
	HSNCode       string          `json:"hsn_code"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	Cess          decimal.Decimal `json:"cess"`
	Total         decimal.Decimal `json:"total"`
	Platform      Platform        `json:"platform"`
	Issues        []Issue         `json:"issues"`

	// Auto-fix state. Snapshot accumulates across fix passes and is the
	// basis for all-or-nothing undo.
	Fixed    bool           `json:"fixed,omitempty"`
	FixLog   []string       `json:"fix_log,omitempty"`
	Snapshot map[string]any `json:"-"`
}

// HasSeverity reports whether any attached issue carries the given severity.
func (r *Record) HasSeverity(s Severity) bool {
	for _, is := range r.Issues {
		if is.Severity == s {
			return true
		}
	}
	return false
}

// TotalTax is the sum of the three tax components, unrounded.
func (r *Record) TotalTax() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST)
}

// LineValue is taxable value plus all tax components plus cess, unrounded.
// Classifier output rounds it at the point of emission.
func (r *Record) LineValue() decimal.Decimal {
	return r.TaxableValue.Add(r.TotalTax()).Add(r.Cess)
}

// ErrorCount counts error-severity issues across a record set.
func ErrorCount(records []*Record) int {
	n := 0
	for _, r := range records {
		for _, is := range r.Issues {
			if is.Severity == SeverityError {
				n++
			}
		}
	}
	return n
}
