package parser

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

// Canonical field names, used as keys in resolution results and undo
// snapshots. They match the record's JSON tags.
const (
	FieldInvoiceNo     = "invoice_no"
	FieldInvoiceDate   = "invoice_date"
	FieldBuyerGSTIN    = "buyer_gstin"
	FieldBuyerName     = "buyer_name"
	FieldPlaceOfSupply = "place_of_supply"
	FieldHSNCode       = "hsn_code"
	FieldDescription   = "description"
	FieldQuantity      = "quantity"
	FieldTaxableValue  = "taxable_value"
	FieldTaxRate       = "tax_rate"
	FieldCGST          = "cgst"
	FieldSGST          = "sgst"
	FieldIGST          = "igst"
	FieldCess          = "cess"
	FieldTotal         = "total"
)

// fieldOrder fixes the iteration order for resolution and diagnostics.
var fieldOrder = []string{
	FieldInvoiceNo, FieldInvoiceDate, FieldBuyerGSTIN, FieldBuyerName,
	FieldPlaceOfSupply, FieldHSNCode, FieldDescription, FieldQuantity,
	FieldTaxableValue, FieldTaxRate, FieldCGST, FieldSGST, FieldIGST,
	FieldCess, FieldTotal,
}

// columnMap lists header-name candidates per canonical field, most specific
// first. Resolution tries candidates in order: exact match wins over
// substring match, and the first hit wins.
type columnMap map[string][]string

var amazonMap = columnMap{
	FieldInvoiceNo:     {"invoice number", "external invoice id"},
	FieldInvoiceDate:   {"invoice date", "order date"},
	FieldBuyerGSTIN:    {"buyer gstin", "customer gstin"},
	FieldBuyerName:     {"buyer name", "customer name"},
	FieldPlaceOfSupply: {"ship-to state", "place of supply"},
	FieldHSNCode:       {"hsn/sac", "hsn code"},
	FieldDescription:   {"product description", "title"},
	FieldQuantity:      {"quantity", "qty"},
	FieldTaxableValue:  {"taxable value", "net amount"},
	FieldTaxRate:       {"tax rate", "gst rate"},
	FieldCGST:          {"cgst amount", "central tax"},
	FieldSGST:          {"sgst amount", "state tax"},
	FieldIGST:          {"igst amount", "integrated tax"},
	FieldCess:          {"cess amount", "compensation cess"},
	FieldTotal:         {"invoice amount", "total amount"},
}

var flipkartMap = columnMap{
	FieldInvoiceNo:     {"seller invoice no", "invoice no"},
	FieldInvoiceDate:   {"seller invoice date", "invoice date"},
	FieldBuyerGSTIN:    {"buyer gstin", "gstin"},
	FieldBuyerName:     {"buyer name", "customer"},
	FieldPlaceOfSupply: {"delivery state", "pos"},
	FieldHSNCode:       {"hsn code", "hsn"},
	FieldDescription:   {"product title", "description"},
	FieldQuantity:      {"quantity", "qty"},
	FieldTaxableValue:  {"taxable value", "item taxable amount"},
	FieldTaxRate:       {"tax rate", "gst rate"},
	FieldCGST:          {"cgst"},
	FieldSGST:          {"sgst"},
	FieldIGST:          {"igst"},
	FieldCess:          {"tcs/cess", "cess"},
	FieldTotal:         {"total amount", "invoice value"},
}

var genericMap = columnMap{
	FieldInvoiceNo:     {"invoice no", "bill no", "document number", "invoice number"},
	FieldInvoiceDate:   {"invoice date", "date", "bill date"},
	FieldBuyerGSTIN:    {"gstin", "buyer gstin", "tax id", "recipient gst"},
	FieldBuyerName:     {"buyer name", "customer name", "party name"},
	FieldPlaceOfSupply: {"place of supply", "state", "pos", "supply state"},
	FieldHSNCode:       {"hsn", "sac", "commodity code"},
	FieldDescription:   {"description", "item", "particulars"},
	FieldQuantity:      {"qty", "quantity", "units"},
	FieldTaxableValue:  {"taxable value", "taxable amt", "assessable value"},
	FieldTaxRate:       {"rate", "tax %", "gst %"},
	FieldCGST:          {"cgst", "central gst"},
	FieldSGST:          {"sgst", "state gst"},
	FieldIGST:          {"igst", "integrated gst"},
	FieldCess:          {"cess"},
	FieldTotal:         {"total", "net amount", "grand total"},
}

// mapFor selects the column map for a detected platform. The generic map
// serves both the custom tax format and unknown reports.
func mapFor(p invoice.Platform) columnMap {
	switch p {
	case invoice.PlatformAmazon:
		return amazonMap
	case invoice.PlatformFlipkart:
		return flipkartMap
	default:
		return genericMap
	}
}

// ResolvedColumn records how (or whether) a canonical field was bound to a
// header column, for diagnostics and tests.
type ResolvedColumn struct {
	Field     string
	Index     int    // -1 when no candidate matched
	Candidate string // the candidate that matched
	Exact     bool   // true for an exact header match, false for substring
	Hint      string // closest header by edit distance when unresolved
}

// resolveColumns binds every canonical field to a column index. Per field:
// first exact case-insensitive match across candidates in order, then first
// substring match; the first hit wins, -1 when none. Unresolved fields get a
// fuzzy closest-header hint for diagnostics only.
func resolveColumns(headers []string, m columnMap) []ResolvedColumn {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]ResolvedColumn, 0, len(fieldOrder))
	for _, field := range fieldOrder {
		rc := ResolvedColumn{Field: field, Index: -1}
		for _, cand := range m[field] {
			target := strings.ToLower(cand)
			if idx := indexOf(lowered, target); idx >= 0 {
				rc.Index, rc.Candidate, rc.Exact = idx, cand, true
				break
			}
			if idx := indexContaining(lowered, target); idx >= 0 {
				rc.Index, rc.Candidate = idx, cand
				break
			}
		}
		if rc.Index < 0 && len(m[field]) > 0 {
			rc.Hint = closestHeader(m[field][0], headers)
		}
		out = append(out, rc)
	}
	return out
}

func indexOf(headers []string, target string) int {
	for i, h := range headers {
		if h == target {
			return i
		}
	}
	return -1
}

func indexContaining(headers []string, target string) int {
	for i, h := range headers {
		if strings.Contains(h, target) {
			return i
		}
	}
	return -1
}

// closestHeader suggests the header nearest to the field's primary candidate.
// It never influences resolution; it only helps a human repair the source
// file or the mapping table.
func closestHeader(candidate string, headers []string) string {
	ranks := fuzzy.RankFindNormalizedFold(candidate, headers)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}

// columnIndex extracts the resolved index for a field, -1 when unresolved.
func columnIndex(cols []ResolvedColumn, field string) int {
	for _, c := range cols {
		if c.Field == field {
			return c.Index
		}
	}
	return -1
}
