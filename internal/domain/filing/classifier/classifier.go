// Package classifier sorts validated invoice records into the GSTR-1 return
// sections: B2B (registered buyers, invoice level), B2CS (consumer sales,
// aggregated by state and rate) and the HSN-wise summary. The structs carry
// the portal's JSON field names so the generator can embed them directly.
package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/pkg/gstin"
	"github.com/FACorreiaa/gst-filing/pkg/money"
)

// Supply types for B2CS aggregation.
const (
	SupplyInter = "INTER"
	SupplyIntra = "INTRA"
)

// hsnUnknown buckets rows that arrived without an HSN code.
const hsnUnknown = "UNKNOWN"

// ItemDetails is the per-line tax breakup nested under itm_det.
type ItemDetails struct {
	TaxableValue float64 `json:"txval"`
	Rate         float64 `json:"rt"`
	IGST         float64 `json:"iamt"`
	CGST         float64 `json:"camt"`
	SGST         float64 `json:"samt"`
	Cess         float64 `json:"csamt"`
}

// Item is a numbered line within a B2B invoice.
type Item struct {
	Num     int         `json:"num"`
	Details ItemDetails `json:"itm_det"`
}

// B2BInvoice is one invoice to a registered buyer.
type B2BInvoice struct {
	Number        string  `json:"inum"`
	Date          string  `json:"idt"`
	Value         float64 `json:"val"`
	POS           string  `json:"pos"`
	ReverseCharge string  `json:"rchrg"`
	Items         []Item  `json:"itms"`
}

// B2BParty groups a buyer's invoices under their GSTIN (ctin).
type B2BParty struct {
	CTIN     string       `json:"ctin"`
	Invoices []B2BInvoice `json:"inv"`
}

// B2CSEntry is a consumer-sales aggregate for one state, rate and supply type.
type B2CSEntry struct {
	SupplyType   string  `json:"sply_ty"`
	Rate         float64 `json:"rt"`
	Type         string  `json:"typ"`
	POS          string  `json:"pos"`
	TaxableValue float64 `json:"txval"`
	IGST         float64 `json:"iamt"`
	CGST         float64 `json:"camt"`
	SGST         float64 `json:"samt"`
	Cess         float64 `json:"csamt"`
}

// HSNEntry is one row of the HSN-wise summary. Warnings carries data-quality
// notes for the bucket, such as mixed tax rates under one code.
type HSNEntry struct {
	Num          int      `json:"num"`
	HSN          string   `json:"hsn_sc"`
	Description  string   `json:"desc"`
	UQC          string   `json:"uqc"`
	Quantity     float64  `json:"qty"`
	TaxableValue float64  `json:"txval"`
	IGST         float64  `json:"iamt"`
	CGST         float64  `json:"camt"`
	SGST         float64  `json:"samt"`
	Cess         float64  `json:"csamt"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Classification holds the three return sections plus any data-quality
// warnings raised while grouping. Section order follows first appearance in
// the record set, so the output is stable for a given input.
type Classification struct {
	B2B      []B2BParty
	B2CS     []B2CSEntry
	HSN      []HSNEntry
	Warnings []string
}

// b2csAgg accumulates decimals for one B2CS group; amounts are rounded once
// when the entry is materialized, not per row.
type b2csAgg struct {
	supplyType string
	pos        string
	rate       decimal.Decimal
	txval      decimal.Decimal
	igst       decimal.Decimal
	cgst       decimal.Decimal
	sgst       decimal.Decimal
	cess       decimal.Decimal
}

type hsnAgg struct {
	hsn   string
	desc  string
	qty   decimal.Decimal
	rates []decimal.Decimal
	txval decimal.Decimal
	igst  decimal.Decimal
	cgst  decimal.Decimal
	sgst  decimal.Decimal
	cess  decimal.Decimal
}

// IsB2B reports whether a record belongs in the B2B section: a structurally
// complete buyer GSTIN that is not the unregistered sentinel.
func IsB2B(rec *invoice.Record) bool {
	g := rec.BuyerGSTIN
	return g != "" && g != gstin.URP && len(g) == 15
}

// Classify partitions records into the GSTR-1 sections. Every record lands in
// exactly one of B2B or B2CS, and every record contributes to the HSN
// summary. sellerStateCode is the filer's home state: B2CS rows with a blank
// place of supply default to it, and a group is INTRA when its place of
// supply matches it. Callers are expected to pass only records without
// validation errors; Classify itself does not filter.
func Classify(records []*invoice.Record, sellerStateCode string) *Classification {
	c := &Classification{Warnings: []string{}}

	b2bIdx := make(map[string]int)
	b2csIdx := make(map[string]*b2csAgg)
	var b2csOrder []string
	hsnIdx := make(map[string]*hsnAgg)
	var hsnOrder []string

	for _, rec := range records {
		if IsB2B(rec) {
			inv := B2BInvoice{
				Number:        rec.InvoiceNo,
				Date:          rec.InvoiceDate,
				Value:         money.Float2(rec.LineValue()),
				POS:           posOf(rec, rec.BuyerGSTIN[:2]),
				ReverseCharge: "N",
				Items: []Item{{
					Num: 1,
					Details: ItemDetails{
						TaxableValue: money.Float2(rec.TaxableValue),
						Rate:         money.Float2(rec.TaxRate),
						IGST:         money.Float2(rec.IGST),
						CGST:         money.Float2(rec.CGST),
						SGST:         money.Float2(rec.SGST),
						Cess:         money.Float2(rec.Cess),
					},
				}},
			}
			i, ok := b2bIdx[rec.BuyerGSTIN]
			if !ok {
				i = len(c.B2B)
				b2bIdx[rec.BuyerGSTIN] = i
				c.B2B = append(c.B2B, B2BParty{CTIN: rec.BuyerGSTIN})
			}
			c.B2B[i].Invoices = append(c.B2B[i].Invoices, inv)
		} else {
			pos := posOf(rec, sellerStateCode)
			supply := SupplyInter
			if pos == sellerStateCode {
				supply = SupplyIntra
			}
			key := fmt.Sprintf("%s_%s_%s", pos, rec.TaxRate.String(), supply)
			agg, ok := b2csIdx[key]
			if !ok {
				agg = &b2csAgg{supplyType: supply, pos: pos, rate: rec.TaxRate}
				b2csIdx[key] = agg
				b2csOrder = append(b2csOrder, key)
			}
			agg.txval = agg.txval.Add(rec.TaxableValue)
			agg.igst = agg.igst.Add(rec.IGST)
			agg.cgst = agg.cgst.Add(rec.CGST)
			agg.sgst = agg.sgst.Add(rec.SGST)
			agg.cess = agg.cess.Add(rec.Cess)
		}

		hsn := strings.TrimSpace(rec.HSNCode)
		if hsn == "" {
			hsn = hsnUnknown
		}
		agg, ok := hsnIdx[hsn]
		if !ok {
			desc := strings.TrimSpace(rec.Description)
			if desc == "" {
				desc = "Goods"
			}
			agg = &hsnAgg{hsn: hsn, desc: desc}
			hsnIdx[hsn] = agg
			hsnOrder = append(hsnOrder, hsn)
		}
		if !containsRate(agg.rates, rec.TaxRate) {
			agg.rates = append(agg.rates, rec.TaxRate)
		}
		agg.qty = agg.qty.Add(rec.Quantity)
		agg.txval = agg.txval.Add(rec.TaxableValue)
		agg.igst = agg.igst.Add(rec.IGST)
		agg.cgst = agg.cgst.Add(rec.CGST)
		agg.sgst = agg.sgst.Add(rec.SGST)
		agg.cess = agg.cess.Add(rec.Cess)
	}

	for _, key := range b2csOrder {
		agg := b2csIdx[key]
		c.B2CS = append(c.B2CS, B2CSEntry{
			SupplyType:   agg.supplyType,
			Rate:         money.Float2(agg.rate),
			Type:         "OE",
			POS:          agg.pos,
			TaxableValue: money.Float2(agg.txval),
			IGST:         money.Float2(agg.igst),
			CGST:         money.Float2(agg.cgst),
			SGST:         money.Float2(agg.sgst),
			Cess:         money.Float2(agg.cess),
		})
	}

	for n, hsn := range hsnOrder {
		agg := hsnIdx[hsn]
		var warnings []string
		if len(agg.rates) > 1 {
			msg := "Inconsistent tax rates found: " + rateList(agg.rates)
			warnings = append(warnings, msg)
			c.Warnings = append(c.Warnings, fmt.Sprintf("HSN %s: %s", agg.hsn, msg))
		}
		c.HSN = append(c.HSN, HSNEntry{
			Num:          n + 1,
			HSN:          agg.hsn,
			Description:  agg.desc,
			UQC:          "NOS",
			Quantity:     money.Float2(agg.qty),
			TaxableValue: money.Float2(agg.txval),
			IGST:         money.Float2(agg.igst),
			CGST:         money.Float2(agg.cgst),
			SGST:         money.Float2(agg.sgst),
			Cess:         money.Float2(agg.cess),
			Warnings:     warnings,
		})
	}

	return c
}

// Summary rolls a classification up into per-section and global totals for
// display and persistence.
type Summary struct {
	B2BCount      int     `json:"b2b_count"`
	B2BValue      float64 `json:"b2b_value"`
	B2CSCount     int     `json:"b2cs_count"`
	B2CSValue     float64 `json:"b2cs_value"`
	HSNCount      int     `json:"hsn_count"`
	TotalInvoices int     `json:"total_invoices"`
	TotalValue    float64 `json:"total_value"`
	TotalTaxable  float64 `json:"total_taxable"`
	TotalTax      float64 `json:"total_tax"`
}

// Summarize computes the section counts and global totals for a record set
// and its classification. Global totals accumulate unrounded and round once.
func Summarize(records []*invoice.Record, c *Classification) Summary {
	s := Summary{HSNCount: len(c.HSN), TotalInvoices: len(records)}

	var b2bValue float64
	for _, party := range c.B2B {
		s.B2BCount += len(party.Invoices)
		for _, inv := range party.Invoices {
			b2bValue += inv.Value
		}
	}
	s.B2CSCount = len(records) - s.B2BCount
	var b2csValue float64
	for _, e := range c.B2CS {
		b2csValue += e.TaxableValue
	}
	s.B2BValue = round2(b2bValue)
	s.B2CSValue = round2(b2csValue)

	totalValue := decimal.Zero
	totalTaxable := decimal.Zero
	totalTax := decimal.Zero
	for _, rec := range records {
		totalValue = totalValue.Add(rec.Total)
		totalTaxable = totalTaxable.Add(rec.TaxableValue)
		totalTax = totalTax.Add(rec.TotalTax()).Add(rec.Cess)
	}
	s.TotalValue = money.Float2(totalValue)
	s.TotalTaxable = money.Float2(totalTaxable)
	s.TotalTax = money.Float2(totalTax)
	return s
}

func round2(f float64) float64 {
	return money.Float2(decimal.NewFromFloat(f))
}

// posOf resolves the two-digit place-of-supply state code, falling back to
// fallback when the column was absent: the buyer GSTIN's state prefix for
// B2B rows, the seller's home state for B2CS rows.
func posOf(rec *invoice.Record, fallback string) string {
	if pos := strings.TrimSpace(rec.PlaceOfSupply); len(pos) >= 2 {
		return pos[:2]
	}
	return fallback
}

func containsRate(rates []decimal.Decimal, r decimal.Decimal) bool {
	for _, x := range rates {
		if x.Equal(r) {
			return true
		}
	}
	return false
}

func rateList(rates []decimal.Decimal) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strconv.FormatFloat(r.InexactFloat64(), 'f', -1, 64) + "%"
	}
	return strings.Join(parts, ", ")
}
