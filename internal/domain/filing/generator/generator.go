// Package generator assembles the portal-ready GSTR-1 artifacts: the JSON
// return in the GST portal's upload schema and the XLSX review workbook.
package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/classifier"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

// DocEntry summarizes one contiguous series of issued documents.
type DocEntry struct {
	Num       int    `json:"num"`
	From      string `json:"from"`
	To        string `json:"to"`
	Total     int    `json:"totnum"`
	Cancelled int    `json:"cancel"`
	NetIssued int    `json:"net_issue"`
}

// DocDetail groups document series under a portal document-nature code.
// Code 1 is "Invoices for outward supply".
type DocDetail struct {
	DocNum int        `json:"doc_num"`
	Docs   []DocEntry `json:"docs"`
}

// DocIssue is the "Documents Issued" section of the return.
type DocIssue struct {
	DocDetails []DocDetail `json:"doc_det"`
}

// Return is the full GSTR-1 upload payload. CDNR is always present and empty
// because credit/debit notes are out of scope for marketplace sales exports.
type Return struct {
	GSTIN    string                 `json:"gstin"`
	Period   string                 `json:"fp"`
	B2B      []classifier.B2BParty  `json:"b2b"`
	B2CS     []classifier.B2CSEntry `json:"b2cs"`
	CDNR     []struct{}             `json:"cdnr"`
	HSN      []classifier.HSNEntry  `json:"hsn"`
	DocIssue DocIssue               `json:"doc_issue"`
}

// Build assembles the return for a seller GSTIN and MMYYYY period from an
// already-classified record set. The documents-issued range spans the
// lexicographically first and last invoice numbers, matching how the portal
// expects a single series to be reported.
func Build(records []*invoice.Record, c *classifier.Classification, sellerGSTIN, period string) *Return {
	invoiceNos := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.InvoiceNo != "" {
			invoiceNos = append(invoiceNos, rec.InvoiceNo)
		}
	}
	sort.Strings(invoiceNos)

	var from, to string
	if len(invoiceNos) > 0 {
		from = invoiceNos[0]
		to = invoiceNos[len(invoiceNos)-1]
	}

	ret := &Return{
		GSTIN:  sellerGSTIN,
		Period: period,
		B2B:    c.B2B,
		B2CS:   c.B2CS,
		CDNR:   []struct{}{},
		HSN:    c.HSN,
		DocIssue: DocIssue{
			DocDetails: []DocDetail{{
				DocNum: 1,
				Docs: []DocEntry{{
					Num:       1,
					From:      from,
					To:        to,
					Total:     len(invoiceNos),
					Cancelled: 0,
					NetIssued: len(invoiceNos),
				}},
			}},
		},
	}
	if ret.B2B == nil {
		ret.B2B = []classifier.B2BParty{}
	}
	if ret.B2CS == nil {
		ret.B2CS = []classifier.B2CSEntry{}
	}
	if ret.HSN == nil {
		ret.HSN = []classifier.HSNEntry{}
	}
	return ret
}

// WriteJSON emits the return as indented JSON, the format accepted by the
// portal's offline upload tool.
func WriteJSON(w io.Writer, ret *Return) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ret); err != nil {
		return fmt.Errorf("encode return: %w", err)
	}
	return nil
}

// FileName derives the conventional artifact name for a period, e.g.
// "GSTR1_012026.json".
func FileName(period, ext string) string {
	return fmt.Sprintf("GSTR1_%s.%s", period, ext)
}
