package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    invoice.Platform
	}{
		{
			"amazon settlement report",
			[]string{"Order-ID", "ASIN", "SKU", "Fulfillment", "Invoice Amount"},
			invoice.PlatformAmazon,
		},
		{
			"flipkart sales report",
			[]string{"Order ID", "FSN", "Product Title", "Seller Invoice No"},
			invoice.PlatformFlipkart,
		},
		{
			"generic gst export",
			[]string{"Invoice No", "Invoice Date", "GSTIN", "Taxable Value", "CGST"},
			invoice.PlatformCustom,
		},
		{
			"no signatures but tax keyword falls back to custom",
			[]string{"Bill No", "Date", "Party", "Tax Amount", "Net"},
			invoice.PlatformCustom,
		},
		{
			"nothing recognizable",
			[]string{"A", "B", "C", "D", "E"},
			invoice.PlatformOther,
		},
		{
			// "order id" matches flipkart, but amazon has two hits.
			"higher score wins",
			[]string{"Order ID", "ASIN", "Amazon Fee", "Amount"},
			invoice.PlatformAmazon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := DetectPlatform(tt.headers)
			assert.Equal(t, tt.want, det.Platform, "scores: %v matched: %v", det.Scores, det.Matched)
		})
	}
}

func TestDetectPlatform_TieKeepsDeclaredOrder(t *testing.T) {
	// One amazon keyword and one flipkart keyword: amazon is declared first
	// and a tie must not displace it.
	det := DetectPlatform([]string{"ASIN", "FSN"})
	assert.Equal(t, invoice.PlatformAmazon, det.Platform)
	assert.Equal(t, 1, det.Scores[invoice.PlatformAmazon])
	assert.Equal(t, 1, det.Scores[invoice.PlatformFlipkart])
}

func TestDetectPlatform_Diagnostics(t *testing.T) {
	det := DetectPlatform([]string{"ASIN", "SKU", "Order-ID"})
	assert.Equal(t, 3, det.Scores[invoice.PlatformAmazon])
	assert.ElementsMatch(t, []string{"asin", "sku", "order-id"}, det.Matched)
}

func TestFindHeaderRow(t *testing.T) {
	t.Run("skips sparse preamble", func(t *testing.T) {
		rows := [][]string{
			{"Sales Report", "", "", "", "", ""},
			{"Period:", "Jan 2026", "", "", "", ""},
			{"Invoice No", "Date", "GSTIN", "Taxable", "CGST", "SGST"},
			{"INV-1", "01/01/2026", "", "100", "9", "9"},
		}
		assert.Equal(t, 2, FindHeaderRow(rows))
	})

	t.Run("defaults to first row when all sparse", func(t *testing.T) {
		rows := [][]string{{"a", "b"}, {"c", "d"}}
		assert.Equal(t, 0, FindHeaderRow(rows))
	})

	t.Run("scan stops after twenty rows", func(t *testing.T) {
		rows := make([][]string, 30)
		for i := range rows {
			rows[i] = []string{"x", "", "", "", ""}
		}
		rows[25] = []string{"a", "b", "c", "d", "e"}
		assert.Equal(t, 0, FindHeaderRow(rows))
	})
}
