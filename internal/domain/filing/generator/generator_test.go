package generator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/classifier"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleRecords() []*invoice.Record {
	b2b := &invoice.Record{
		ID:            uuid.New(),
		InvoiceNo:     "INV-002",
		InvoiceDate:   "10/01/2026",
		BuyerGSTIN:    "27AAPFU0939F1ZV",
		BuyerName:     "Maple Traders",
		PlaceOfSupply: "27-Maharashtra",
		HSNCode:       "6109",
		Description:   "Cotton T-Shirt",
		Quantity:      dec("1"),
		TaxableValue:  dec("1000"),
		TaxRate:       dec("18"),
		CGST:          dec("90"),
		SGST:          dec("90"),
		Total:         dec("1180"),
		Platform:      invoice.PlatformCustom,
		Issues:        []invoice.Issue{},
	}
	b2c := &invoice.Record{
		ID:            uuid.New(),
		InvoiceNo:     "INV-001",
		InvoiceDate:   "12/01/2026",
		PlaceOfSupply: "29-Karnataka",
		HSNCode:       "6109",
		Description:   "Cotton T-Shirt",
		Quantity:      dec("2"),
		TaxableValue:  dec("500"),
		TaxRate:       dec("18"),
		IGST:          dec("90"),
		Total:         dec("590"),
		Platform:      invoice.PlatformCustom,
		Issues:        []invoice.Issue{},
	}
	return []*invoice.Record{b2b, b2c}
}

func TestBuild(t *testing.T) {
	records := sampleRecords()
	c := classifier.Classify(records, "29")
	ret := Build(records, c, "29AAPFU0939F1ZR", "012026")

	assert.Equal(t, "29AAPFU0939F1ZR", ret.GSTIN)
	assert.Equal(t, "012026", ret.Period)
	assert.Len(t, ret.B2B, 1)
	assert.Len(t, ret.B2CS, 1)
	assert.Len(t, ret.HSN, 1)
	assert.NotNil(t, ret.CDNR)
	assert.Empty(t, ret.CDNR)

	require.Len(t, ret.DocIssue.DocDetails, 1)
	require.Len(t, ret.DocIssue.DocDetails[0].Docs, 1)
	doc := ret.DocIssue.DocDetails[0].Docs[0]
	assert.Equal(t, 1, doc.Num)
	assert.Equal(t, "INV-001", doc.From, "range is sorted, not record order")
	assert.Equal(t, "INV-002", doc.To)
	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, 0, doc.Cancelled)
	assert.Equal(t, 2, doc.NetIssued)
}

func TestBuild_EmptySet(t *testing.T) {
	c := classifier.Classify(nil, "29")
	ret := Build(nil, c, "29AAPFU0939F1ZR", "012026")

	assert.NotNil(t, ret.B2B)
	assert.NotNil(t, ret.B2CS)
	assert.NotNil(t, ret.HSN)
	doc := ret.DocIssue.DocDetails[0].Docs[0]
	assert.Equal(t, "", doc.From)
	assert.Equal(t, 0, doc.Total)
}

func TestWriteJSON_PortalKeys(t *testing.T) {
	records := sampleRecords()
	ret := Build(records, classifier.Classify(records, "29"), "29AAPFU0939F1ZR", "012026")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ret))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"gstin", "fp", "b2b", "b2cs", "cdnr", "hsn", "doc_issue"} {
		assert.Contains(t, doc, key)
	}
	assert.JSONEq(t, `[]`, string(doc["cdnr"]))

	var b2b []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["b2b"], &b2b))
	require.Len(t, b2b, 1)
	assert.Contains(t, b2b[0], "ctin")
	assert.Contains(t, b2b[0], "inv")

	var hsn []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["hsn"], &hsn))
	require.Len(t, hsn, 1)
	for _, key := range []string{"num", "hsn_sc", "desc", "uqc", "qty", "txval", "iamt", "camt", "samt", "csamt"} {
		assert.Contains(t, hsn[0], key)
	}
}

func TestWriteWorkbook(t *testing.T) {
	records := sampleRecords()
	records[1].Issues = []invoice.Issue{
		{Field: "hsn_code", Message: "HSN/SAC code is missing", Severity: invoice.SeverityWarning},
		{Field: "taxable_value", Message: "High value B2C invoice", Severity: invoice.SeverityInfo},
	}
	c := classifier.Classify(records, "29")

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, records, c))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"All Invoices", "B2B", "B2CS", "HSN Summary"}, f.GetSheetList())

	rows, err := f.GetRows("All Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Invoice No", rows[0][0])
	assert.Equal(t, "INV-002", rows[1][0])
	assert.Equal(t, "B2B", rows[1][15])
	assert.Equal(t, "URP", rows[2][2], "blank buyer GSTIN rendered as URP")
	assert.Equal(t, "B2CS", rows[2][15])
	assert.Equal(t, "HSN/SAC code is missing; High value B2C invoice", rows[2][16],
		"every issue message lands in the audit column, not just errors")

	b2bRows, err := f.GetRows("B2B")
	require.NoError(t, err)
	require.Len(t, b2bRows, 2)
	assert.Equal(t, "27AAPFU0939F1ZV", b2bRows[1][0])

	hsnRows, err := f.GetRows("HSN Summary")
	require.NoError(t, err)
	require.Len(t, hsnRows, 2)
	assert.Equal(t, "6109", hsnRows[1][0])
}

func TestWriteWorkbook_OmitsEmptySections(t *testing.T) {
	rec := sampleRecords()[1] // B2C only
	c := classifier.Classify([]*invoice.Record{rec}, "29")

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, []*invoice.Record{rec}, c))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"All Invoices", "B2CS", "HSN Summary"}, f.GetSheetList())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "GSTR1_012026.json", FileName("012026", "json"))
	assert.Equal(t, "GSTR1_012026.xlsx", FileName("012026", "xlsx"))
}
