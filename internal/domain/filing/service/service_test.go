package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newService() *FilingService {
	return NewFilingService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func cleanRecord() *invoice.Record {
	return &invoice.Record{
		ID:            uuid.New(),
		InvoiceNo:     "INV-001",
		InvoiceDate:   "15/01/2026",
		BuyerGSTIN:    "27AAPFU0939F1ZV",
		BuyerName:     "Maple Traders",
		PlaceOfSupply: "27-Maharashtra",
		HSNCode:       "6109",
		Description:   "Cotton T-Shirt",
		Quantity:      dec("2"),
		TaxableValue:  dec("1000"),
		TaxRate:       dec("18"),
		CGST:          dec("90"),
		SGST:          dec("90"),
		Total:         dec("1180"),
		Platform:      invoice.PlatformCustom,
		Issues:        []invoice.Issue{},
	}
}

const sampleCSV = `Invoice No,Invoice Date,GSTIN,Buyer Name,Place of Supply,HSN,Description,Qty,Taxable Value,Rate,CGST,SGST,IGST,Cess,Total
INV-001,15/01/2026,27AAPFU0939F1ZV,Maple Traders,27-Maharashtra,6109,Cotton T-Shirt,2,1000,18,90,90,0,0,1180
`

func TestImport(t *testing.T) {
	svc := newService()

	t.Run("csv upload", func(t *testing.T) {
		result, err := svc.Import(context.Background(), "sales.csv", strings.NewReader(sampleCSV))
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "INV-001", result.Records[0].InvoiceNo)
		assert.Equal(t, invoice.PlatformCustom, result.Platform)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := svc.Import(context.Background(), "sales.pdf", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestValidate_BadPeriod(t *testing.T) {
	svc := newService()
	_, err := svc.Validate(context.Background(), nil, "13/2026")
	assert.ErrorIs(t, err, ErrBadPeriod)
}

func TestAutoFixAndUndo(t *testing.T) {
	svc := newService()
	rec := cleanRecord()
	rec.InvoiceNo = " INV-001 "
	records := []*invoice.Record{rec}

	summary, err := svc.Validate(context.Background(), records, "012026")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CleanRows, "leading whitespace alone does not fail validation")

	summary, fixed, err := svc.AutoFix(context.Background(), records, "012026")
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, "INV-001", rec.InvoiceNo)
	assert.Equal(t, 1, summary.CleanRows)

	_, undone, err := svc.UndoFix(context.Background(), records, "012026")
	require.NoError(t, err)
	assert.Equal(t, 1, undone)
	assert.Equal(t, " INV-001 ", rec.InvoiceNo)
}

func TestGenerate_BlockedOnErrors(t *testing.T) {
	svc := newService()
	rec := cleanRecord()
	rec.InvoiceNo = ""

	_, err := svc.Generate(context.Background(), []*invoice.Record{rec}, "29AAPFU0939F1ZR", "012026")
	assert.ErrorIs(t, err, ErrGenerationBlocked)
}

func TestGenerate(t *testing.T) {
	svc := newService()
	records := []*invoice.Record{cleanRecord()}

	result, err := svc.Generate(context.Background(), records, "29AAPFU0939F1ZR", "012026")
	require.NoError(t, err)

	assert.Equal(t, "29AAPFU0939F1ZR", result.Return.GSTIN)
	assert.Equal(t, "012026", result.Return.Period)
	assert.Contains(t, string(result.JSON), `"b2b"`)
	assert.NotEmpty(t, result.Workbook)
	assert.Equal(t, 1, result.Summary.B2BCount)
	assert.InDelta(t, 1000.0, result.Summary.TotalTaxable, 0.001)
	assert.Nil(t, result.Saved, "no history without a database")
	assert.Nil(t, result.JSONArtifact, "no artifacts without a profile")
}

func TestGenerate_NoSellerGSTIN(t *testing.T) {
	svc := newService()
	_, err := svc.Generate(context.Background(), []*invoice.Record{cleanRecord()}, "", "012026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no seller GSTIN")
}

func TestValidPeriod(t *testing.T) {
	tests := []struct {
		period string
		want   bool
	}{
		{"012026", true},
		{"122017", true},
		{"002026", false},
		{"132026", false},
		{"12026", false},
		{"012016", false},
		{"ab2026", false},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPeriod(tt.period))
		})
	}
}
