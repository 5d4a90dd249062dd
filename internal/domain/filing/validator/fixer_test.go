package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

func TestFix_CleanRecordIsNoOp(t *testing.T) {
	rec := cleanRecord()
	changed := Fix(rec)

	assert.False(t, changed)
	assert.False(t, rec.Fixed)
	assert.Empty(t, rec.FixLog)
	assert.Nil(t, rec.Snapshot)
}

func TestFix_TrimsAndReformats(t *testing.T) {
	rec := cleanRecord()
	rec.InvoiceNo = "  INV-001 "
	rec.BuyerGSTIN = " 27AAPFU0939F1ZV"
	rec.HSNCode = "6109 "
	rec.InvoiceDate = "2026-01-15"

	require.True(t, Fix(rec))

	assert.Equal(t, "INV-001", rec.InvoiceNo)
	assert.Equal(t, "27AAPFU0939F1ZV", rec.BuyerGSTIN)
	assert.Equal(t, "6109", rec.HSNCode)
	assert.Equal(t, "15/01/2026", rec.InvoiceDate)
	assert.True(t, rec.Fixed)
	assert.Contains(t, rec.FixLog, "Reformatted date from 2026-01-15 to DD/MM/YYYY.")
	assert.Len(t, rec.FixLog, 4)
}

func TestFix_IntraStateWinsOverIGST(t *testing.T) {
	rec := cleanRecord()
	rec.CGST = dec("50")
	rec.SGST = dec("50")
	rec.IGST = dec("100")
	rec.Total = dec("1300")

	require.True(t, Fix(rec))

	assert.True(t, rec.IGST.IsZero(), "IGST zeroed when CGST/SGST present")
	assert.True(t, rec.CGST.Equal(dec("50")))
	assert.True(t, rec.SGST.Equal(dec("50")))
	assert.True(t, rec.Total.Equal(dec("1100")), "total recomputed without IGST")
	assert.Contains(t, rec.FixLog, "Zeroed IGST because CGST/SGST are present (intra-state sale).")
	assert.Contains(t, rec.FixLog, "Recalculated total from ₹1300.00 to ₹1100.00.")
}

func TestFix_RoundsPaisaNoise(t *testing.T) {
	rec := cleanRecord()
	rec.TaxableValue = dec("999.995")
	rec.CGST = dec("90.0001")
	rec.SGST = dec("89.9999")
	rec.Total = dec("1180")

	require.True(t, Fix(rec))

	assert.Equal(t, "1000.00", rec.TaxableValue.StringFixed(2))
	assert.Equal(t, "90.00", rec.CGST.StringFixed(2))
	assert.Equal(t, "90.00", rec.SGST.StringFixed(2))
	assert.Equal(t, "1180.00", rec.Total.StringFixed(2))
}

func TestFix_SnapshotKeepsFirstValue(t *testing.T) {
	rec := cleanRecord()
	rec.CGST = dec("50")
	rec.SGST = dec("50")
	rec.IGST = dec("100.005")
	rec.Total = dec("1300")

	require.True(t, Fix(rec))

	// IGST was first zeroed, then the rounding pass saw zero; the snapshot
	// must still hold the parsed value.
	old, ok := rec.Snapshot["igst"]
	require.True(t, ok)
	assert.Equal(t, "100.005", old.(decimal.Decimal).String())
}

func TestUndo_RestoresParsedState(t *testing.T) {
	rec := cleanRecord()
	rec.InvoiceNo = "  INV-001 "
	rec.InvoiceDate = "2026-01-15"
	rec.CGST = dec("50")
	rec.SGST = dec("50")
	rec.IGST = dec("100")
	rec.Total = dec("1300")

	require.True(t, Fix(rec))
	require.True(t, Undo(rec))

	assert.Equal(t, "  INV-001 ", rec.InvoiceNo)
	assert.Equal(t, "2026-01-15", rec.InvoiceDate)
	assert.True(t, rec.CGST.Equal(dec("50")))
	assert.True(t, rec.IGST.Equal(dec("100")))
	assert.True(t, rec.Total.Equal(dec("1300")))
	assert.False(t, rec.Fixed)
	assert.Empty(t, rec.FixLog)
	assert.Nil(t, rec.Snapshot)
}

func TestUndo_WithoutFixIsNoOp(t *testing.T) {
	rec := cleanRecord()
	assert.False(t, Undo(rec))
	assert.Equal(t, "INV-001", rec.InvoiceNo)
}

func TestFixAll(t *testing.T) {
	dirty := cleanRecord()
	dirty.InvoiceNo = " INV-002 "
	records := []*invoice.Record{cleanRecord(), dirty}

	assert.Equal(t, 1, FixAll(records))
	assert.False(t, records[0].Fixed)
	assert.True(t, records[1].Fixed)
}
