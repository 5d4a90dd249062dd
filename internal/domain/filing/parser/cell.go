package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/gst-filing/pkg/money"
)

// CellKind tags the value a spreadsheet cell carried before coercion.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is the tagged union for a raw spreadsheet cell. Coercion into a
// canonical field type is always explicit; the pipeline never relies on a
// cell guessing its own meaning.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// Empty is the zero Cell, present for readability at call sites.
var Empty = Cell{}

// Text cells keep the raw string; Number cells carry parsed floats (Excel
// stores dates as serial numbers, so a date-styled cell read raw arrives
// here as a Number).

func textCell(s string) Cell {
	if s == "" {
		return Empty
	}
	return Cell{Kind: CellText, Text: s}
}

func numberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell for header matching and trimmed-string coercion.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format(displayDateFormat)
	default:
		return ""
	}
}

// displayDateFormat is the DD/MM/YYYY form every invoice date is carried in.
const displayDateFormat = "02/01/2006"

// textDateFormats are tried in order when coercing a string date. Indian
// reports are day-first, so DD/MM variants come before ISO forms.
var textDateFormats = []string{
	displayDateFormat,
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// coerceAmount converts a cell into a decimal amount. Unparsable values
// default to zero so a stray annotation never aborts a parse.
func coerceAmount(c Cell) decimal.Decimal {
	switch c.Kind {
	case CellNumber:
		return decimal.NewFromFloat(c.Number)
	case CellText:
		return money.ParseAmount(c.Text)
	default:
		return decimal.Zero
	}
}

// coerceDate converts a cell into the DD/MM/YYYY display form. Numeric
// cells are treated as Excel serial dates. Unparsable strings pass through
// unchanged; the validator flags dates that don't fit the filing period.
func coerceDate(c Cell) string {
	switch c.Kind {
	case CellDate:
		return c.Date.Format(displayDateFormat)
	case CellNumber:
		t, err := excelize.ExcelDateToTime(c.Number, false)
		if err != nil {
			return c.String()
		}
		return t.Format(displayDateFormat)
	case CellText:
		s := trimmed(c)
		for _, layout := range textDateFormats {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(displayDateFormat)
			}
		}
		return s
	default:
		return ""
	}
}

// trimmed returns the cell's string form with surrounding whitespace removed.
func trimmed(c Cell) string {
	return strings.TrimSpace(c.String())
}
