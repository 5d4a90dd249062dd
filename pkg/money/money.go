// Package money provides currency helpers for the filing pipeline. All tax
// arithmetic runs on shopspring/decimal and is rounded to two places only at
// well-defined points; go-money handles INR display formatting for summaries.
package money

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the only currency this system files in.
const INR = "INR"

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two decimal places, half away from zero. This matches the
// portal's paisa rounding for every currency field in the filing document.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ExpectedTax computes the tax implied by a taxable value and a percentage
// rate. The product is rounded to a whole number before dividing by 100;
// the portal reference computes it in this order and changing it shifts
// results on boundary values, so it is preserved exactly.
func ExpectedTax(taxableValue, rate decimal.Decimal) decimal.Decimal {
	return taxableValue.Mul(rate).Round(0).Div(hundred)
}

// ParseAmount converts a raw spreadsheet cell string into a decimal amount.
// Currency symbols, thousands separators and surrounding whitespace are
// stripped; anything left unparsable yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	for _, sym := range []string{"₹", "Rs.", "Rs", "INR"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatINR renders an amount as an Indian Rupee display string, e.g. "₹1,234.56".
func FormatINR(d decimal.Decimal) string {
	paise := d.Mul(hundred).Round(0).IntPart()
	return money.New(paise, INR).Display()
}

// Float2 returns the amount rounded to two places as a float64, the shape
// the portal JSON document carries currency values in.
func Float2(d decimal.Decimal) float64 {
	f, _ := Round2(d).Float64()
	return f
}
