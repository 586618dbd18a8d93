// Package money formats and parses USD amounts for CLI input and output.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders v as "$1234.56": two decimals, no grouping.
func FormatUSD(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// ParseDigits keeps only the digits of raw and reads them as cents, so "$12.34", "1234"
// and "12,34" all yield 12.34. An input without digits is zero.
func ParseDigits(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	cents, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0
	}
	f, _ := cents.Shift(-2).Float64()
	return f
}
