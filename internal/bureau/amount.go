package bureau

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a comma-grouped report amount such as "1,00,000" or
// "-40,000". It reports false for empty or non-numeric input.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeAmount strips digit grouping ("100,000" -> "100000"). Input that
// does not parse is returned unchanged.
func NormalizeAmount(s string) string {
	d, ok := ParseAmount(s)
	if !ok {
		return s
	}
	return d.String()
}
