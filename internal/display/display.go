// Package display renders ledger figures for people: whole Rials with
// thousands separators and one-decimal percentages. Values are rounded here
// and nowhere else.
package display

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is shown for values that cannot be rendered (NaN, ±Inf).
const Placeholder = "-"

// Rials rounds v half away from zero to a whole Rial and groups the digits,
// e.g. 1234567.6 -> "1,234,568".
func Rials(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	s := decimal.NewFromFloat(v).Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Percent renders p (already scaled to 0..100) with one decimal place.
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Placeholder
	}
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}
