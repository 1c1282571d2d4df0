// Package money rounds and formats amounts at the display and persistence
// boundary. The pricing engines never round.
package money

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places amounts are shown and stored with.
const Places = 2

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds v half away from zero to two decimal places. NaN and
// infinities are returned unchanged.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(Places).Float64()
	return f
}

// Format renders v with exactly two decimal places. NaN and infinities
// render as "NaN", "+Inf" and "-Inf".
func Format(v float64) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(Places)
}

// FormatWithCurrency renders v followed by a currency code, e.g. "12.50 USD".
func FormatWithCurrency(v float64, currency string) string {
	if currency == "" {
		return Format(v)
	}
	return Format(v) + " " + currency
}
