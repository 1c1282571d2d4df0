package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/printdesk/internal/money"
)

// FormatMoney renders an amount with two decimals and an optional currency code.
func FormatMoney(v float64, currency string) string {
	return money.FormatWithCurrency(money.Round2(v), currency)
}

// FormatPercent formats a 0-100 value, dropping trailing zeros.
// e.g., 40 -> "40%", 6.5 -> "6.5%"
func FormatPercent(pct float64) string {
	s := strconv.FormatFloat(math.Round(pct*100)/100, 'f', -1, 64)
	return s + "%"
}

// FormatHours renders fractional hours as hours and minutes.
// e.g., 3.5 -> "3h 30m", 0.25 -> "15m"
func FormatHours(h float64) string {
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return "0m"
	}
	total := int64(math.Round(h * 60))
	hours, mins := total/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormatGrams renders a filament weight, switching to kilograms at 1000 g.
func FormatGrams(g float64) string {
	if g >= 1000 {
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", g/1000), "0"), ".") + " kg"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", g), "0"), ".") + " g"
}
