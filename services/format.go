package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR formats an amount in Indian Rupee notation with the Indian digit
// grouping (e.g. ₹1,23,45,678.90). The result always has two decimals.
func FormatINR(amount float64) string {
	raw := FormatAmount(amount)

	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	parts := strings.SplitN(raw, ".", 2)
	result := "₹" + applyIndianGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatAmount renders an amount with exactly two decimals and no currency
// sign. Values that round to zero never print as "-0.00".
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatRate renders a percentage without trailing zeros: 5 → "5", 2.5 → "2.5".
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// formatQty renders a quantity without a fractional part when it is whole.
func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}
