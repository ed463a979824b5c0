// Package services holds the billing engine: line items, GST totals, the
// invoice/challan view model and its print and spreadsheet renderings.
package services

import (
	"math"
	"strings"
)

// DefaultGSTRate is the restaurant GST percentage, split evenly into CGST and SGST.
const DefaultGSTRate = 5.0

// DiscountMode selects how DiscountConfig.Value is interpreted.
type DiscountMode string

const (
	DiscountPercentage DiscountMode = "percentage"
	DiscountFixed      DiscountMode = "fixed"
)

// ParseDiscountMode maps a form value to a mode, defaulting to percentage.
func ParseDiscountMode(raw string) DiscountMode {
	switch DiscountMode(strings.ToLower(strings.TrimSpace(raw))) {
	case DiscountFixed, "amount", "flat":
		return DiscountFixed
	default:
		return DiscountPercentage
	}
}

// DiscountConfig is the bill-level discount for one session.
type DiscountConfig struct {
	Mode  DiscountMode
	Value float64
}

// BillingBreakdown holds the bill totals. It is always derived from the
// current items and discount and never stored on its own.
type BillingBreakdown struct {
	TotalBeforeDiscount float64
	DiscountAmount      float64
	TotalAfterDiscount  float64
	GSTRate             float64
	GSTAmount           float64
	CGSTAmount          float64
	SGSTAmount          float64
	RoundOffAmount      float64 // signed
	GrandTotal          float64
}

// PreRoundTotal is the total after discount plus GST, before rounding.
func (b BillingBreakdown) PreRoundTotal() float64 {
	return b.TotalAfterDiscount + b.GSTAmount
}

// HalfGSTRate is the CGST and SGST percentage.
func (b BillingBreakdown) HalfGSTRate() float64 {
	return b.GSTRate / 2
}

// Compute calculates the bill for the given items and discount. The steps run
// in a fixed order so rounding is reproducible:
//
//  1. total before discount = sum of qty * price
//  2. raw discount = total * value / 100, or value for a fixed discount
//  3. discount clamped to [0, total before discount]
//  4. total after discount
//  5. GST on the total after discount, split evenly into CGST and SGST
//  6. pre-round total = total after discount + GST
//  7. grand total = pre-round total rounded to the nearest rupee
//  8. round off = grand total - pre-round total
//
// Intermediate values keep full float64 precision; only display formatting
// truncates to two decimals.
func Compute(items []LineItem, discount DiscountConfig, gstRate float64) BillingBreakdown {
	var totalBeforeDiscount float64
	for _, item := range items {
		totalBeforeDiscount += item.Qty * item.Price
	}

	var rawDiscount float64
	switch discount.Mode {
	case DiscountFixed:
		rawDiscount = discount.Value
	default:
		rawDiscount = totalBeforeDiscount * discount.Value / 100
	}
	discountAmount := math.Min(rawDiscount, totalBeforeDiscount)
	if discountAmount < 0 {
		discountAmount = 0
	}

	totalAfterDiscount := totalBeforeDiscount - discountAmount

	gstAmount := totalAfterDiscount * gstRate / 100
	halfGST := gstAmount / 2

	preRoundTotal := totalAfterDiscount + gstAmount
	grandTotal := math.Round(preRoundTotal)

	return BillingBreakdown{
		TotalBeforeDiscount: totalBeforeDiscount,
		DiscountAmount:      discountAmount,
		TotalAfterDiscount:  totalAfterDiscount,
		GSTRate:             gstRate,
		GSTAmount:           gstAmount,
		CGSTAmount:          halfGST,
		SGSTAmount:          halfGST,
		RoundOffAmount:      grandTotal - preRoundTotal,
		GrandTotal:          grandTotal,
	}
}
