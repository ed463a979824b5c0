package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// AmountToWords spells an amount for the "Amount Chargeable (in words)" line,
// e.g. 210 → "two hundred ten rupees and zero paise".
//
// Rupees use the Indian grouping (crore, lakh, thousand, hundred) with no
// "and" inside the rupees clause. Paise are the two decimal digits after
// rounding to 2 places. Zero paise is spelled "zero paise"; zero rupees drops
// the rupees clause. The result is lower case; callers upper-case it for print.
func AmountToWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "minus " + AmountToWords(d.Neg().InexactFloat64())
	}

	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var clauses []string
	if rupees > 0 {
		clauses = append(clauses, indianWords(rupees)+" rupees")
	}
	if paise > 0 {
		clauses = append(clauses, indianWords(paise)+" paise")
	} else {
		clauses = append(clauses, "zero paise")
	}
	return strings.Join(clauses, " and ")
}

// indianWords spells a positive integer using crore/lakh/thousand/hundred.
func indianWords(n int64) string {
	return strings.Join(appendIndianWords(nil, n), " ")
}

func appendIndianWords(words []string, n int64) []string {
	switch {
	case n == 0:
		return words
	case n < 20:
		return append(words, onesWords[n])
	case n < 100:
		words = append(words, tensWords[n/10])
		return appendIndianWords(words, n%10)
	case n < 1000:
		words = append(words, onesWords[n/100], "hundred")
		return appendIndianWords(words, n%100)
	case n < 100000:
		words = appendIndianWords(words, n/1000)
		words = append(words, "thousand")
		return appendIndianWords(words, n%1000)
	case n < 10000000:
		words = appendIndianWords(words, n/100000)
		words = append(words, "lakh")
		return appendIndianWords(words, n%100000)
	default:
		words = appendIndianWords(words, n/10000000)
		words = append(words, "crore")
		return appendIndianWords(words, n%10000000)
	}
}
