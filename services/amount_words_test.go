package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{210, "two hundred ten rupees and zero paise"},
		{0, "zero paise"},
		{0.5, "fifty paise"},
		{1, "one rupees and zero paise"},
		{19, "nineteen rupees and zero paise"},
		{106, "one hundred six rupees and zero paise"},
		{106.05, "one hundred six rupees and five paise"},
		{1250.75, "one thousand two hundred fifty rupees and seventy five paise"},
		{100000, "one lakh rupees and zero paise"},
		{2345678, "twenty three lakh forty five thousand six hundred seventy eight rupees and zero paise"},
		{10000000, "one crore rupees and zero paise"},
		{123456789.99, "twelve crore thirty four lakh fifty six thousand seven hundred eighty nine rupees and ninety nine paise"},
		{99.999, "one hundred rupees and zero paise"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountToWords(tt.amount))
		})
	}
}

func TestAmountToWords_MatchesGrandTotal(t *testing.T) {
	b := Compute(items(2, 100), DiscountConfig{}, 5)
	assert.Equal(t, "TWO HUNDRED TEN RUPEES AND ZERO PAISE", strings.ToUpper(AmountToWords(b.GrandTotal)))
}
