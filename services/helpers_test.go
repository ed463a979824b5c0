package services

import (
	"bytes"
	"fmt"
	"regexp"
	"time"
)

var fixtureDate = time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// fixtureItems returns n distinct rows priced 10, 20, 30, ...
func fixtureItems(n int) []LineItem {
	out := make([]LineItem, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, LineItem{
			ID:    fmt.Sprintf("item-%d", i),
			Name:  fmt.Sprintf("Dish %d", i),
			Qty:   1,
			Price: float64(i * 10),
			Unit:  DefaultUnit,
		})
	}
	return out
}

func fixtureInput(items []LineItem) DocumentInput {
	return DocumentInput{
		SessionID: "sess-1",
		Order: Order{
			OrderID:  "42",
			Customer: Customer{Name: "Asha Verma", Address: "Civil Lines", Mobile: "9876543210"},
			Items:    items,
			Payment:  Payment{Method: PaymentUPI, UPIID: "asha@upi"},
			PlacedAt: fixtureDate,
		},
		Items:       items,
		Draft:       NewItemDraft(),
		GSTRate:     DefaultGSTRate,
		Cashier:     "Manish",
		Cashiers:    DefaultCashiers,
		Shop:        DefaultShopProfile(),
		InvoiceDate: fixtureDate,
	}
}

var pdfPageObject = regexp.MustCompile(`/Type /Page\n`)

func pdfPageCount(b []byte) int {
	return len(pdfPageObject.FindAll(b, -1))
}
