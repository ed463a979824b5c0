package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openBillWorkbook(t *testing.T, docs []Document) *excelize.File {
	t.Helper()

	result, err := GenerateBillExcel(docs)
	require.NoError(t, err)
	require.NotEmpty(t, result)

	f, err := excelize.OpenReader(bytesReader(result))
	require.NoError(t, err, "result is not valid Excel")
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateBillExcel_Sheets(t *testing.T) {
	f := openBillWorkbook(t, BuildDocuments(fixtureInput(fixtureItems(2)), ModePrint))
	assert.Equal(t, []string{"Invoice", "Challan"}, f.GetSheetList())

	title, _ := f.GetCellValue("Invoice", "A1")
	assert.Equal(t, "GST INVOICE", title)
	title, _ = f.GetCellValue("Challan", "A1")
	assert.Equal(t, "DELIVERY CHALLAN", title)
}

func TestGenerateBillExcel_HeaderAndRows(t *testing.T) {
	f := openBillWorkbook(t, BuildDocuments(fixtureInput(fixtureItems(2)), ModePrint))

	for i, want := range ItemColumns {
		got, _ := f.GetCellValue("Invoice", billExcelColumns[i]+"11")
		assert.Equal(t, want, got)
	}

	name, _ := f.GetCellValue("Invoice", "B12")
	assert.Equal(t, "Dish 1", name)
	serial, _ := f.GetCellValue("Invoice", "A13")
	assert.Equal(t, "2", serial)
	amount, _ := f.GetCellValue("Invoice", "G13", excelize.Options{RawCellValue: true})
	assert.Equal(t, "20", amount)

	invoiceNo, _ := f.GetCellValue("Invoice", "F2")
	assert.Equal(t, "42", invoiceNo)
	cashier, _ := f.GetCellValue("Invoice", "F5")
	assert.Equal(t, "Manish", cashier)
}

func TestGenerateBillExcel_Summary(t *testing.T) {
	in := fixtureInput([]LineItem{{Name: "Thali", Qty: 2, Price: 100}})
	in.Discount = DiscountConfig{Mode: DiscountPercentage, Value: 10}
	f := openBillWorkbook(t, BuildDocuments(in, ModePrint))

	// one item at row 12, blank row 13, summary from row 14
	label, _ := f.GetCellValue("Invoice", "F14")
	assert.Equal(t, "Total", label)

	discount, _ := f.GetCellValue("Invoice", "G15", excelize.Options{RawCellValue: true})
	assert.Equal(t, "-20", discount)

	grandLabel, _ := f.GetCellValue("Invoice", "F20")
	assert.Equal(t, "Grand Total", grandLabel)
	grand, _ := f.GetCellValue("Invoice", "G20", excelize.Options{RawCellValue: true})
	assert.Equal(t, "189", grand)

	words, _ := f.GetCellValue("Invoice", "A23")
	assert.Equal(t, "INR ONE HUNDRED EIGHTY NINE RUPEES AND ZERO PAISE ONLY", words)

	forShop, _ := f.GetCellValue("Invoice", "E26")
	assert.Equal(t, "For "+in.Shop.Name, forShop)
	signatory, _ := f.GetCellValue("Invoice", "E28")
	assert.Equal(t, "Authorized Signatory", signatory)
}

func TestGenerateBillExcel_PrintTitles(t *testing.T) {
	f := openBillWorkbook(t, BuildDocuments(fixtureInput(fixtureItems(12)), ModePrint))

	names := map[string]string{}
	for _, dn := range f.GetDefinedName() {
		names[dn.Scope+"|"+dn.Name] = dn.RefersTo
	}
	assert.Equal(t, "'Invoice'!$11:$11", names["Invoice|_xlnm.Print_Titles"])
	assert.Equal(t, "'Challan'!$11:$11", names["Challan|_xlnm.Print_Titles"])
}

func TestGenerateBillExcel_SanitizesFormulas(t *testing.T) {
	f := openBillWorkbook(t, BuildDocuments(fixtureInput([]LineItem{{Name: "=HYPERLINK(\"x\")", Qty: 1, Price: 10}}), ModePrint))

	name, _ := f.GetCellValue("Invoice", "B12")
	assert.Equal(t, "'=HYPERLINK(\"x\")", name)
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"Paneer", "Paneer"},
		{"=1+1", "'=1+1"},
		{"+91", "'+91"},
		{"-5", "'-5"},
		{"@cmd", "'@cmd"},
		{"|pipe", "'|pipe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeExcelCell(tt.input), tt.input)
	}
}
