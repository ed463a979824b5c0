package services

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by GenerateBillExcel, one per document kind.
var billSheetNames = map[DocumentKind]string{
	DocumentInvoice: "Invoice",
	DocumentChallan: "Challan",
}

// billHeaderRow is the spreadsheet row holding the column headers.
const billHeaderRow = 11

var billExcelColumns = []string{"A", "B", "C", "D", "E", "F", "G"}

type billStyles struct {
	title, label, header, item, money, summaryLabel, summaryValue, grand int
}

// GenerateBillExcel writes each document to its own sheet. Page breaks follow
// the print layout and the column header row repeats on every printed page.
func GenerateBillExcel(docs []Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newBillStyles(f)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		sheet := billSheetNames[doc.Kind]
		if sheet == "" {
			sheet = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, errors.Wrap(err, "set sheet name")
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, errors.Wrapf(err, "new sheet %s", sheet)
		}
		if err := writeBillSheet(f, sheet, doc, styles); err != nil {
			return nil, errors.Wrapf(err, "write sheet %s", sheet)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write excel")
	}
	return buf.Bytes(), nil
}

func newBillStyles(f *excelize.File) (billStyles, error) {
	var s billStyles
	moneyFmt := "#,##0.00"

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Size: 10}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#EBEBEB"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&s.item, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&s.money, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{&s.summaryLabel, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&s.summaryValue, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, CustomNumFmt: &moneyFmt}},
		{&s.grand, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
			CustomNumFmt: &moneyFmt,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, errors.Wrap(err, "create style")
		}
		*d.dst = id
	}
	return s, nil
}

func writeBillSheet(f *excelize.File, sheet string, doc Document, st billStyles) error {
	widths := []float64{7, 40, 10, 10, 12, 8, 14}
	for i, c := range billExcelColumns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return errors.Wrapf(err, "set col width %s", c)
		}
	}
	lastCol := billExcelColumns[len(billExcelColumns)-1]

	set := func(cell string, value any, style int) {
		if s, ok := value.(string); ok {
			value = sanitizeExcelCell(s)
		}
		f.SetCellValue(sheet, cell, value)
		f.SetCellStyle(sheet, cell, cell, style)
	}

	if err := f.MergeCell(sheet, "A1", "E1"); err != nil {
		return errors.Wrap(err, "merge title")
	}
	set("A1", doc.Title, st.title)
	set("F1", doc.Kind.Subtitle(), st.label)

	shop := doc.Shop
	set("A2", shop.Name, st.title)
	set("A3", shop.Address, st.label)
	set("A4", "GSTIN/UIN: "+shop.GSTIN, st.label)
	set("A5", "FSSAI NO. : "+shop.FSSAINo, st.label)
	set("A6", fmt.Sprintf("STATE Name: %s, Code: %s", shop.State, shop.StateCode), st.label)
	set("E2", "Invoice No.", st.label)
	set("F2", doc.InvoiceNo, st.summaryLabel)
	set("E3", "Dated", st.label)
	set("F3", doc.Dated, st.summaryLabel)
	set("E4", "Payment", st.label)
	set("F4", doc.PaymentText, st.label)
	set("E5", "Prepared By", st.label)
	set("F5", doc.Cashier, st.label)

	set("A8", "Buyer (Bill to): "+doc.Buyer.Name, st.label)
	set("A9", doc.Buyer.Address, st.label)
	set("E8", "Mobile", st.label)
	set("F8", doc.Buyer.Mobile, st.label)

	header := fmt.Sprintf("%d", billHeaderRow)
	for i, h := range doc.Columns {
		f.SetCellValue(sheet, billExcelColumns[i]+header, h)
	}
	f.SetCellStyle(sheet, "A"+header, lastCol+header, st.header)

	r := billHeaderRow + 1
	for _, item := range doc.Rows {
		n := fmt.Sprintf("%d", r)
		if item.PageBreakBefore {
			if err := f.InsertPageBreak(sheet, "A"+n); err != nil {
				return errors.Wrapf(err, "page break at row %d", r)
			}
		}
		set("A"+n, item.Serial, st.item)
		set("B"+n, item.Name, st.item)
		set("C"+n, item.GSTRate, st.item)
		set("D"+n, item.Qty, st.item)
		set("E"+n, item.Price, st.money)
		set("F"+n, item.Unit, st.item)
		set("G"+n, item.Amount, st.money)
		r++
	}

	r++
	for _, s := range doc.Summary {
		n := fmt.Sprintf("%d", r)
		labelStyle, valueStyle := st.summaryLabel, st.summaryValue
		if s.Key == SummaryGrandTotal {
			labelStyle, valueStyle = st.grand, st.grand
		}
		set("F"+n, s.Label, labelStyle)
		if s.Key == SummaryDiscount {
			set("G"+n, -s.Amount, valueStyle)
		} else {
			set("G"+n, s.Amount, valueStyle)
		}
		r++
	}

	r++
	set(fmt.Sprintf("A%d", r), "Amount Chargeable (in words)", st.label)
	set(fmt.Sprintf("A%d", r+1), "INR "+doc.AmountInWords+" ONLY", st.summaryLabel)
	set(fmt.Sprintf("A%d", r+2), "Company's PAN: "+shop.PAN, st.label)
	set(fmt.Sprintf("A%d", r+4), "Declaration: "+doc.Declaration, st.label)
	set(fmt.Sprintf("E%d", r+4), SignatoryFor(shop), st.summaryLabel)
	set(fmt.Sprintf("E%d", r+6), SignatoryTitle, st.label)

	return f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Titles",
		RefersTo: fmt.Sprintf("'%s'!$%d:$%d", sheet, billHeaderRow, billHeaderRow),
		Scope:    sheet,
	})
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
