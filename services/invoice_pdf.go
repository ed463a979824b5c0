package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pkg/errors"
)

var (
	pdfHeaderBg  = &props.Color{Red: 235, Green: 235, Blue: 235}
	pdfSummaryBg = &props.Color{Red: 245, Green: 245, Blue: 245}
	pdfGrandBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfMuted     = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// GenerateBillPDF prints the given documents one after another. Every
// document starts on a fresh page, repeats its header and column row on each
// page and carries at most RowsPerPage item rows per page. Totals and the
// footer follow the last page of rows.
func GenerateBillPDF(docs []Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	for _, doc := range docs {
		m.AddPages(billPages(doc)...)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "generate bill PDF")
	}
	return out.GetBytes(), nil
}

func billPages(doc Document) []core.Page {
	chunks := doc.Pages()
	pages := make([]core.Page, 0, len(chunks))
	for i, chunk := range chunks {
		rows := billHeaderRows(doc)
		rows = append(rows, billColumnRow())
		for _, r := range chunk {
			rows = append(rows, billItemRow(r))
		}
		if i == len(chunks)-1 {
			rows = append(rows, billSummaryRows(doc)...)
			rows = append(rows, billFooterRows(doc)...)
		}
		pages = append(pages, page.New().Add(rows...))
	}
	return pages
}

// billHeaderRows draws the title line, the seller block with invoice meta and
// the buyer block.
func billHeaderRows(doc Document) []core.Row {
	bold := props.Text{Size: 9, Style: fontstyle.Bold}
	small := props.Text{Size: 7, Color: pdfMuted}
	right := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}

	shop := doc.Shop
	rows := []core.Row{
		row.New(7).Add(
			col.New(6).Add(text.New(doc.Title, props.Text{Size: 11, Style: fontstyle.Bold})),
			col.New(6).Add(text.New(doc.Kind.Subtitle(), right)),
		),
		line.NewRow(1),
		row.New(6).Add(
			col.New(7).Add(text.New(shop.Name, bold)),
			col.New(3).Add(text.New("Invoice No.", small), text.New(doc.InvoiceNo, props.Text{Size: 8, Style: fontstyle.Bold, Top: 3})),
			col.New(2).Add(text.New("Dated", small), text.New(doc.Dated, props.Text{Size: 8, Style: fontstyle.Bold, Top: 3})),
		),
		row.New(4).Add(col.New(7).Add(text.New(shop.Address, small))),
		row.New(4).Add(
			col.New(7).Add(text.New("FSSAI NO. : "+shop.FSSAINo, small)),
			col.New(5).Add(text.New("Mode/Terms of Payment: "+doc.PaymentText, small)),
		),
		row.New(4).Add(
			col.New(7).Add(text.New("GSTIN/UIN: "+shop.GSTIN, small)),
			col.New(5).Add(text.New("Prepared By: "+doc.Cashier, small)),
		),
		row.New(4).Add(col.New(7).Add(text.New(fmt.Sprintf("STATE Name: %s, Code: %s", shop.State, shop.StateCode), small))),
		row.New(4).Add(col.New(7).Add(text.New("Contact: "+shop.Phone, small))),
		row.New(4).Add(col.New(7).Add(text.New("E-Mail: "+shop.Email, small))),
		line.NewRow(1),
		row.New(5).Add(col.New(12).Add(text.New("Buyer (Bill to)", small))),
		row.New(5).Add(col.New(12).Add(text.New(doc.Buyer.Name, bold))),
		row.New(4).Add(col.New(12).Add(text.New(doc.Buyer.Address, small))),
		row.New(4).Add(
			col.New(6).Add(text.New("Mobile: "+doc.Buyer.Mobile, small)),
			col.New(6).Add(text.New(fmt.Sprintf("State Name: %s, Code: %s", shop.BuyerState, shop.BuyerCode), small)),
		),
		row.New(3),
	}
	return rows
}

var billColumnSizes = []int{1, 4, 1, 1, 2, 1, 2}

func billColumnRow() core.Row {
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}
	headerCell := &props.Cell{BackgroundColor: pdfHeaderBg}

	cols := make([]core.Col, 0, len(ItemColumns))
	for i, name := range ItemColumns {
		cols = append(cols, col.New(billColumnSizes[i]).Add(text.New(name, headerText)).WithStyle(headerCell))
	}
	return row.New(7).Add(cols...)
}

func billItemRow(r ItemRow) core.Row {
	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	return row.New(6).Add(
		col.New(billColumnSizes[0]).Add(text.New(fmt.Sprintf("%d", r.Serial), base)),
		col.New(billColumnSizes[1]).Add(text.New(r.Name, left)),
		col.New(billColumnSizes[2]).Add(text.New(r.GSTRate, base)),
		col.New(billColumnSizes[3]).Add(text.New(r.QtyText(), base)),
		col.New(billColumnSizes[4]).Add(text.New(FormatAmount(r.Price), right)),
		col.New(billColumnSizes[5]).Add(text.New(r.Unit, base)),
		col.New(billColumnSizes[6]).Add(text.New(FormatAmount(r.Amount), right)),
	)
}

func billSummaryRows(doc Document) []core.Row {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	cell := &props.Cell{BackgroundColor: pdfSummaryBg}

	rows := []core.Row{row.New(3)}
	for _, s := range doc.Summary {
		if s.Key == SummaryGrandTotal {
			grandLabel := label
			grandLabel.Color = pdfWhite
			grandValue := value
			grandValue.Color = pdfWhite
			grandCell := &props.Cell{BackgroundColor: pdfGrandBg}
			rows = append(rows, row.New(7).Add(
				col.New(9).Add(text.New(s.Label, grandLabel)).WithStyle(grandCell),
				col.New(3).Add(text.New(s.Text, grandValue)).WithStyle(grandCell),
			))
			continue
		}
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(text.New(s.Label, label)).WithStyle(cell),
			col.New(3).Add(text.New(s.Text, value)).WithStyle(cell),
		))
	}
	return rows
}

func billFooterRows(doc Document) []core.Row {
	small := props.Text{Size: 7, Color: pdfMuted}
	return []core.Row{
		row.New(4),
		row.New(5).Add(col.New(12).Add(text.New("Amount Chargeable (in words)", small))),
		row.New(6).Add(col.New(12).Add(text.New("INR "+doc.AmountInWords+" ONLY", props.Text{Size: 8, Style: fontstyle.Bold}))),
		row.New(5).Add(col.New(12).Add(text.New("Company's PAN: "+doc.Shop.PAN, small))),
		row.New(4),
		row.New(12).Add(
			col.New(7).Add(
				text.New("Declaration", props.Text{Size: 7, Style: fontstyle.Bold}),
				text.New(doc.Declaration, props.Text{Size: 7, Top: 3, Color: pdfMuted}),
			),
			col.New(5).Add(
				text.New(SignatoryFor(doc.Shop), props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}),
				text.New(SignatoryTitle, props.Text{Size: 7, Top: 8, Align: align.Right}),
			),
		),
	}
}
