package services

import (
	"fmt"
	"strings"
	"time"
)

// RowsPerPage is the number of item rows printed per page. Row 11, 21, 31, …
// starts a new page.
const RowsPerPage = 10

// DocumentKind tags which of the two bill documents is rendered.
type DocumentKind string

const (
	DocumentInvoice DocumentKind = "invoice"
	DocumentChallan DocumentKind = "challan"
)

// DocumentKinds lists the documents in print order.
var DocumentKinds = []DocumentKind{DocumentInvoice, DocumentChallan}

// Title is the heading printed on the document.
func (k DocumentKind) Title() string {
	if k == DocumentChallan {
		return "DELIVERY CHALLAN"
	}
	return "GST INVOICE"
}

// Subtitle is the copy marker next to the heading.
func (k DocumentKind) Subtitle() string {
	if k == DocumentChallan {
		return ""
	}
	return "(ORIGINAL FOR RECIPIENT)"
}

// RenderMode switches between the editable screen view and the print view.
type RenderMode int

const (
	ModeScreen RenderMode = iota
	ModePrint
)

func (m RenderMode) String() string {
	if m == ModePrint {
		return "print"
	}
	return "screen"
}

// ItemColumns are the column headers repeated at the top of every page.
var ItemColumns = []string{"Sl No", "Description of Goods", "GST Rate", "Quantity", "Rate", "per", "Amount"}

// SignatoryTitle is printed under the shop name in every bill footer.
const SignatoryTitle = "Authorized Signatory"

// SignatoryFor is the footer line naming the issuing shop.
func SignatoryFor(shop ShopProfile) string {
	return "For " + shop.Name
}

// DocumentInput is everything a bill document is drawn from.
type DocumentInput struct {
	SessionID   string
	Order       Order
	Items       []LineItem
	Draft       ItemDraft
	DraftErrors map[string]string
	Discount    DiscountConfig
	GSTRate     float64
	Cashier     string
	Cashiers    []string
	Shop        ShopProfile
	InvoiceDate time.Time
}

// TitleSlot is one of the two document headings. Each document carries both;
// only its own is visible in print.
type TitleSlot struct {
	Text     string
	Subtitle string
	Own      bool
	Visible  bool
}

// ItemRow is one printed line item.
type ItemRow struct {
	Index           int // position in the store, used by edit controls
	Serial          int // 1-based
	ID              string
	Name            string
	GSTRate         string
	Qty             float64
	Price           float64
	Unit            string
	Amount          float64
	PageBreakBefore bool
}

// QtyText is the quantity as printed.
func (r ItemRow) QtyText() string {
	return formatQty(r.Qty)
}

// SummaryKey identifies a summary row.
type SummaryKey string

const (
	SummaryTotal         SummaryKey = "total"
	SummaryDiscount      SummaryKey = "discount"
	SummaryAfterDiscount SummaryKey = "total_after_discount"
	SummaryCGST          SummaryKey = "cgst"
	SummarySGST          SummaryKey = "sgst"
	SummaryRoundOff      SummaryKey = "round_off"
	SummaryGrandTotal    SummaryKey = "grand_total"
)

// SummaryRow is one line of the totals block.
type SummaryRow struct {
	Key    SummaryKey
	Label  string
	Amount float64
	Text   string
}

// Document is the view model for one invoice or challan.
type Document struct {
	Kind  DocumentKind
	Mode  RenderMode
	Title string

	Titles        []TitleSlot
	StartsNewPage bool

	Editable           bool
	ShowDeleteControls bool
	ShowNewItemRow     bool

	SessionID   string
	Shop        ShopProfile
	InvoiceNo   string
	Dated       string
	Cashier     string
	Cashiers    []string
	PaymentText string
	Buyer       Customer

	Columns []string
	Rows    []ItemRow

	Draft       ItemDraft
	DraftSerial int
	DraftErrors map[string]string

	GSTRateText string
	Discount    DiscountConfig
	Breakdown   BillingBreakdown
	Summary     []SummaryRow

	AmountInWords string
	Declaration   string
}

// Pages splits the item rows at their page-break markers. A document without
// items still has one (empty) page so the header and totals print.
func (d Document) Pages() [][]ItemRow {
	pages := [][]ItemRow{{}}
	for _, r := range d.Rows {
		if r.PageBreakBefore {
			pages = append(pages, []ItemRow{})
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], r)
	}
	return pages
}

// SummaryRow returns the summary line with the given key.
func (d Document) SummaryRow(key SummaryKey) (SummaryRow, bool) {
	for _, r := range d.Summary {
		if r.Key == key {
			return r, true
		}
	}
	return SummaryRow{}, false
}

// BuildDocuments computes the bill once and returns the invoice followed by
// the delivery challan, both drawn from the same breakdown.
func BuildDocuments(in DocumentInput, mode RenderMode) []Document {
	breakdown := Compute(in.Items, in.Discount, in.GSTRate)
	docs := make([]Document, 0, len(DocumentKinds))
	for _, kind := range DocumentKinds {
		docs = append(docs, BuildDocument(kind, in, breakdown, mode))
	}
	return docs
}

// BuildDocument draws one document from an already computed breakdown.
func BuildDocument(kind DocumentKind, in DocumentInput, breakdown BillingBreakdown, mode RenderMode) Document {
	screen := mode == ModeScreen

	dated := in.InvoiceDate
	if dated.IsZero() {
		dated = in.Order.PlacedAt
	}

	invoiceNo := in.Order.OrderID
	if invoiceNo == "" {
		invoiceNo = fmt.Sprintf("ORD-%d", dated.UnixMilli())
	}

	cashier := in.Cashier
	if cashier == "" {
		cashier = "N/A"
	}

	draftErrors := in.DraftErrors
	if draftErrors == nil {
		draftErrors = map[string]string{}
	}

	gstRateText := FormatRate(in.GSTRate) + "%"

	return Document{
		Kind:  kind,
		Mode:  mode,
		Title: kind.Title(),

		Titles:        buildTitleSlots(kind),
		StartsNewPage: mode == ModePrint && kind == DocumentChallan,

		Editable:           screen,
		ShowDeleteControls: screen,
		ShowNewItemRow:     screen,

		SessionID:   in.SessionID,
		Shop:        in.Shop,
		InvoiceNo:   invoiceNo,
		Dated:       dated.Format("02 Jan 2006"),
		Cashier:     cashier,
		Cashiers:    in.Cashiers,
		PaymentText: PaymentMethodText(in.Order.Payment.Method),
		Buyer:       in.Order.Customer.WithDefaults(),

		Columns: ItemColumns,
		Rows:    buildItemRows(in.Items, gstRateText),

		Draft:       in.Draft,
		DraftSerial: len(in.Items) + 1,
		DraftErrors: draftErrors,

		GSTRateText: gstRateText,
		Discount:    in.Discount,
		Breakdown:   breakdown,
		Summary:     buildSummaryRows(breakdown),

		AmountInWords: strings.ToUpper(AmountToWords(breakdown.GrandTotal)),
		Declaration:   in.Shop.Declaration,
	}
}

// buildTitleSlots emits both headings. On screen the counterpart is kept in
// the markup but hidden; in print it is hidden too, so only the own title
// ever shows.
func buildTitleSlots(kind DocumentKind) []TitleSlot {
	slots := make([]TitleSlot, 0, len(DocumentKinds))
	for _, k := range DocumentKinds {
		slots = append(slots, TitleSlot{
			Text:     k.Title(),
			Subtitle: k.Subtitle(),
			Own:      k == kind,
			Visible:  k == kind,
		})
	}
	return slots
}

// buildItemRows numbers the rows and marks every row that opens a new group
// of RowsPerPage, except the first.
func buildItemRows(items []LineItem, gstRateText string) []ItemRow {
	rows := make([]ItemRow, 0, len(items))
	for i, item := range items {
		unit := item.Unit
		if unit == "" {
			unit = DefaultUnit
		}
		rows = append(rows, ItemRow{
			Index:           i,
			Serial:          i + 1,
			ID:              item.ID,
			Name:            item.Name,
			GSTRate:         gstRateText,
			Qty:             item.Qty,
			Price:           item.Price,
			Unit:            unit,
			Amount:          item.Amount(),
			PageBreakBefore: i > 0 && i%RowsPerPage == 0,
		})
	}
	return rows
}

func buildSummaryRows(b BillingBreakdown) []SummaryRow {
	half := FormatRate(b.HalfGSTRate())
	return []SummaryRow{
		{Key: SummaryTotal, Label: "Total", Amount: b.TotalBeforeDiscount, Text: FormatINR(b.TotalBeforeDiscount)},
		{Key: SummaryDiscount, Label: "Discount", Amount: b.DiscountAmount, Text: "- " + FormatINR(b.DiscountAmount)},
		{Key: SummaryAfterDiscount, Label: "Total After Discount", Amount: b.TotalAfterDiscount, Text: FormatINR(b.TotalAfterDiscount)},
		{Key: SummaryCGST, Label: "CGST (" + half + "%)", Amount: b.CGSTAmount, Text: FormatINR(b.CGSTAmount)},
		{Key: SummarySGST, Label: "SGST (" + half + "%)", Amount: b.SGSTAmount, Text: FormatINR(b.SGSTAmount)},
		{Key: SummaryRoundOff, Label: "Round Off", Amount: b.RoundOffAmount, Text: FormatAmount(b.RoundOffAmount)},
		{Key: SummaryGrandTotal, Label: "Grand Total", Amount: b.GrandTotal, Text: FormatINR(b.GrandTotal)},
	}
}
