// Package templates holds the HTML views. Components are written in .templ
// files; the _templ.go files next to them are produced by `templ generate`.
package templates

//go:generate templ generate

import (
	"strconv"
	"strings"

	"restrobilling/services"
)

// AllCategories is the menu filter that shows every dish.
const AllCategories = "All"

// MenuPageData drives the menu, cart and checkout page.
type MenuPageData struct {
	Categories  []string
	Active      string
	Items       []services.MenuItem
	Cart        CartData
	Form        services.CheckoutForm
	Errors      map[string]string
	NextOrderNo int
}

// CartData is the cart panel with its running totals.
type CartData struct {
	Items       []services.CartItem
	Subtotal    float64
	DeliveryFee float64
	HomeFee     float64
}

// Total is the amount shown to the customer before billing.
func (c CartData) Total() float64 {
	return c.Subtotal + c.DeliveryFee
}

// BillingPageData drives the billing page and the print view.
type BillingPageData struct {
	SessionID string
	OrderID   string
	Documents []services.Document
}

func (d BillingPageData) base() string {
	return "/billing/" + d.SessionID
}

func (d BillingPageData) itemURL(r services.ItemRow) string {
	return d.base() + "/items/" + strconv.Itoa(r.Index)
}

var paymentMethods = []string{
	services.PaymentCOD,
	services.PaymentUPI,
	services.PaymentPaytm,
	services.PaymentCard,
	services.PaymentBorrow,
}

var discountModes = []services.DiscountMode{services.DiscountPercentage, services.DiscountFixed}

const printCSS = `
body { font-family: system-ui, sans-serif; font-size: 12px; }
.bill-table { width: 100%; border-collapse: collapse; }
.bill-table th, .bill-table td { border: 1px solid #9ca3af; padding: 2px 4px; }
.num { text-align: right; }
.doc-title.counterpart { display: none; }
.field-error { color: #b91c1c; font-size: 10px; }
@media print {
  .print-hidden { display: none !important; }
  .bill-table thead { display: table-header-group; }
  .page-break-before { break-before: page; page-break-before: always; }
  .new-page { break-before: page; page-break-before: always; }
}
`

const toastScript = `
document.body.addEventListener("showToast", function (evt) {
  var t = document.getElementById("toast");
  if (!t) return;
  t.textContent = evt.detail.message;
  t.dataset.type = evt.detail.type;
  t.hidden = false;
  setTimeout(function () { t.hidden = true; }, 3000);
});
(function () {
  var m = document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);
  if (!m) return;
  document.cookie = "flash_toast=; Max-Age=0; path=/";
  var d = JSON.parse(decodeURIComponent(m[1]));
  document.body.dispatchEvent(new CustomEvent("showToast", { detail: d }));
})();
`

const autoPrintScript = `<script>window.addEventListener("load", function () { window.print(); });</script>`

func classes(names ...string) string {
	var kept []string
	for _, n := range names {
		if n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, " ")
}

func when(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}

func categoryHref(category string) string {
	if category == AllCategories {
		return "/"
	}
	return "/?category=" + category
}

func cartItemURL(it services.CartItem) string {
	return "/cart/items/" + it.MenuID
}

func deliveryChoice(f services.CheckoutForm) string {
	if f.DeliveryType == "" {
		return services.DeliveryPickup
	}
	return f.DeliveryType
}

func homeDeliveryLabel(fee float64) string {
	return "Home Delivery (+" + services.FormatINR(fee) + ")"
}

func plainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// draftNumber leaves an untouched draft field blank.
func draftNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return plainNumber(v)
}

func draftAmountID(doc services.Document) string {
	return "draft-amount-" + string(doc.Kind)
}

func discountSymbol(m services.DiscountMode) string {
	if m == services.DiscountPercentage {
		return "%"
	}
	return "₹"
}

func discountRate(d services.DiscountConfig) string {
	if d.Mode == services.DiscountPercentage && d.Value > 0 {
		return " (" + services.FormatRate(d.Value) + "%)"
	}
	return ""
}

func colspan(doc services.Document) string {
	return strconv.Itoa(len(doc.Columns))
}
