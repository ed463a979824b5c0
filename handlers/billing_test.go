package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restrobilling/services"
	"restrobilling/testhelpers"
)

func grandTotal(doc *goquery.Document, kind string) string {
	sel := fmt.Sprintf(`section[data-kind=%q] tr.summary-row[data-key="grand_total"] td.value`, kind)
	return strings.TrimSpace(doc.Find(sel).Text())
}

func TestHandleBillingView_RendersBothDocuments(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := httptest.NewRequest(http.MethodGet, "/billing/"+s.ID(), nil)
	rec, err := serve(env, HandleBillingView(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	sections := doc.Find("section.bill-document")
	require.Equal(t, 2, sections.Length())
	assert.Equal(t, "invoice", sections.Eq(0).AttrOr("data-kind", ""))
	assert.Equal(t, "challan", sections.Eq(1).AttrOr("data-kind", ""))
	assert.Equal(t, "screen", sections.Eq(0).AttrOr("data-mode", ""))

	assert.Equal(t, "GST INVOICE", sections.Eq(0).Find(".doc-title:not(.counterpart) h2").First().Text())
	assert.Equal(t, "DELIVERY CHALLAN", sections.Eq(1).Find(".doc-title:not(.counterpart) h2").First().Text())
	assert.Equal(t, 1, sections.Eq(1).Find(".doc-title.counterpart").Length())

	assert.Equal(t, 2, sections.Eq(0).Find("tr.item-row").Length())
	assert.Equal(t, 1, sections.Eq(0).Find("tr.new-item-row").Length())
	assert.Equal(t, "12", sections.Eq(0).Find(".invoice-no").Text())
	assert.Equal(t, "UPI", sections.Eq(0).Find(".payment").Text())
	assert.Equal(t, "₹210.00", grandTotal(doc, "invoice"))
	assert.Equal(t, "₹210.00", grandTotal(doc, "challan"))
	assert.Contains(t, sections.Eq(0).Find(".amount-words").Text(), "INR TWO HUNDRED TEN RUPEES AND ZERO PAISE ONLY")

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"/billing/"+s.ID()+"/print",
		"/billing/"+s.ID()+"/export/pdf",
		"/billing/"+s.ID()+"/place-order",
	)
}

func TestHandleBillingView_HTMXReturnsFragment(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(httptest.NewRequest(http.MethodGet, "/billing/"+s.ID(), nil))
	rec, err := serve(env, HandleBillingView(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<div id="bill-documents">`))
	assert.NotContains(t, body, "<!DOCTYPE html>")
}

func TestHandleBillingView_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/billing/missing", nil)
	rec, err := serve(env, HandleBillingView(env), req, map[string]string{"id": "missing"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, "No order found!", doc.Find("h1").Text())
	assert.Equal(t, "/", doc.Find("a.btn").AttrOr("href", ""))
}

func TestHandleBillingPrint(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)
	require.NoError(t, s.SetCashier("Yash"))

	req := httptest.NewRequest(http.MethodGet, "/billing/"+s.ID()+"/print", nil)
	rec, err := serve(env, HandleBillingPrint(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	sections := doc.Find("section.bill-document")
	require.Equal(t, 2, sections.Length())
	assert.Equal(t, "print", sections.Eq(0).AttrOr("data-mode", ""))
	assert.False(t, sections.Eq(0).HasClass("new-page"))
	assert.True(t, sections.Eq(1).HasClass("new-page"))

	assert.Equal(t, 0, doc.Find("section.bill-document input").Length())
	assert.Equal(t, 0, doc.Find("tr.new-item-row").Length())
	assert.Equal(t, 0, doc.Find("button.delete-item").Length())
	assert.Equal(t, "Yash", sections.Eq(0).Find(".cashier").Text())
	assert.Contains(t, rec.Body.String(), "window.print()")

	signatory := sections.Eq(0).Find("p.signatory").Text()
	assert.Contains(t, signatory, services.SignatoryFor(env.Sessions.Settings().Shop))
	assert.Contains(t, signatory, "Authorized Signatory")
}

func TestHandleBillingPrint_PageBreaks(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)
	for i := 0; i < 9; i++ {
		_, err := s.AddItem(services.ItemDraft{Name: fmt.Sprintf("Extra %d", i), Qty: 1, Price: 10})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/billing/"+s.ID()+"/print", nil)
	rec, err := serve(env, HandleBillingPrint(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	breaks := doc.Find(`section[data-kind="invoice"] tr.item-row.page-break-before`)
	require.Equal(t, 1, breaks.Length())
	assert.Equal(t, "11", breaks.AttrOr("data-serial", ""))
	assert.Equal(t, 2, doc.Find("tr.page-break-before").Length())
}

func TestHandleAddItem(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/items", url.Values{
		"name": {"Lassi"}, "qty": {"1"}, "price": {"60"},
	}))
	rec, err := serve(env, HandleAddItem(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, s.Items(), 3)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Lassi added")

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, 3, doc.Find(`section[data-kind="invoice"] tr.item-row`).Length())
	assert.Equal(t, "₹273.00", grandTotal(doc, "invoice"))
	assert.Equal(t, "4", doc.Find(`section[data-kind="invoice"] tr.new-item-row td.serial`).Text())
}

func TestHandleAddItem_RejectsZeroQty(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/items", url.Values{
		"name": {"Lassi"}, "qty": {"0"}, "price": {"60"},
	}))
	rec, err := serve(env, HandleAddItem(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	assert.Len(t, s.Items(), 2)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Please fill all fields for the new item.")
	assert.Contains(t, rec.Header().Get("HX-Trigger"), `"type":"warning"`)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	row := doc.Find(`section[data-kind="invoice"] tr.new-item-row`)
	assert.Equal(t, "Lassi", row.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "60", row.Find(`input[name="price"]`).AttrOr("value", ""))
	assert.Equal(t, 1, row.Find(".field-error").Length())
}

func TestHandleUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPatch, "/billing/"+s.ID()+"/items/0", url.Values{"qty": {"3"}}))
	rec, err := serve(env, HandleUpdateItem(env), req, map[string]string{"id": s.ID(), "index": "0"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3.0, s.Items()[0].Qty)
	assert.Equal(t, "Paneer Butter Masala", s.Items()[0].Name)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, "₹462.00", grandTotal(doc, "invoice"))
	assert.Equal(t, "₹462.00", grandTotal(doc, "challan"))
}

func TestHandleUpdateItem_BadNumberBecomesZero(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPatch, "/billing/"+s.ID()+"/items/1", url.Values{"price": {"abc"}}))
	_, err := serve(env, HandleUpdateItem(env), req, map[string]string{"id": s.ID(), "index": "1"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Items()[1].Price)
	assert.InDelta(t, 126, s.Breakdown().GrandTotal, 1e-9)
}

func TestHandleUpdateItem_InvalidIndex(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := formRequest(http.MethodPatch, "/billing/"+s.ID()+"/items/9", url.Values{"qty": {"1"}})
	rec, err := serve(env, HandleUpdateItem(env), req, map[string]string{"id": s.ID(), "index": "9"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))

	req = formRequest(http.MethodPatch, "/billing/"+s.ID()+"/items/x", url.Values{"qty": {"1"}})
	rec, err = serve(env, HandleUpdateItem(env), req, map[string]string{"id": s.ID(), "index": "x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(httptest.NewRequest(http.MethodDelete, "/billing/"+s.ID()+"/items/1", nil))
	rec, err := serve(env, HandleRemoveItem(env), req, map[string]string{"id": s.ID(), "index": "1"})
	require.NoError(t, err)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "Paneer Butter Masala", s.Items()[0].Name)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Butter Naan removed")

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, "₹126.00", grandTotal(doc, "invoice"))

	req = htmx(httptest.NewRequest(http.MethodDelete, "/billing/"+s.ID()+"/items/5", nil))
	rec, err = serve(env, HandleRemoveItem(env), req, map[string]string{"id": s.ID(), "index": "5"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDraftUpdate(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPatch, "/billing/"+s.ID()+"/draft", url.Values{
		"name": {"Chai"}, "qty": {"3"}, "price": {"25"},
	}))
	rec, err := serve(env, HandleDraftUpdate(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	assert.Equal(t, "75.00", rec.Body.String())
	assert.Equal(t, services.ItemDraft{Name: "Chai", Qty: 3, Price: 25}, s.Snapshot(testNow).Draft)
	assert.Len(t, s.Items(), 2, "draft edits never add rows")
}

func TestHandleSetDiscount(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/discount", url.Values{
		"discount_value": {"10"}, "discount_mode": {"percentage"},
	}))
	rec, err := serve(env, HandleSetDiscount(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	discount := doc.Find(`section[data-kind="invoice"] tr.summary-row[data-key="discount"] td.value`)
	assert.Equal(t, "- ₹20.00", discount.Text())
	assert.Equal(t, "₹189.00", grandTotal(doc, "invoice"))
	assert.Equal(t, "10", doc.Find(`input[name="discount_value"]`).First().AttrOr("value", ""))
}

func TestHandleSetDiscount_FixedIsClamped(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/discount", url.Values{
		"discount_value": {"500"}, "discount_mode": {"fixed"},
	}))
	rec, err := serve(env, HandleSetDiscount(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, "₹0.00", grandTotal(doc, "invoice"))
	assert.Equal(t, "INR ZERO PAISE ONLY", strings.TrimSpace(doc.Find(`section[data-kind="invoice"] .amount-words`).Text()))
}

func TestHandleSetCashier(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	page, err := serve(env, HandleBillingView(env), httptest.NewRequest(http.MethodGet, "/billing/"+s.ID(), nil), map[string]string{"id": s.ID()})
	require.NoError(t, err)
	options := testhelpers.ParseHTML(t, page.Body.String()).Find(`section[data-kind="invoice"] select.cashier-select option`)
	assert.Equal(t, len(services.DefaultCashiers), options.Length(), "no blank cashier choice")
	assert.Equal(t, "Yash", options.Filter("[selected]").AttrOr("value", ""))

	req := htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/cashier", url.Values{"cashier": {"Gauri"}}))
	rec, err := serve(env, HandleSetCashier(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	selected := doc.Find(`section[data-kind="invoice"] select.cashier-select option[selected]`)
	assert.Equal(t, "Gauri", selected.AttrOr("value", ""))

	req = htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/cashier", url.Values{"cashier": {"Nobody"}}))
	rec, err = serve(env, HandleSetCashier(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Gauri", s.Snapshot(testNow).Cashier)

	req = htmx(formRequest(http.MethodPost, "/billing/"+s.ID()+"/cashier", url.Values{"cashier": {""}}))
	rec, err = serve(env, HandleSetCashier(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Gauri", s.Snapshot(testNow).Cashier)
}

func TestHandlePlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)
	env.Carts.Update("cart-test", func(c *services.Cart) {
		c.Add(services.MenuItem{ID: "m1", Name: "Paneer Butter Masala", Price: 120})
	})

	req := htmx(httptest.NewRequest(http.MethodPost, "/billing/"+s.ID()+"/place-order", nil))
	rec, err := serve(env, HandlePlaceOrder(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/")
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Order #12 placed successfully!")
	assert.Equal(t, 0, env.Sessions.Len())
	assert.Empty(t, env.Carts.Items("cart-test"))

	req = httptest.NewRequest(http.MethodGet, "/billing/"+s.ID(), nil)
	rec, err = serve(env, HandleBillingView(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePlaceOrder_EmptyBill(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)
	_, _ = s.RemoveItem(0)
	_, _ = s.RemoveItem(0)

	req := htmx(httptest.NewRequest(http.MethodPost, "/billing/"+s.ID()+"/place-order", nil))
	rec, err := serve(env, HandlePlaceOrder(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, env.Sessions.Len())
}

func TestHandlePlaceOrder_PlainRedirect(t *testing.T) {
	env := newTestEnv(t)
	s := openTestSession(t, env)

	req := httptest.NewRequest(http.MethodPost, "/billing/"+s.ID()+"/place-order", nil)
	rec, err := serve(env, HandlePlaceOrder(env), req, map[string]string{"id": s.ID()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	var flash bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie {
			flash = true
		}
	}
	assert.True(t, flash, "toast survives the redirect in a flash cookie")
}
