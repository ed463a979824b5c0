package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restrobilling/services"
	"restrobilling/testhelpers"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDraftAmount_RendersBareAmount(t *testing.T) {
	out := render(t, DraftAmount(services.ItemDraft{Name: "Lassi", Qty: 2, Price: 37.5}))
	assert.Equal(t, "75.00", out)
}

func TestCheckoutForm_EscapesAndKeepsCVVBlank(t *testing.T) {
	data := MenuPageData{
		Form: services.CheckoutForm{
			Name:          `<b>Asha</b>`,
			PaymentMethod: services.PaymentCard,
			CardNumber:    "4111111111111111",
			CardCVV:       "123",
		},
		Errors:      map[string]string{"cardExpiry": "Enter card expiry"},
		NextOrderNo: 7,
	}
	out := render(t, CheckoutForm(data))
	assert.NotContains(t, out, "<b>Asha</b>")

	doc := testhelpers.ParseHTML(t, out)
	assert.Equal(t, "Order #7", doc.Find(".next-order").Text())
	assert.Equal(t, `<b>Asha</b>`, doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "", doc.Find(`input[name="cardCvv"]`).AttrOr("value", "x"))
	assert.Equal(t, "password", doc.Find(`input[name="cardCvv"]`).AttrOr("type", ""))
	assert.Equal(t, "card", doc.Find(`input[name="paymentMethod"][checked]`).AttrOr("value", ""))
	assert.Equal(t, "pickup", doc.Find(`input[name="deliveryType"][checked]`).AttrOr("value", ""))
	assert.Equal(t, "Enter card expiry", doc.Find(`.field-error[data-field="cardExpiry"]`).Text())
	assert.Equal(t, 1, doc.Find(".field-error").Length())
}

func TestCartSection_EmptyAndFilled(t *testing.T) {
	doc := testhelpers.ParseHTML(t, render(t, CartSection(CartData{})))
	assert.Equal(t, "Your cart is empty.", doc.Find("p.empty").Text())
	assert.Equal(t, 0, doc.Find(".cart-summary").Length())

	cart := CartData{
		Items:       []services.CartItem{{MenuID: "m1", Name: "Veg Thali", Price: 100, Qty: 2}},
		Subtotal:    200,
		DeliveryFee: 50,
	}
	doc = testhelpers.ParseHTML(t, render(t, CartSection(cart)))
	assert.Equal(t, "/cart/items/m1/increment", doc.Find("li.cart-item button").Eq(1).AttrOr("hx-post", ""))
	assert.Equal(t, "₹50.00", doc.Find(".delivery-fee").Text())
	assert.Equal(t, "₹250.00", doc.Find(".total").Text())
}

func TestMenuPage_CategoryLinks(t *testing.T) {
	data := MenuPageData{Categories: []string{AllCategories, "soups"}, Active: "soups"}
	doc := testhelpers.ParseHTML(t, render(t, MenuPage(data)))

	links := doc.Find("nav.categories a")
	require.Equal(t, 2, links.Length())
	assert.Equal(t, "/", links.Eq(0).AttrOr("href", ""))
	assert.Equal(t, "category", links.Eq(0).AttrOr("class", ""))
	assert.Equal(t, "/?category=soups", links.Eq(1).AttrOr("href", ""))
	assert.Equal(t, "category active", links.Eq(1).AttrOr("class", ""))
	assert.Equal(t, "No dishes in this category.", doc.Find(".menu-items p.empty").Text())
}

func TestDocumentsSection_PrintModeHidesControls(t *testing.T) {
	items := []services.LineItem{{Name: "Veg Thali", Qty: 1, Price: 100, Unit: services.DefaultUnit}}
	in := services.DocumentInput{
		Order: services.Order{
			OrderID: "9",
			Items:   items,
			Payment: services.Payment{Method: services.PaymentCOD},
		},
		Items:    items,
		Discount: services.DiscountConfig{Mode: services.DiscountPercentage, Value: 10},
		GSTRate:  services.DefaultGSTRate,
		Cashier:  "Gauri",
		Cashiers: services.DefaultCashiers,
		Shop:     services.DefaultShopProfile(),
	}
	data := BillingPageData{SessionID: "s1", OrderID: "9", Documents: services.BuildDocuments(in, services.ModePrint)}
	doc := testhelpers.ParseHTML(t, render(t, DocumentsSection(data)))

	invoice := doc.Find(`section[data-kind="invoice"]`)
	assert.Equal(t, "print", invoice.AttrOr("data-mode", ""))
	assert.Equal(t, 0, invoice.Find("input, select, button").Length())
	assert.Equal(t, "Gauri", invoice.Find(".cashier").Text())
	assert.Equal(t, "Veg Thali", invoice.Find("tr.item-row td.name").Text())
	assert.Contains(t, invoice.Find(`tr.summary-row[data-key="discount"] td.label`).Text(), "(10%)")
	assert.True(t, doc.Find(`section[data-kind="challan"]`).HasClass("new-page"))
}
