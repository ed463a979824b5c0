package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restrobilling/testhelpers"
)

func TestHandleCartAdd(t *testing.T) {
	env := newTestEnv(t)
	item := testhelpers.CreateTestMenuItem(t, env.App, "Paneer Tikka", "main_course", 120)

	add := func() *httptest.ResponseRecorder {
		req := htmx(withCart(httptest.NewRequest(http.MethodPost, "/cart/items/"+item.Id, nil), "c1"))
		rec, err := serve(env, HandleCartAdd(env), req, map[string]string{"menuId": item.Id})
		require.NoError(t, err)
		return rec
	}

	add()
	rec := add()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Paneer Tikka added to cart")

	items := env.Carts.Items("c1")
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, "2", doc.Find("li.cart-item .qty").Text())
	assert.Equal(t, "₹240.00", doc.Find(".subtotal").Text())
	assert.Equal(t, "₹240.00", doc.Find(".total").Text())
}

func TestHandleCartAdd_UnknownItem(t *testing.T) {
	env := newTestEnv(t)

	req := withCart(httptest.NewRequest(http.MethodPost, "/cart/items/nope", nil), "c1")
	rec, err := serve(env, HandleCartAdd(env), req, map[string]string{"menuId": "nope"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.Carts.Items("c1"))
}

func TestHandleCartQuantityControls(t *testing.T) {
	env := newTestEnv(t)
	item := testhelpers.CreateTestMenuItem(t, env.App, "Veg Pizza", "pizza", 250)
	paths := map[string]string{"menuId": item.Id}

	req := withCart(httptest.NewRequest(http.MethodPost, "/", nil), "c1")
	_, err := serve(env, HandleCartAdd(env), req, paths)
	require.NoError(t, err)

	req = withCart(httptest.NewRequest(http.MethodPost, "/", nil), "c1")
	_, err = serve(env, HandleCartIncrement(env), req, paths)
	require.NoError(t, err)
	assert.Equal(t, 2, env.Carts.Items("c1")[0].Qty)

	req = withCart(httptest.NewRequest(http.MethodPost, "/", nil), "c1")
	_, err = serve(env, HandleCartDecrement(env), req, paths)
	require.NoError(t, err)
	assert.Equal(t, 1, env.Carts.Items("c1")[0].Qty)

	req = withCart(httptest.NewRequest(http.MethodPost, "/", nil), "c1")
	rec, err := serve(env, HandleCartDecrement(env), req, paths)
	require.NoError(t, err)
	assert.Empty(t, env.Carts.Items("c1"))
	assert.Contains(t, rec.Body.String(), "Your cart is empty.")
}

func TestHandleCartRemoveAndClear(t *testing.T) {
	env := newTestEnv(t)
	a := testhelpers.CreateTestMenuItem(t, env.App, "Burger", "burger", 90)
	b := testhelpers.CreateTestMenuItem(t, env.App, "Pasta", "pasta", 180)

	for _, id := range []string{a.Id, b.Id} {
		req := withCart(httptest.NewRequest(http.MethodPost, "/", nil), "c1")
		_, err := serve(env, HandleCartAdd(env), req, map[string]string{"menuId": id})
		require.NoError(t, err)
	}

	req := withCart(httptest.NewRequest(http.MethodDelete, "/", nil), "c1")
	_, err := serve(env, HandleCartRemove(env), req, map[string]string{"menuId": a.Id})
	require.NoError(t, err)
	items := env.Carts.Items("c1")
	require.Len(t, items, 1)
	assert.Equal(t, b.Id, items[0].MenuID)

	req = withCart(httptest.NewRequest(http.MethodDelete, "/cart", nil), "c1")
	_, err = serve(env, HandleCartClear(env), req, nil)
	require.NoError(t, err)
	assert.Empty(t, env.Carts.Items("c1"))
}

func TestHandleCart_HomeDeliveryFee(t *testing.T) {
	env := newTestEnv(t)
	item := testhelpers.CreateTestMenuItem(t, env.App, "Soup", "soups", 100)

	req := withCart(httptest.NewRequest(http.MethodPost, "/cart/items/"+item.Id+"?deliveryType=home", nil), "c1")
	rec, err := serve(env, HandleCartAdd(env), req, map[string]string{"menuId": item.Id})
	require.NoError(t, err)

	doc := testhelpers.ParseHTML(t, rec.Body.String())
	assert.Equal(t, "₹50.00", doc.Find(".delivery-fee").Text())
	assert.Equal(t, "₹150.00", doc.Find(".total").Text())
}
