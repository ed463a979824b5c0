package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"restrobilling/config"
	"restrobilling/services"
	"restrobilling/testhelpers"
)

var testNow = time.Date(2025, time.March, 14, 12, 30, 0, 0, time.UTC)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestEnv returns an Env on a fresh test app with a fixed clock.
func newTestEnv(t *testing.T) *Env {
	t.Helper()

	env := NewEnv(testhelpers.NewTestApp(t), config.Load())
	env.Now = func() time.Time { return testNow }
	return env
}

// withCart attaches a cart id to the request context as CartMiddleware would.
func withCart(req *http.Request, cartID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), CartIDKey, cartID))
}

// openTestSession opens a billing session for a small two-line order.
func openTestSession(t *testing.T, env *Env) *services.BillingSession {
	t.Helper()

	order := services.Order{
		OrderID:  "12",
		Customer: services.Customer{Name: "Asha", Address: "Holi Gate", Mobile: "9876543210"},
		Items: []services.LineItem{
			{Name: "Paneer Butter Masala", Qty: 1, Price: 120},
			{Name: "Butter Naan", Qty: 2, Price: 40},
		},
		Payment:  services.Payment{Method: services.PaymentUPI},
		PlacedAt: testNow,
	}
	return env.Sessions.Open(order, "cart-test")
}

// serve runs handler against a request with the path values set.
func serve(env *Env, handler func(*core.RequestEvent) error, req *http.Request, pathValues map[string]string) (*httptest.ResponseRecorder, error) {
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	err := handler(newTestRequestEvent(env.App, req, rec))
	return rec, err
}

// formRequest builds a url-encoded form request.
func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// htmx marks req as issued by HTMX.
func htmx(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}
