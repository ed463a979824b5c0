package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCartID_FromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), CartIDKey, "cart-1"))

	assert.Equal(t, "cart-1", GetCartID(req))
}

func TestGetCartID_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetCartID(req))
}

func TestCartMiddleware_UsesExistingCookie(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cartCookie, Value: "cart-abc"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(env.App, req, rec)

	_ = CartMiddleware()(e)

	assert.Equal(t, "cart-abc", GetCartID(e.Request))
	assert.Empty(t, rec.Result().Cookies(), "no new cookie expected")
}

func TestCartMiddleware_IssuesCookie(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(env.App, req, rec)

	_ = CartMiddleware()(e)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cartCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.Equal(t, cookies[0].Value, GetCartID(e.Request))
}
