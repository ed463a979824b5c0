package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"restrobilling/services"
)

type contextKey string

const CartIDKey contextKey = "cartID"

const cartCookie = "cart_id"

// GetCartID extracts the browser's cart id from the request context.
func GetCartID(r *http.Request) string {
	if val, ok := r.Context().Value(CartIDKey).(string); ok {
		return val
	}
	return ""
}

// CartMiddleware reads the "cart_id" cookie, issuing a fresh id when the
// browser has none, and stores it in the request context so cart and
// checkout handlers can find the cart.
func CartMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cartID := ""
		if cookie, err := e.Request.Cookie(cartCookie); err == nil {
			cartID = cookie.Value
		}
		if cartID == "" {
			cartID = services.NewCartID()
			zap.L().Debug("middleware: issuing cart id", zap.String("cart", cartID))
			http.SetCookie(e.Response, &http.Cookie{
				Name:     cartCookie,
				Value:    cartID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(e.Request.Context(), CartIDKey, cartID)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
