package handlers

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"restrobilling/services"
	"restrobilling/templates"
)

func checkoutFormFromRequest(r *http.Request) services.CheckoutForm {
	return services.CheckoutForm{
		Name:          r.FormValue("name"),
		Address:       r.FormValue("address"),
		Mobile:        r.FormValue("mobile"),
		Email:         r.FormValue("email"),
		DeliveryType:  r.FormValue("deliveryType"),
		PaymentMethod: r.FormValue("paymentMethod"),
		UPIID:         r.FormValue("upiId"),
		CardNumber:    r.FormValue("cardNumber"),
		CardExpiry:    r.FormValue("cardExpiry"),
		CardCVV:       r.FormValue("cardCvv"),
	}.Normalize()
}

// HandleCheckout handles POST /checkout. A valid form with a non-empty cart
// becomes an Order with the next order number and opens a billing session.
func HandleCheckout(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		cartID := GetCartID(e.Request)
		form := checkoutFormFromRequest(e.Request)

		order, err := services.PlaceOrder(form, env.Carts.Items(cartID), env.Orders, env.Now())

		var verr *services.CheckoutValidationError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return ErrorToast(e, http.StatusUnprocessableEntity, "Your cart is empty")
		case errors.As(err, &verr):
			SetToast(e, ToastWarning, "Please fix the errors below")
			data, buildErr := buildMenuPageData(env, e.Request, form, verr.Fields)
			if buildErr != nil {
				return internalError(e, "checkout: build menu data failed", buildErr)
			}
			return templates.CheckoutForm(data).Render(e.Request.Context(), e.Response)
		case err != nil:
			return internalError(e, "checkout: place order failed", err)
		}

		session := env.Sessions.Open(order, cartID)
		zap.L().Info("checkout: order placed",
			zap.String("order_id", order.OrderID),
			zap.String("session", session.ID()),
			zap.Int("items", len(order.Items)))

		return redirect(e, "/billing/"+session.ID())
	}
}
