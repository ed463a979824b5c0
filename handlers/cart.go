package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"restrobilling/services"
	"restrobilling/templates"
)

func renderCart(env *Env, e *core.RequestEvent) error {
	cart := buildCartData(env, GetCartID(e.Request), e.Request.FormValue("deliveryType"))
	return templates.CartSection(cart).Render(e.Request.Context(), e.Response)
}

// HandleCartAdd handles POST /cart/items/{menuId}.
func HandleCartAdd(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		menuID := e.Request.PathValue("menuId")
		record, err := env.App.FindRecordById("menu_items", menuID)
		if err != nil {
			zap.L().Info("cart: menu item not found", zap.String("menu_id", menuID))
			return ErrorToast(e, http.StatusNotFound, "Menu item not found")
		}

		item := menuItemFromRecord(record)
		env.Carts.Update(GetCartID(e.Request), func(c *services.Cart) {
			c.Add(item)
		})
		SetToast(e, ToastSuccess, item.Name+" added to cart")
		return renderCart(env, e)
	}
}

// HandleCartIncrement handles POST /cart/items/{menuId}/increment.
func HandleCartIncrement(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		menuID := e.Request.PathValue("menuId")
		env.Carts.Update(GetCartID(e.Request), func(c *services.Cart) {
			c.Increment(menuID)
		})
		return renderCart(env, e)
	}
}

// HandleCartDecrement handles POST /cart/items/{menuId}/decrement. A row at
// qty 1 is removed.
func HandleCartDecrement(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		menuID := e.Request.PathValue("menuId")
		env.Carts.Update(GetCartID(e.Request), func(c *services.Cart) {
			c.Decrement(menuID)
		})
		return renderCart(env, e)
	}
}

// HandleCartRemove handles DELETE /cart/items/{menuId}.
func HandleCartRemove(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		menuID := e.Request.PathValue("menuId")
		env.Carts.Update(GetCartID(e.Request), func(c *services.Cart) {
			c.Remove(menuID)
		})
		SetToast(e, ToastInfo, "Item removed")
		return renderCart(env, e)
	}
}

// HandleCartClear handles DELETE /cart.
func HandleCartClear(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		env.Carts.Update(GetCartID(e.Request), func(c *services.Cart) {
			c.Clear()
		})
		return renderCart(env, e)
	}
}
