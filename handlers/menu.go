package handlers

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"restrobilling/collections"
	"restrobilling/services"
	"restrobilling/templates"
)

// loadMenu returns the dishes in a category ("All" or empty for every dish)
// whose name contains q.
func loadMenu(app *pocketbase.PocketBase, category, q string) ([]services.MenuItem, error) {
	filters := []string{"id != ''"}
	params := map[string]any{}
	if category != "" && category != templates.AllCategories {
		filters = append(filters, "category = {:category}")
		params["category"] = category
	}
	if q != "" {
		filters = append(filters, "name ~ {:q}")
		params["q"] = q
	}

	records, err := app.FindRecordsByFilter("menu_items", strings.Join(filters, " && "), "sort_order,name", 0, 0, params)
	if err != nil {
		return nil, errors.Wrap(err, "query menu_items")
	}

	items := make([]services.MenuItem, 0, len(records))
	for _, r := range records {
		items = append(items, menuItemFromRecord(r))
	}
	return items, nil
}

func menuItemFromRecord(r *core.Record) services.MenuItem {
	return services.MenuItem{
		ID:       r.Id,
		Name:     r.GetString("name"),
		Category: r.GetString("category"),
		Type:     r.GetString("food_type"),
		Price:    r.GetFloat("price"),
		Image:    r.GetString("image"),
	}
}

// buildCartData snapshots a cart with its totals for the given delivery type.
func buildCartData(env *Env, cartID, deliveryType string) templates.CartData {
	items := env.Carts.Items(cartID)
	form := services.CheckoutForm{DeliveryType: deliveryType}.Normalize()

	var subtotal float64
	for _, it := range items {
		subtotal += float64(it.Qty) * it.Price
	}
	return templates.CartData{
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: form.DeliveryFee(env.Config.Billing.HomeDeliveryFee),
		HomeFee:     env.Config.Billing.HomeDeliveryFee,
	}
}

func buildMenuPageData(env *Env, r *http.Request, form services.CheckoutForm, errs map[string]string) (templates.MenuPageData, error) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		category = templates.AllCategories
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	items, err := loadMenu(env.App, category, q)
	if err != nil {
		return templates.MenuPageData{}, err
	}

	data := templates.MenuPageData{
		Categories: append([]string{templates.AllCategories}, collections.MenuCategories...),
		Active:     category,
		Items:      items,
		Cart:       buildCartData(env, GetCartID(r), form.DeliveryType),
		Form:       form,
		Errors:     errs,
	}
	next, err := env.Orders.Peek()
	if err != nil {
		return templates.MenuPageData{}, errors.Wrap(err, "peek order number")
	}
	data.NextOrderNo = next
	return data, nil
}

// HandleMenu handles GET / with optional ?category= and ?q= filters.
func HandleMenu(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildMenuPageData(env, e.Request, services.CheckoutForm{}, nil)
		if err != nil {
			return internalError(e, "menu: load failed", err)
		}
		return templates.MenuPage(data).Render(e.Request.Context(), e.Response)
	}
}
