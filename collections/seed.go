package collections

import (
	"github.com/pkg/errors"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type menuDef struct {
	name     string
	category string
	foodType string
	price    float64
	image    string
}

var menuSeed = []menuDef{
	{"Pancake", "breakfast", "veg", 199, "/static/img/pancake.jpg"},
	{"Masala Dosa", "breakfast", "veg", 149, "/static/img/dosa.jpg"},
	{"Egg Omelette", "breakfast", "non_veg", 129, "/static/img/omelette.jpg"},
	{"Tomato Soup", "soups", "veg", 119, "/static/img/tomato-soup.jpg"},
	{"Sweet Corn Soup", "soups", "veg", 129, "/static/img/corn-soup.jpg"},
	{"Chicken Soup", "soups", "non_veg", 169, "/static/img/chicken-soup.jpg"},
	{"White Sauce Pasta", "pasta", "veg", 249, "/static/img/white-pasta.jpg"},
	{"Red Sauce Pasta", "pasta", "veg", 229, "/static/img/red-pasta.jpg"},
	{"Paneer Butter Masala", "main_course", "veg", 299, "/static/img/paneer.jpg"},
	{"Dal Makhani", "main_course", "veg", 249, "/static/img/dal.jpg"},
	{"Butter Chicken", "main_course", "non_veg", 349, "/static/img/butter-chicken.jpg"},
	{"Margherita Pizza", "pizza", "veg", 279, "/static/img/margherita.jpg"},
	{"Farmhouse Pizza", "pizza", "veg", 349, "/static/img/farmhouse.jpg"},
	{"Chicken Tikka Pizza", "pizza", "non_veg", 399, "/static/img/tikka-pizza.jpg"},
	{"Aloo Tikki Burger", "burger", "veg", 99, "/static/img/tikki-burger.jpg"},
	{"Chicken Burger", "burger", "non_veg", 159, "/static/img/chicken-burger.jpg"},
}

// Seed populates the menu catalogue. It is idempotent: it returns early if
// any menu item already exists.
func Seed(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("menu_items")
	if err != nil {
		return errors.Wrap(err, "seed: could not find menu_items collection")
	}

	existing, err := app.FindAllRecords(col)
	if err != nil {
		return errors.Wrap(err, "seed: could not query menu_items")
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	zap.L().Info("seed: menu_items collection is empty, inserting menu")

	return app.RunInTransaction(func(txApp core.App) error {
		for i, d := range menuSeed {
			r := core.NewRecord(col)
			r.Set("name", d.name)
			r.Set("category", d.category)
			r.Set("food_type", d.foodType)
			r.Set("price", d.price)
			r.Set("image", d.image)
			r.Set("sort_order", i+1)
			if err := txApp.Save(r); err != nil {
				return errors.Wrapf(err, "seed: save menu item %q", d.name)
			}
		}
		return nil
	})
}
