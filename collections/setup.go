package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// MenuCategories are the menu filters in display order. "All" is implicit.
var MenuCategories = []string{"breakfast", "soups", "pasta", "main_course", "pizza", "burger"}

// Setup programmatically creates/ensures the menu_items and counters
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "menu_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    MenuCategories,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "food_type",
			Required:  true,
			Values:    []string{"veg", "non_veg"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "price", Required: true})
		c.Fields.Add(&core.TextField{Name: "image", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	// counters holds named monotonic sequences such as the order number.
	ensureCollection(app, "counters", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "value", Required: false, OnlyInt: true})
		c.AddIndex("idx_counters_name", true, "name", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		zap.L().Debug("collection already exists", zap.String("collection", name))
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		zap.L().Fatal("failed to create collection", zap.String("collection", name), zap.Error(err))
	}

	zap.L().Info("created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection
}
