package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	menuPaneer = MenuItem{ID: "m1", Name: "Paneer Tikka", Price: 120}
	menuNaan   = MenuItem{ID: "m2", Name: "Butter Naan", Price: 40}
)

func TestCart_AddIncrementDecrement(t *testing.T) {
	var c Cart
	c.Add(menuPaneer)
	c.Add(menuNaan)
	c.Add(menuNaan)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Qty)
	assert.Equal(t, 2, items[1].Qty)
	assert.Equal(t, 200.0, c.Subtotal())

	c.Increment("m1")
	c.Decrement("m2")
	c.Increment("unknown")
	items = c.Items()
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 1, items[1].Qty)

	c.Decrement("m2")
	items = c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].MenuID)
}

func TestCart_RemoveAndClear(t *testing.T) {
	var c Cart
	c.Add(menuPaneer)
	c.Add(menuNaan)

	c.Remove("m1")
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "m2", c.Items()[0].MenuID)

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Subtotal())
}

func TestCartItem_LineItem(t *testing.T) {
	li := CartItem{MenuID: "m1", Name: "Paneer Tikka", Price: 120, Qty: 3}.LineItem()
	assert.Equal(t, LineItem{ID: "m1", Name: "Paneer Tikka", Qty: 3, Price: 120, Unit: DefaultUnit}, li)
}

func TestCartRegistry(t *testing.T) {
	r := NewCartRegistry()
	assert.Nil(t, r.Items("a"))

	r.Update("a", func(c *Cart) { c.Add(menuPaneer) })
	r.Update("b", func(c *Cart) { c.Add(menuNaan) })
	assert.Len(t, r.Items("a"), 1)
	assert.Equal(t, "m2", r.Items("b")[0].MenuID)

	r.OrderPlaced(Order{OrderID: "1"}, "a")
	assert.Empty(t, r.Items("a"))
	assert.Len(t, r.Items("b"), 1)
}

func TestNewCartID(t *testing.T) {
	a, b := NewCartID(), NewCartID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
