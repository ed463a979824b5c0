package services

import (
	"sync"

	"github.com/google/uuid"
)

// MenuItem is a dish from the menu catalogue.
type MenuItem struct {
	ID       string
	Name     string
	Category string
	Type     string // veg / non_veg
	Price    float64
	Image    string
}

// CartItem is a menu item with a quantity.
type CartItem struct {
	MenuID string
	Name   string
	Price  float64
	Image  string
	Qty    int
}

// LineItem converts the cart row into a billable line item. The menu ID is
// kept as the line item ID so rows stay recognisable on the bill.
func (ci CartItem) LineItem() LineItem {
	return LineItem{
		ID:    ci.MenuID,
		Name:  ci.Name,
		Qty:   float64(ci.Qty),
		Price: ci.Price,
		Unit:  DefaultUnit,
	}
}

// Cart is one customer's basket. Methods mirror the cart reducer actions.
type Cart struct {
	items []CartItem
}

// Add puts a menu item in the cart with qty 1, or bumps the qty if present.
func (c *Cart) Add(item MenuItem) {
	for i := range c.items {
		if c.items[i].MenuID == item.ID {
			c.items[i].Qty++
			return
		}
	}
	c.items = append(c.items, CartItem{
		MenuID: item.ID,
		Name:   item.Name,
		Price:  item.Price,
		Image:  item.Image,
		Qty:    1,
	})
}

// Increment raises the qty of a cart row by one.
func (c *Cart) Increment(menuID string) {
	for i := range c.items {
		if c.items[i].MenuID == menuID {
			c.items[i].Qty++
			return
		}
	}
}

// Decrement lowers the qty of a cart row; a row at qty 1 is removed.
func (c *Cart) Decrement(menuID string) {
	for i := range c.items {
		if c.items[i].MenuID != menuID {
			continue
		}
		if c.items[i].Qty > 1 {
			c.items[i].Qty--
			return
		}
		c.Remove(menuID)
		return
	}
}

// Remove drops a row regardless of its qty.
func (c *Cart) Remove(menuID string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.MenuID != menuID {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart rows.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Subtotal is the sum of qty * price over the cart.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.items {
		sum += float64(it.Qty) * it.Price
	}
	return sum
}

// CartRegistry holds the carts of all browsers, keyed by the cart cookie.
type CartRegistry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewCartRegistry returns an empty registry.
func NewCartRegistry() *CartRegistry {
	return &CartRegistry{carts: make(map[string]*Cart)}
}

// NewCartID returns a fresh cart identifier for the cart cookie.
func NewCartID() string {
	return uuid.NewString()
}

// Update runs fn against the cart with the given id, creating it on first use.
func (r *CartRegistry) Update(cartID string, fn func(*Cart)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		cart = &Cart{}
		r.carts[cartID] = cart
	}
	fn(cart)
}

// Items returns a snapshot of a cart's rows. Unknown carts are empty.
func (r *CartRegistry) Items(cartID string) []CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil
	}
	return cart.Items()
}

// OrderPlaced clears the cart an order came from once billing is finalised.
func (r *CartRegistry) OrderPlaced(order Order, cartID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, cartID)
}
