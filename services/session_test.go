package services

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCompletion struct {
	order  Order
	cartID string
	calls  int
}

func (r *recordedCompletion) OrderPlaced(order Order, cartID string) {
	r.order = order
	r.cartID = cartID
	r.calls++
}

func newTestRegistry(ttl time.Duration) (*SessionRegistry, *time.Time) {
	now := fixtureDate
	r := NewSessionRegistry(SessionSettings{GSTRate: DefaultGSTRate, Shop: DefaultShopProfile()}, ttl)
	r.now = func() time.Time { return now }
	return r, &now
}

func TestNewSessionRegistry_Defaults(t *testing.T) {
	r := NewSessionRegistry(SessionSettings{}, 0)
	assert.Equal(t, DefaultCashiers, r.Settings().Cashiers)

	r = NewSessionRegistry(SessionSettings{GSTRate: 12, Cashiers: []string{"Ravi"}}, 0)
	assert.Equal(t, []string{"Ravi"}, r.Settings().Cashiers)
	assert.Equal(t, 12.0, r.Settings().GSTRate)
}

func TestSessionRegistry_ZeroGSTRate(t *testing.T) {
	r := NewSessionRegistry(SessionSettings{GSTRate: 0}, 0)
	assert.Equal(t, 0.0, r.Settings().GSTRate)

	s := r.Open(Order{Items: fixtureItems(4)}, "")
	b := s.Breakdown()
	assert.Equal(t, 0.0, b.GSTRate)
	assert.Equal(t, 0.0, b.GSTAmount)
	assert.InDelta(t, 100, b.GrandTotal, 1e-9)
}

func TestSessionRegistry_OpenAndGet(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(fixtureInput(fixtureItems(2)).Order, "cart-1")

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())
	assert.Len(t, got.Items(), 2)

	_, err = r.Get("nope")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestBillingSession_EditsDoNotTouchOrder(t *testing.T) {
	r, _ := newTestRegistry(0)
	order := fixtureInput(fixtureItems(2)).Order
	s := r.Open(order, "cart-1")

	require.NoError(t, s.UpdateItem(0, FieldQty, "5"))
	_, err := s.RemoveItem(1)
	require.NoError(t, err)

	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 5.0, s.Items()[0].Qty)
	assert.Len(t, s.Order().Items, 2)
	assert.Equal(t, 1.0, s.Order().Items[0].Qty)
	assert.Equal(t, "42", s.Order().OrderID)
}

func TestBillingSession_AddItemKeepsRejectedDraft(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{}, "")

	_, err := s.AddItem(ItemDraft{Name: "Lassi", Qty: 0, Price: 60})
	require.True(t, errors.Is(err, ErrMissingRequiredFields))

	snap := s.Snapshot(fixtureDate)
	assert.Empty(t, snap.Items)
	assert.Equal(t, ItemDraft{Name: "Lassi", Qty: 0, Price: 60}, snap.Draft)
	assert.Contains(t, snap.DraftErrors, "qty")

	_, err = s.AddItem(ItemDraft{Name: "Lassi", Qty: 1, Price: 60})
	require.NoError(t, err)

	snap = s.Snapshot(fixtureDate)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, NewItemDraft(), snap.Draft)
	assert.Empty(t, snap.DraftErrors)
}

func TestBillingSession_SetDraftField(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{}, "")

	require.NoError(t, s.SetDraftField(FieldName, "Tea"))
	require.NoError(t, s.SetDraftField(FieldPrice, "15"))
	assert.Equal(t, ItemDraft{Name: "Tea", Qty: 1, Price: 15}, s.Snapshot(fixtureDate).Draft)
	assert.Error(t, s.SetDraftField("color", "red"))
}

func TestBillingSession_SetDiscount(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{Items: []LineItem{{Name: "Thali", Qty: 2, Price: 100}}}, "")

	cfg := s.SetDiscount(DiscountPercentage, "10")
	assert.Equal(t, DiscountConfig{Mode: DiscountPercentage, Value: 10}, cfg)
	assert.InDelta(t, 189, s.Breakdown().GrandTotal, 1e-9)

	cfg = s.SetDiscount(DiscountFixed, "-30")
	assert.Equal(t, 0.0, cfg.Value)

	cfg = s.SetDiscount(DiscountFixed, "junk")
	assert.Equal(t, 0.0, cfg.Value)
	assert.InDelta(t, 210, s.Breakdown().GrandTotal, 1e-9)
}

func TestBillingSession_SetCashier(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{}, "")
	assert.Equal(t, "Yash", s.Snapshot(fixtureDate).Cashier, "first configured cashier is preselected")

	require.NoError(t, s.SetCashier(" Gauri "))
	assert.Equal(t, "Gauri", s.Snapshot(fixtureDate).Cashier)

	err := s.SetCashier("Mallory")
	assert.True(t, errors.Is(err, ErrUnknownCashier))
	assert.Equal(t, "Gauri", s.Snapshot(fixtureDate).Cashier)

	err = s.SetCashier("  ")
	assert.True(t, errors.Is(err, ErrUnknownCashier))
	assert.Equal(t, "Gauri", s.Snapshot(fixtureDate).Cashier)
}

func TestBillingSession_DefaultCashierFollowsSettings(t *testing.T) {
	r := NewSessionRegistry(SessionSettings{Cashiers: []string{"Ravi", "Sita"}}, 0)
	s := r.Open(Order{}, "")
	assert.Equal(t, "Ravi", s.Snapshot(fixtureDate).Cashier)
}

func TestSessionRegistry_Finalize(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(fixtureInput(fixtureItems(2)).Order, "cart-9")
	require.NoError(t, s.UpdateItem(0, FieldPrice, "15"))

	sink := &recordedCompletion{}
	order, err := r.Finalize(s.ID(), sink)
	require.NoError(t, err)

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "cart-9", sink.cartID)
	assert.Equal(t, 15.0, order.Items[0].Price)
	assert.Equal(t, order, sink.order)
	assert.Equal(t, 0, r.Len())

	_, err = r.Finalize(s.ID(), sink)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, 1, sink.calls)
}

func TestSessionRegistry_FinalizeEmptyBill(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{}, "cart-1")
	sink := &recordedCompletion{}

	_, err := r.Finalize(s.ID(), sink)
	assert.True(t, errors.Is(err, ErrNothingToBill))
	assert.Equal(t, 0, sink.calls)
	assert.Equal(t, 1, r.Len())
}

func TestSessionRegistry_Sweep(t *testing.T) {
	r, now := newTestRegistry(time.Hour)
	stale := r.Open(Order{}, "")
	*now = now.Add(45 * time.Minute)
	fresh := r.Open(Order{}, "")

	*now = now.Add(30 * time.Minute)
	expired := r.Sweep()
	assert.Equal(t, []string{stale.ID()}, expired)

	_, err := r.Get(fresh.ID())
	assert.NoError(t, err)
	_, err = r.Get(stale.ID())
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionRegistry_SweepDisabled(t *testing.T) {
	r, now := newTestRegistry(0)
	r.Open(Order{}, "")
	*now = now.Add(1000 * time.Hour)
	assert.Nil(t, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestSessionRegistry_Remove(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{}, "")
	r.Remove(s.ID())
	assert.Equal(t, 0, r.Len())
}

func TestBillingSession_ConcurrentEdits(t *testing.T) {
	r, _ := newTestRegistry(0)
	s := r.Open(Order{}, "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddItem(ItemDraft{Name: "Tea", Qty: 1, Price: 10})
			_ = s.Breakdown()
		}()
	}
	wg.Wait()

	assert.Len(t, s.Items(), 20)
	assert.InDelta(t, 210, s.Breakdown().GrandTotal, 1e-9)
}
