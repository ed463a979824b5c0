package services

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemStore_Initialize(t *testing.T) {
	s := NewLineItemStore([]LineItem{
		{ID: "m1", Name: "Paneer", Qty: 1, Price: 120},
		{Name: "Naan", Qty: 2, Price: 40, Unit: "plate"},
	})

	got := s.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, DefaultUnit, got[0].Unit)
	assert.NotEmpty(t, got[1].ID)
	assert.Equal(t, "plate", got[1].Unit)

	s.Initialize(nil)
	assert.Equal(t, 0, s.Len())
}

func TestLineItemStore_ItemsIsCopy(t *testing.T) {
	s := NewLineItemStore([]LineItem{{Name: "Soup", Qty: 1, Price: 90}})
	got := s.Items()
	got[0].Name = "changed"
	assert.Equal(t, "Soup", s.Items()[0].Name)
}

func TestLineItemStore_UpdateField(t *testing.T) {
	s := NewLineItemStore([]LineItem{{Name: "Soup", Qty: 1, Price: 90}})

	require.NoError(t, s.UpdateField(0, FieldName, "  Tomato Soup "))
	require.NoError(t, s.UpdateField(0, FieldQty, "2.5"))
	require.NoError(t, s.UpdateField(0, FieldPrice, "80"))

	item := s.Items()[0]
	assert.Equal(t, "Tomato Soup", item.Name)
	assert.Equal(t, 2.5, item.Qty)
	assert.Equal(t, 80.0, item.Price)
	assert.Equal(t, 200.0, item.Amount())
}

func TestLineItemStore_UpdateFieldCoercesBadNumbers(t *testing.T) {
	s := NewLineItemStore([]LineItem{{Name: "Soup", Qty: 3, Price: 90}})

	require.NoError(t, s.UpdateField(0, FieldQty, "abc"))
	require.NoError(t, s.UpdateField(0, FieldPrice, ""))

	item := s.Items()[0]
	assert.Equal(t, 0.0, item.Qty)
	assert.Equal(t, 0.0, item.Price)
}

func TestLineItemStore_UpdateFieldErrors(t *testing.T) {
	s := NewLineItemStore([]LineItem{{Name: "Soup", Qty: 1, Price: 90}})

	err := s.UpdateField(3, FieldQty, "1")
	assert.True(t, errors.Is(err, ErrItemIndexOutOfRange))

	err = s.UpdateField(-1, FieldQty, "1")
	assert.True(t, errors.Is(err, ErrItemIndexOutOfRange))

	err = s.UpdateField(0, "unit", "kg")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestLineItemStore_AddItem(t *testing.T) {
	s := NewLineItemStore(nil)
	draft := ItemDraft{Name: " Gulab Jamun ", Qty: 2, Price: 35}

	item, err := s.AddItem(&draft)
	require.NoError(t, err)

	assert.Equal(t, "Gulab Jamun", item.Name)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, DefaultUnit, item.Unit)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, NewItemDraft(), draft, "draft resets after a successful add")
}

func TestLineItemStore_AddItemRejectsZeroQty(t *testing.T) {
	s := NewLineItemStore([]LineItem{{Name: "Soup", Qty: 1, Price: 90}})
	draft := ItemDraft{Name: "Lassi", Qty: 0, Price: 60}

	_, err := s.AddItem(&draft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredFields))

	var de *DraftError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Fields, "qty")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, ItemDraft{Name: "Lassi", Qty: 0, Price: 60}, draft)
}

func TestLineItemStore_AddItemRejectsIncompleteDrafts(t *testing.T) {
	tests := []struct {
		name  string
		draft ItemDraft
		field string
	}{
		{"blank name", ItemDraft{Name: "   ", Qty: 1, Price: 10}, "name"},
		{"negative qty", ItemDraft{Name: "Tea", Qty: -1, Price: 10}, "qty"},
		{"zero price", ItemDraft{Name: "Tea", Qty: 1, Price: 0}, "price"},
		{"negative price", ItemDraft{Name: "Tea", Qty: 1, Price: -5}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLineItemStore(nil)
			draft := tt.draft

			_, err := s.AddItem(&draft)
			var de *DraftError
			require.True(t, errors.As(err, &de))
			assert.Contains(t, de.Fields, tt.field)
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, tt.draft, draft)
		})
	}
}

func TestLineItemStore_RemoveItem(t *testing.T) {
	s := NewLineItemStore([]LineItem{
		{ID: "a", Name: "A", Qty: 1, Price: 1},
		{ID: "b", Name: "B", Qty: 1, Price: 1},
		{ID: "c", Name: "C", Qty: 1, Price: 1},
	})

	removed, err := s.RemoveItem(1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.ID)

	got := s.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	_, err = s.RemoveItem(5)
	assert.True(t, errors.Is(err, ErrItemIndexOutOfRange))

	_, _ = s.RemoveItem(0)
	_, _ = s.RemoveItem(0)
	assert.Equal(t, 0, s.Len())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"12", 12},
		{" 3.5 ", 3.5},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-4", -4},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.raw))
		})
	}
}

func TestItemDraft_Set(t *testing.T) {
	d := NewItemDraft()
	require.NoError(t, d.Set(FieldName, "Tea"))
	require.NoError(t, d.Set(FieldQty, "4"))
	require.NoError(t, d.Set(FieldPrice, "x"))

	assert.Equal(t, ItemDraft{Name: "Tea", Qty: 4, Price: 0}, d)
	assert.Equal(t, 0.0, d.Amount())
	assert.True(t, errors.Is(d.Set("unit", "kg"), ErrUnknownField))
}
