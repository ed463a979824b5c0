package services

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// DefaultUnit is shown in the "per" column when an item carries no unit.
const DefaultUnit = "pcs"

// Editable line item fields accepted by UpdateField.
const (
	FieldName  = "name"
	FieldQty   = "qty"
	FieldPrice = "price"
)

var (
	// ErrMissingRequiredFields is returned by AddItem when the draft is incomplete.
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrItemIndexOutOfRange   = errors.New("line item index out of range")
	ErrUnknownField          = errors.New("unknown line item field")
)

// LineItem is a single billable row on the invoice.
type LineItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit,omitempty"`
}

// Amount returns qty * price for the row.
func (li LineItem) Amount() float64 {
	return li.Qty * li.Price
}

// ItemDraft holds the values of the new-item entry row.
type ItemDraft struct {
	Name  string  `json:"name"`
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
}

// NewItemDraft returns the blank entry row: no name, qty 1, price 0.
func NewItemDraft() ItemDraft {
	return ItemDraft{Qty: 1}
}

// Amount is the live total shown next to the entry row.
func (d ItemDraft) Amount() float64 {
	return d.Qty * d.Price
}

// Set assigns a raw form value to one draft field, coercing numbers the same
// way as UpdateField does.
func (d *ItemDraft) Set(field, raw string) error {
	switch field {
	case FieldName:
		d.Name = raw
	case FieldQty:
		d.Qty = ParseAmount(raw)
	case FieldPrice:
		d.Price = ParseAmount(raw)
	default:
		return errors.Wrapf(ErrUnknownField, "draft field %q", field)
	}
	return nil
}

// Validate checks the rules a draft must satisfy before it becomes a row.
func (d ItemDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required.Error("Item name is required")),
		validation.Field(&d.Qty, validation.Required.Error("Quantity must be greater than zero"),
			validation.Min(0.0).Exclusive().Error("Quantity must be greater than zero")),
		validation.Field(&d.Price, validation.Required.Error("Price must be greater than zero"),
			validation.Min(0.0).Exclusive().Error("Price must be greater than zero")),
	)
}

// ParseAmount converts a raw qty/price input into a number. Anything that does
// not parse to a finite number becomes 0 so a bad keystroke never blocks the
// counter.
func ParseAmount(raw string) float64 {
	v, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// LineItemStore is the ordered, editable list of rows for one billing session.
// Row order is display order. It is not safe for concurrent use; BillingSession
// serialises access.
type LineItemStore struct {
	items []LineItem
}

// NewLineItemStore returns a store seeded from the given order items.
func NewLineItemStore(orderItems []LineItem) *LineItemStore {
	s := &LineItemStore{}
	s.Initialize(orderItems)
	return s
}

// Initialize replaces the store contents with a copy of orderItems. Items
// without an ID get a fresh one and items without a unit get DefaultUnit.
func (s *LineItemStore) Initialize(orderItems []LineItem) {
	s.items = make([]LineItem, 0, len(orderItems))
	for _, item := range orderItems {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if strings.TrimSpace(item.Unit) == "" {
			item.Unit = DefaultUnit
		}
		s.items = append(s.items, item)
	}
}

// Items returns a copy of the current rows.
func (s *LineItemStore) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of rows.
func (s *LineItemStore) Len() int {
	return len(s.items)
}

// UpdateField edits one field of the row at index. Names are stored trimmed
// (empty is allowed while the cashier is typing); qty and price go through
// ParseAmount.
func (s *LineItemStore) UpdateField(index int, field, raw string) error {
	if index < 0 || index >= len(s.items) {
		return errors.Wrapf(ErrItemIndexOutOfRange, "index %d of %d", index, len(s.items))
	}

	item := &s.items[index]
	switch field {
	case FieldName:
		item.Name = strings.TrimSpace(raw)
	case FieldQty:
		item.Qty = ParseAmount(raw)
	case FieldPrice:
		item.Price = ParseAmount(raw)
	default:
		return errors.Wrapf(ErrUnknownField, "field %q", field)
	}
	return nil
}

// AddItem appends the draft as a new row. A draft without a name, or with a
// qty or price that is not positive, is rejected with ErrMissingRequiredFields
// and left as it was. On success the draft is reset to NewItemDraft.
func (s *LineItemStore) AddItem(draft *ItemDraft) (LineItem, error) {
	candidate := *draft
	candidate.Name = strings.TrimSpace(candidate.Name)
	if err := candidate.Validate(); err != nil {
		return LineItem{}, &DraftError{Fields: fieldErrors(err)}
	}

	item := LineItem{
		ID:    uuid.NewString(),
		Name:  candidate.Name,
		Qty:   candidate.Qty,
		Price: candidate.Price,
		Unit:  DefaultUnit,
	}
	s.items = append(s.items, item)
	*draft = NewItemDraft()
	return item, nil
}

// RemoveItem deletes the row at index. The store may become empty.
func (s *LineItemStore) RemoveItem(index int) (LineItem, error) {
	if index < 0 || index >= len(s.items) {
		return LineItem{}, errors.Wrapf(ErrItemIndexOutOfRange, "index %d of %d", index, len(s.items))
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return removed, nil
}

// DraftError carries per-field messages for a rejected draft.
type DraftError struct {
	Fields map[string]string
}

func (e *DraftError) Error() string {
	return ErrMissingRequiredFields.Error()
}

// Unwrap lets callers match with errors.Is(err, ErrMissingRequiredFields).
func (e *DraftError) Unwrap() error {
	return ErrMissingRequiredFields
}

// fieldErrors flattens ozzo validation errors into form-field keyed messages.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}
	out["form"] = err.Error()
	return out
}
