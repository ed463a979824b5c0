package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrSessionNotFound = errors.New("billing session not found")
	ErrUnknownCashier  = errors.New("unknown cashier")
	// ErrNothingToBill blocks finalising a bill whose store is empty.
	ErrNothingToBill = errors.New("bill has no items")
)

// DefaultCashiers are offered in the cashier selector when none are configured.
var DefaultCashiers = []string{"Yash", "Manish", "Gauri"}

// OrderCompletion is told when a bill is finalised so the order source can
// clear its cart.
type OrderCompletion interface {
	OrderPlaced(order Order, cartID string)
}

// SessionSettings are the shop-wide values every billing session starts from.
type SessionSettings struct {
	GSTRate  float64
	Cashiers []string
	Shop     ShopProfile
}

// BillingSession is the editable bill for one order. All methods are safe for
// concurrent use; every mutation happens under the session lock so a
// breakdown is always computed from one consistent snapshot.
type BillingSession struct {
	mu sync.Mutex

	id       string
	cartID   string
	order    Order
	store    *LineItemStore
	draft    ItemDraft
	draftErr map[string]string
	discount DiscountConfig
	cashier  string
	settings SessionSettings
	touched  time.Time
}

func newBillingSession(id string, order Order, cartID string, settings SessionSettings, now time.Time) *BillingSession {
	return &BillingSession{
		id:       id,
		cartID:   cartID,
		order:    order,
		store:    NewLineItemStore(order.Items),
		draft:    NewItemDraft(),
		discount: DiscountConfig{Mode: DiscountPercentage},
		cashier:  settings.Cashiers[0],
		settings: settings,
		touched:  now,
	}
}

// ID is the session identifier used in URLs.
func (s *BillingSession) ID() string {
	return s.id
}

// Order returns the order the session was opened for.
func (s *BillingSession) Order() Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// UpdateItem edits one field of an existing row.
func (s *BillingSession) UpdateItem(index int, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpdateField(index, field, raw)
}

// SetDraftField stores a keystroke in the new-item row.
func (s *BillingSession) SetDraftField(field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Set(field, raw)
}

// AddItem replaces the draft with the submitted values and tries to append it.
// A rejected draft is kept, with its field errors, for the next render.
func (s *BillingSession) AddItem(draft ItemDraft) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = draft
	item, err := s.store.AddItem(&s.draft)
	if err != nil {
		var de *DraftError
		if errors.As(err, &de) {
			s.draftErr = de.Fields
		}
		return LineItem{}, err
	}
	s.draftErr = nil
	return item, nil
}

// RemoveItem deletes a row.
func (s *BillingSession) RemoveItem(index int) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RemoveItem(index)
}

// SetDiscount sets the bill discount. Unparseable or negative values become 0.
func (s *BillingSession) SetDiscount(mode DiscountMode, raw string) DiscountConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := ParseAmount(raw)
	if value < 0 {
		value = 0
	}
	s.discount = DiscountConfig{Mode: mode, Value: value}
	return s.discount
}

// SetCashier records who prepared the bill. Only configured names are
// accepted; a new session starts with the first one.
func (s *BillingSession) SetCashier(name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.settings.Cashiers {
		if c == name {
			s.cashier = name
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownCashier, "%q", name)
}

// Items returns the current rows.
func (s *BillingSession) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Items()
}

// Breakdown computes the totals from the current rows and discount.
func (s *BillingSession) Breakdown() BillingBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Compute(s.store.Items(), s.discount, s.settings.GSTRate)
}

// Snapshot captures everything needed to render the bill at this instant.
func (s *BillingSession) Snapshot(now time.Time) DocumentInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make(map[string]string, len(s.draftErr))
	for k, v := range s.draftErr {
		errs[k] = v
	}

	return DocumentInput{
		SessionID:   s.id,
		Order:       s.order,
		Items:       s.store.Items(),
		Draft:       s.draft,
		DraftErrors: errs,
		Discount:    s.discount,
		GSTRate:     s.settings.GSTRate,
		Cashier:     s.cashier,
		Cashiers:    append([]string(nil), s.settings.Cashiers...),
		Shop:        s.settings.Shop,
		InvoiceDate: now,
	}
}

func (s *BillingSession) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

func (s *BillingSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// SessionRegistry tracks the open billing sessions of the process.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*BillingSession
	settings SessionSettings
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry returns a registry whose sessions expire after ttl of
// inactivity. A ttl of 0 disables expiry. settings.GSTRate is used as given,
// so 0 bills without tax.
func NewSessionRegistry(settings SessionSettings, ttl time.Duration) *SessionRegistry {
	if len(settings.Cashiers) == 0 {
		settings.Cashiers = append([]string(nil), DefaultCashiers...)
	}
	return &SessionRegistry{
		sessions: make(map[string]*BillingSession),
		settings: settings,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Settings returns the defaults new sessions are opened with.
func (r *SessionRegistry) Settings() SessionSettings {
	return r.settings
}

// Open starts a billing session seeded from order.
func (r *SessionRegistry) Open(order Order, cartID string) *BillingSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := newBillingSession(uuid.NewString(), order, cartID, r.settings, r.now())
	r.sessions[s.id] = s
	return s
}

// Get looks up a session and marks it as active.
func (r *SessionRegistry) Get(id string) (*BillingSession, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %q", id)
	}
	s.touch(r.now())
	return s, nil
}

// Finalize closes a session after its bill has been printed. The order
// source is notified so the originating cart is cleared.
func (r *SessionRegistry) Finalize(id string, sink OrderCompletion) (Order, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return Order{}, errors.Wrapf(ErrSessionNotFound, "session %q", id)
	}

	s.mu.Lock()
	empty := s.store.Len() == 0
	order := s.order
	order.Items = s.store.Items()
	cartID := s.cartID
	s.mu.Unlock()

	if empty {
		r.mu.Unlock()
		return Order{}, ErrNothingToBill
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	if sink != nil {
		sink.OrderPlaced(order, cartID)
	}
	return order, nil
}

// Remove drops a session without finalising it.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Sweep removes sessions idle for longer than the ttl and returns their ids.
func (r *SessionRegistry) Sweep() []string {
	if r.ttl <= 0 {
		return nil
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
			delete(r.sessions, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
