package services

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// OrderCounterName is the counters row that numbers customer orders.
const OrderCounterName = "order_number"

// OrderCounter is an OrderSequence backed by the "counters" collection. The
// first order is #1; each call returns the stored value and saves value+1.
type OrderCounter struct {
	app  *pocketbase.PocketBase
	name string
	mu   sync.Mutex
}

// NewOrderCounter returns a counter for the named sequence.
func NewOrderCounter(app *pocketbase.PocketBase, name string) *OrderCounter {
	return &OrderCounter{app: app, name: name}
}

// Next hands out the current number and advances the stored counter.
func (c *OrderCounter) Next() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current int
	err := c.app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindFirstRecordByData("counters", "name", c.name)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			col, colErr := txApp.FindCollectionByNameOrId("counters")
			if colErr != nil {
				return errors.Wrap(colErr, "counters collection")
			}
			record = core.NewRecord(col)
			record.Set("name", c.name)
			record.Set("value", 1)
		case err != nil:
			return errors.Wrap(err, "find counter")
		}

		current = record.GetInt("value")
		if current < 1 {
			current = 1
		}
		record.Set("value", current+1)
		return txApp.Save(record)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "advance counter %q", c.name)
	}
	return current, nil
}

// Peek returns the number the next order will get without advancing.
func (c *OrderCounter) Peek() (int, error) {
	record, err := c.app.FindFirstRecordByData("counters", "name", c.name)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "read counter %q", c.name)
	}
	if v := record.GetInt("value"); v > 1 {
		return v, nil
	}
	return 1, nil
}
