// Package store holds the in-memory collections behind the dashboard list
// views and coordinates create/update/delete against them. Collections keep
// insertion order: updates replace in place and never re-sort, so the table
// rows keep their positions across edits.
package store

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/storekit/storeadmin/pkg/common"
)

// ErrNotFound is returned when a mutation targets an id absent from the
// collection. The collection is left untouched.
var ErrNotFound = errors.New("record not found")

// Change event topic; payload is (collection name, operation, id).
const TopicChanged = "store.changed"

// Collection is a mutable, ordered, id-keyed list of T.
type Collection[T any] struct {
	mu     sync.RWMutex
	name   string
	items  []T
	idOf   func(T) int64
	setID  func(*T, int64)
	derive func(*T, time.Time)
	bus    EventBus.Bus
}

// Config wires a collection's identity and derivation hooks.
type Config[T any] struct {
	Name  string
	IDOf  func(T) int64
	SetID func(*T, int64)
	// Derive recomputes any status field owned by the entity itself
	// (voucher expiry, product stock status). Optional.
	Derive func(*T, time.Time)
	Bus    EventBus.Bus
}

func NewCollection[T any](cfg Config[T]) *Collection[T] {
	return &Collection[T]{
		name:   cfg.Name,
		idOf:   cfg.IDOf,
		setID:  cfg.SetID,
		derive: cfg.Derive,
		bus:    cfg.Bus,
	}
}

// Load replaces the collection contents, running the derive hook on every
// entity so fixture data cannot ship a stale derived status.
func (c *Collection[T]) Load(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.items = make([]T, len(items))
	copy(c.items, items)
	if c.derive != nil {
		for i := range c.items {
			c.derive(&c.items[i], now)
		}
	}
}

// List returns a copy of the collection in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) Get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.idOf(it) == id {
			return it, nil
		}
	}
	var zero T
	return zero, errors.Wrapf(ErrNotFound, "%s id %d", c.name, id)
}

// Create assigns an id when the draft carries none, derives status fields
// and appends. The caller gets the stored entity back.
func (c *Collection[T]) Create(draft T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(draft)
	if id == 0 {
		id = common.UUIDint64()
	}
	for c.indexOf(id) >= 0 {
		id = common.UUIDint64()
	}
	c.setID(&draft, id)
	if c.derive != nil {
		c.derive(&draft, time.Now())
	}
	c.items = append(c.items, draft)
	c.publish("create", id)
	return draft, nil
}

// Update merges a field patch into the entity with the given id, re-derives
// status and replaces the entity at its original position. Patch keys follow
// the entity's json field names.
func (c *Collection[T]) Update(id int64, patch map[string]interface{}) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	i := c.indexOf(id)
	if i < 0 {
		return zero, errors.Wrapf(ErrNotFound, "%s id %d", c.name, id)
	}
	merged := c.items[i]
	if err := decodePatch(patch, &merged); err != nil {
		return zero, errors.Wrap(err, "apply patch")
	}
	c.setID(&merged, id) // the id is not patchable
	if c.derive != nil {
		c.derive(&merged, time.Now())
	}
	c.items[i] = merged
	c.publish("update", id)
	return merged, nil
}

// Delete removes the entity with the given id. Intent confirmation is the
// caller's business; this always deletes when the id exists.
func (c *Collection[T]) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%s id %d", c.name, id)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.publish("delete", id)
	return nil
}

// Recompute re-runs the derive hook over the whole collection and reports
// how many entities changed status. Used by the expiry sweep job.
func (c *Collection[T]) Recompute(now time.Time, statusOf func(T) string) int {
	if c.derive == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := 0
	for i := range c.items {
		before := statusOf(c.items[i])
		c.derive(&c.items[i], now)
		if statusOf(c.items[i]) != before {
			changed++
		}
	}
	if changed > 0 {
		c.publish("recompute", 0)
	}
	return changed
}

func (c *Collection[T]) indexOf(id int64) int {
	for i, it := range c.items {
		if c.idOf(it) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) publish(op string, id int64) {
	if c.bus != nil {
		c.bus.Publish(TopicChanged, c.name, op, id)
	}
}

func decodePatch(patch map[string]interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return dec.Decode(patch)
}
