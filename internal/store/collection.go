// Package store holds the authoritative in-memory collections, one per
// record domain. Every mutation computes the next collection from the
// current one under the collection's lock, hands the full resulting
// slice to the persistence sink exactly once, and emits at most one
// user-facing notification. Reads return copies.
package store

import (
	"context"
	"errors"
	"sync"

	"rentbook/internal/notify"
)

// ErrNotFound is returned when an update targets a record that is not
// in the collection. The in-memory state and the sink are untouched.
var ErrNotFound = errors.New("record not found")

// SaveFunc persists a full collection snapshot. It must not retain the
// slice. Failures are the sink's problem; the in-memory state is never
// rolled back.
type SaveFunc[T any] func(ctx context.Context, items []T)

// Collection is the generic view-model shared by all record domains.
// The hooks tell it how to identify and prepare records of its type.
type Collection[T any] struct {
	mu    sync.Mutex
	items []T

	idOf     func(T) string
	stamp    func(T) T       // fills in id and creation timestamp when absent
	validate func(T) error   // nil means no validation
	save     SaveFunc[T]     // nil means no persistence
	notifier notify.Notifier // nil means silent
}

// NewCollection builds a collection around the given hooks.
func NewCollection[T any](idOf func(T) string, stamp func(T) T, validate func(T) error, save SaveFunc[T], notifier notify.Notifier) *Collection[T] {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Collection[T]{
		idOf:     idOf,
		stamp:    stamp,
		validate: validate,
		save:     save,
		notifier: notifier,
	}
}

// Replace swaps in a hydrated collection without persisting or
// notifying. Used at startup to load the stored snapshot.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

// List returns a copy of the current collection.
func (c *Collection[T]) List() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the current collection size.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Create validates and stamps the record, appends it, persists the new
// snapshot and notifies with msg. The record is rejected before any
// state changes when validation fails.
func (c *Collection[T]) Create(ctx context.Context, item T, msg string) (T, error) {
	item = c.stamp(item)
	if c.validate != nil {
		if err := c.validate(item); err != nil {
			var zero T
			return zero, err
		}
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	c.persistLocked(ctx)
	c.mu.Unlock()

	if msg != "" {
		c.notifier.Notify(msg, notify.Success)
	}
	return item, nil
}

// Update applies mutate to the current value of the record with the
// given id. The mutator receives the record as it is now, not as the
// caller last saw it, so rapid create-then-update sequences compose.
// Returns ErrNotFound, without persisting, when the id is absent.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(T) T, msg string) (T, error) {
	c.mu.Lock()
	idx := -1
	for i, item := range c.items {
		if c.idOf(item) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		var zero T
		return zero, ErrNotFound
	}

	next := mutate(c.items[idx])
	if c.validate != nil {
		if err := c.validate(next); err != nil {
			c.mu.Unlock()
			var zero T
			return zero, err
		}
	}
	c.items[idx] = next
	c.persistLocked(ctx)
	c.mu.Unlock()

	if msg != "" {
		c.notifier.Notify(msg, notify.Success)
	}
	return next, nil
}

// Remove filters out the record with the given id. Removing an id that
// is not present is a no-op that still persists and notifies, matching
// the delete-is-idempotent contract.
func (c *Collection[T]) Remove(ctx context.Context, id string, msg string) {
	c.mu.Lock()
	kept := c.items[:0]
	for _, item := range c.items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.persistLocked(ctx)
	c.mu.Unlock()

	if msg != "" {
		c.notifier.Notify(msg, notify.Info)
	}
}

// persistLocked hands the sink a copy of the current slice. Called with
// the lock held so snapshots reach the sink in mutation order.
func (c *Collection[T]) persistLocked(ctx context.Context) {
	if c.save == nil {
		return
	}
	c.save(ctx, append([]T(nil), c.items...))
}

// Notifier exposes the collection's notifier to the domain wrappers.
func (c *Collection[T]) Notifier() notify.Notifier {
	return c.notifier
}
