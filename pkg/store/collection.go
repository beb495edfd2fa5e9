package store

import (
	"iter"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Option configures a Collection.
type Option func(*options)

type options struct {
	guard    Guard
	observer Observer
	logger   *slog.Logger
}

// WithGuard selects the collection's locking strategy. The default is
// Unguarded.
func WithGuard(g Guard) Option {
	return func(o *options) { o.guard = g }
}

// WithObserver reports operation timings and lock waits to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the logger used for replacement diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Collection holds every record of one entity type keyed by identifier.
// Iteration follows first-insertion order: re-interring an identifier
// replaces the record in its original slot.
type Collection[T types.Entity] struct {
	name    string
	guard   Guard
	obs     Observer
	logger  *slog.Logger
	arena   Arena[T]
	ids     map[string]Handle
	indexes []*Index[T]
}

// New returns an empty collection for the named entity type.
func New[T types.Entity](name string, opts ...Option) *Collection[T] {
	o := options{guard: Unguarded(), observer: NopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	guard := o.guard
	if _, nop := o.observer.(NopObserver); !nop {
		guard = Traced(guard, name, o.observer)
	}
	return &Collection[T]{
		name:   name,
		guard:  guard,
		obs:    o.observer,
		logger: o.logger,
		ids:    make(map[string]Handle),
	}
}

// Name returns the entity type name.
func (c *Collection[T]) Name() string { return c.name }

// Inter registers rec under its own identifier, replacing any record already
// registered under it. The replaced record's handle becomes stale.
func (c *Collection[T]) Inter(rec T) Handle {
	start := time.Now()
	id := rec.ID()

	c.guard.Lock()
	var h Handle
	if old, ok := c.ids[id]; ok {
		h, _ = c.arena.Replace(old, rec)
		for _, idx := range c.indexes {
			idx.replace(id, rec)
		}
		c.logger.Debug("record replaced", "collection", c.name, "id", id, "handle", h)
	} else {
		h = c.arena.Insert(rec)
		for _, idx := range c.indexes {
			idx.add(id, rec)
		}
	}
	c.ids[id] = h
	c.guard.Unlock()

	c.obs.ObserveOp(c.name, OpInter, time.Since(start))
	return h
}

// Exhume returns the record registered under id.
func (c *Collection[T]) Exhume(id string) (T, bool) {
	start := time.Now()
	c.guard.RLock()
	rec, ok := c.exhumeLocked(id)
	c.guard.RUnlock()
	c.obs.ObserveOp(c.name, OpExhume, time.Since(start))
	return rec, ok
}

func (c *Collection[T]) exhumeLocked(id string) (T, bool) {
	h, ok := c.ids[id]
	if !ok {
		var zero T
		return zero, false
	}
	rec, err := c.arena.Resolve(h)
	return rec, err == nil
}

// Get returns the record registered under id or a *types.NotFoundError.
func (c *Collection[T]) Get(id string) (T, error) {
	rec, ok := c.Exhume(id)
	if !ok {
		return rec, &types.NotFoundError{Entity: c.name, ID: id}
	}
	return rec, nil
}

// Must returns the record registered under id and panics with a
// *types.NotFoundError when there is none.
func (c *Collection[T]) Must(id string) T {
	rec, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return rec
}

// Handle returns the current handle of the record registered under id.
func (c *Collection[T]) Handle(id string) (Handle, bool) {
	c.guard.RLock()
	defer c.guard.RUnlock()
	h, ok := c.ids[id]
	return h, ok
}

// Resolve returns the record addressed by h, or types.ErrStaleHandle when the
// record has been replaced since h was taken.
func (c *Collection[T]) Resolve(h Handle) (T, error) {
	c.guard.RLock()
	defer c.guard.RUnlock()
	return c.arena.Resolve(h)
}

// Len returns the number of registered records.
func (c *Collection[T]) Len() int {
	c.guard.RLock()
	defer c.guard.RUnlock()
	return len(c.ids)
}

// Values returns every record in insertion order.
func (c *Collection[T]) Values() []T {
	start := time.Now()
	c.guard.RLock()
	out := make([]T, 0, c.arena.Len())
	for _, rec := range c.arena.All() {
		out = append(out, rec)
	}
	c.guard.RUnlock()
	c.obs.ObserveOp(c.name, OpIter, time.Since(start))
	return out
}

// Iter yields (id, record) pairs in insertion order. It iterates a copy taken
// under the read lock, so the loop body may call back into the store.
func (c *Collection[T]) Iter() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, rec := range c.Values() {
			if !yield(rec.ID(), rec) {
				return
			}
		}
	}
}

// Filter returns the records for which keep returns true, in insertion order.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	var out []T
	for _, rec := range c.Values() {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
