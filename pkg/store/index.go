package store

import (
	"slices"
	"time"
)

// Index maps foreign-key values to the records that hold them, turning a
// backward relationship scan into a map lookup. It is maintained by the
// owning collection on every Inter and shares its guard.
type Index[T interface{ ID() string }] struct {
	name string
	key  func(T) []string
	refs map[string][]string
	held map[string][]string

	lookup func(key string) []T
}

// IndexBy registers a reverse index over the keys returned by key. key must
// return no values for a record without the reference. Records already in the
// collection are indexed immediately.
func (c *Collection[T]) IndexBy(name string, key func(T) []string) *Index[T] {
	idx := &Index[T]{
		name: name,
		key:  key,
		refs: make(map[string][]string),
		held: make(map[string][]string),
	}
	idx.lookup = func(k string) []T {
		start := time.Now()
		c.guard.RLock()
		ids := idx.refs[k]
		out := make([]T, 0, len(ids))
		for _, id := range ids {
			if rec, ok := c.exhumeLocked(id); ok {
				out = append(out, rec)
			}
		}
		c.guard.RUnlock()
		c.obs.ObserveOp(c.name, OpLookup, time.Since(start))
		return out
	}

	c.guard.Lock()
	for _, rec := range c.arena.All() {
		idx.add(rec.ID(), rec)
	}
	c.indexes = append(c.indexes, idx)
	c.guard.Unlock()
	return idx
}

// Name returns the index name.
func (idx *Index[T]) Name() string { return idx.name }

// Lookup returns the records holding key, in the order they first did so.
func (idx *Index[T]) Lookup(key string) []T {
	return idx.lookup(key)
}

// First returns the first record holding key, if any.
func (idx *Index[T]) First(key string) (T, bool) {
	recs := idx.lookup(key)
	if len(recs) == 0 {
		var zero T
		return zero, false
	}
	return recs[0], true
}

// add records a newly interred id under every key rec holds.
func (idx *Index[T]) add(id string, rec T) {
	keys := distinct(idx.key(rec))
	for _, k := range keys {
		idx.refs[k] = append(idx.refs[k], id)
	}
	if len(keys) > 0 {
		idx.held[id] = keys
	}
}

// replace moves id from the keys it was recorded under to the keys next
// holds, leaving its position untouched under keys both hold. next may be
// the registered record mutated in place, so the old keys come from held.
func (idx *Index[T]) replace(id string, next T) {
	prevKeys := idx.held[id]
	nextKeys := distinct(idx.key(next))
	for _, k := range prevKeys {
		if slices.Contains(nextKeys, k) {
			continue
		}
		ids := slices.DeleteFunc(idx.refs[k], func(s string) bool { return s == id })
		if len(ids) == 0 {
			delete(idx.refs, k)
		} else {
			idx.refs[k] = ids
		}
	}
	for _, k := range nextKeys {
		if !slices.Contains(prevKeys, k) {
			idx.refs[k] = append(idx.refs[k], id)
		}
	}
	if len(nextKeys) == 0 {
		delete(idx.held, id)
	} else {
		idx.held[id] = nextKeys
	}
}

func distinct(keys []string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
