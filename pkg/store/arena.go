package store

import (
	"fmt"
	"iter"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Handle addresses one slot of an Arena at one generation. The zero Handle
// never resolves.
type Handle struct {
	Slot uint32 `json:"slot"`
	Gen  uint32 `json:"gen"`
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.Gen == 0 }

func (h Handle) String() string { return fmt.Sprintf("%d@%d", h.Slot, h.Gen) }

type slot[T any] struct {
	gen uint32
	val T
}

// Arena is a dense vector of records addressed by generation-checked
// handles. It is not safe for concurrent use; Collection guards it.
type Arena[T any] struct {
	slots []slot[T]
}

// Insert appends v to a new slot.
func (a *Arena[T]) Insert(v T) Handle {
	a.slots = append(a.slots, slot[T]{gen: 1, val: v})
	return Handle{Slot: uint32(len(a.slots) - 1), Gen: 1}
}

// Replace stores v in the slot addressed by h and returns the slot's new
// handle. h and every other copy of it become stale.
func (a *Arena[T]) Replace(h Handle, v T) (Handle, error) {
	s, err := a.slot(h)
	if err != nil {
		return Handle{}, err
	}
	s.gen++
	s.val = v
	return Handle{Slot: h.Slot, Gen: s.gen}, nil
}

// Resolve returns the value addressed by h.
func (a *Arena[T]) Resolve(h Handle) (T, error) {
	s, err := a.slot(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.val, nil
}

func (a *Arena[T]) slot(h Handle) (*slot[T], error) {
	if h.IsZero() || int(h.Slot) >= len(a.slots) {
		return nil, fmt.Errorf("%w: %s", types.ErrStaleHandle, h)
	}
	s := &a.slots[h.Slot]
	if s.gen != h.Gen {
		return nil, fmt.Errorf("%w: %s (current generation %d)", types.ErrStaleHandle, h, s.gen)
	}
	return s, nil
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int { return len(a.slots) }

// All yields every slot's current handle and value in slot order.
func (a *Arena[T]) All() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !yield(Handle{Slot: uint32(i), Gen: s.gen}, s.val) {
				return
			}
		}
	}
}
