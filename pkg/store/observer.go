package store

import "time"

// Collection operation names reported to an Observer.
const (
	OpInter  = "inter"
	OpExhume = "exhume"
	OpIter   = "iter"
	OpLookup = "lookup"
)

// Observer receives timing for collection operations and lock waits.
type Observer interface {
	ObserveOp(collection, op string, d time.Duration)
	ObserveWait(collection string, d time.Duration)
}

// NopObserver discards every observation.
type NopObserver struct{}

func (NopObserver) ObserveOp(string, string, time.Duration) {}
func (NopObserver) ObserveWait(string, time.Duration)       {}
