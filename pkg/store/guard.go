package store

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Guard is the locking strategy wrapped around a collection.
type Guard interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// DefaultStallThreshold is the watchdog threshold used by NewGuard.
const DefaultStallThreshold = 2 * time.Second

type nopGuard struct{}

func (nopGuard) Lock()    {}
func (nopGuard) Unlock()  {}
func (nopGuard) RLock()   {}
func (nopGuard) RUnlock() {}

// Unguarded returns a Guard that performs no synchronization.
func Unguarded() Guard { return nopGuard{} }

type mutexGuard struct{ mu sync.Mutex }

func (g *mutexGuard) Lock()    { g.mu.Lock() }
func (g *mutexGuard) Unlock()  { g.mu.Unlock() }
func (g *mutexGuard) RLock()   { g.mu.Lock() }
func (g *mutexGuard) RUnlock() { g.mu.Unlock() }

// NewMutex returns a Guard where readers are exclusive too.
func NewMutex() Guard { return &mutexGuard{} }

// NewRWMutex returns a reader-writer Guard.
func NewRWMutex() Guard { return &sync.RWMutex{} }

// Watchdog is a reader-writer Guard that reports acquisitions waiting longer
// than its threshold, the usual symptom of a lock-ordering deadlock.
type Watchdog struct {
	mu        sync.RWMutex
	name      string
	threshold time.Duration
	logger    *slog.Logger
	stalls    atomic.Int64
}

// NewWatchdog returns a Watchdog for the named collection.
func NewWatchdog(name string, threshold time.Duration, logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultStallThreshold
	}
	return &Watchdog{name: name, threshold: threshold, logger: logger}
}

func (w *Watchdog) Lock()    { w.acquire("write", w.mu.TryLock, w.mu.Lock) }
func (w *Watchdog) Unlock()  { w.mu.Unlock() }
func (w *Watchdog) RLock()   { w.acquire("read", w.mu.TryRLock, w.mu.RLock) }
func (w *Watchdog) RUnlock() { w.mu.RUnlock() }

// Stalls returns how many acquisitions exceeded the threshold.
func (w *Watchdog) Stalls() int64 { return w.stalls.Load() }

func (w *Watchdog) acquire(mode string, try func() bool, lock func()) {
	if try() {
		return
	}
	start := time.Now()
	timer := time.AfterFunc(w.threshold, func() {
		w.stalls.Add(1)
		w.logger.Warn("lock wait exceeded threshold",
			"collection", w.name, "mode", mode, "threshold", w.threshold)
	})
	lock()
	if !timer.Stop() {
		w.logger.Info("lock acquired after stall",
			"collection", w.name, "mode", mode, "waited", time.Since(start))
	}
}

type tracedGuard struct {
	inner Guard
	name  string
	obs   Observer
}

// Traced wraps inner so that every acquisition reports its wait time.
func Traced(inner Guard, name string, obs Observer) Guard {
	return &tracedGuard{inner: inner, name: name, obs: obs}
}

func (g *tracedGuard) Lock() {
	start := time.Now()
	g.inner.Lock()
	g.obs.ObserveWait(g.name, time.Since(start))
}

func (g *tracedGuard) Unlock() { g.inner.Unlock() }

func (g *tracedGuard) RLock() {
	start := time.Now()
	g.inner.RLock()
	g.obs.ObserveWait(g.name, time.Since(start))
}

func (g *tracedGuard) RUnlock() { g.inner.RUnlock() }

// NewGuard builds the Guard named by strategy for the named collection.
func NewGuard(strategy, name string, logger *slog.Logger) (Guard, error) {
	switch strategy {
	case "", types.LockingNone:
		return Unguarded(), nil
	case types.LockingMutex:
		return NewMutex(), nil
	case types.LockingRWMutex:
		return NewRWMutex(), nil
	case types.LockingWatchdog:
		return NewWatchdog(name, DefaultStallThreshold, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrLockingUnknown, strategy)
	}
}
