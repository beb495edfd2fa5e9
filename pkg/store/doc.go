// Package store provides the generic building blocks of an ossuary object
// store: a keyed Collection of records of one entity type, an Arena of
// generation-checked slots backing it, reverse Indexes for backward
// relationship navigation, and pluggable Guards selecting how a collection
// is shared between goroutines.
//
// # Locking strategies
//
//   - none: no synchronization; single goroutine use only.
//   - mutex: every operation, reads included, is exclusive.
//   - rwmutex: reads share, writes are exclusive.
//   - watchdog: rwmutex that logs acquisitions stalled past a threshold.
//
// Any guard can be wrapped by Traced to report lock wait time to an Observer.
//
// # Handles
//
// Records are addressed by identifier or by Handle. Re-interring a record
// under an existing identifier replaces it in place and bumps the slot
// generation, so handles taken before the replacement resolve to
// types.ErrStaleHandle instead of silently observing the new contents.
package store
