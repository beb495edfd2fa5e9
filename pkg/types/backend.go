package types

import (
	"context"
	"errors"
)

// Backend persists and restores whole-store Documents. Callers attach to a
// backend, save or load, and detach when done.
type Backend interface {
	// Attach connects the Backend to the storage described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, Save and Load return ErrBackendDetached.
	Detach() error

	// Save replaces the persisted document with doc.
	Save(ctx context.Context, doc Document) error

	// Load returns the persisted document. A backend that has never been
	// saved to returns an empty Document.
	Load(ctx context.Context) (Document, error)
}

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)
