// Package backend selects a storage backend by configuration name.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/ossuary/internal/badger"
	"github.com/mesh-intelligence/ossuary/internal/jsonl"
	"github.com/mesh-intelligence/ossuary/internal/postgres"
	"github.com/mesh-intelligence/ossuary/internal/sqlite"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// New returns a detached backend for cfg.Backend.
func New(cfg types.Config, logger *slog.Logger) (types.Backend, error) {
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(logger), nil
	case types.BackendJSONL:
		return jsonl.NewBackend(logger), nil
	case types.BackendBadger:
		return badger.NewBackend(logger), nil
	case types.BackendPostgres:
		return postgres.NewBackend(logger), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}

// Open returns a backend for cfg, already attached.
func Open(cfg types.Config, logger *slog.Logger) (types.Backend, error) {
	b, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach %s backend: %w", cfg.Backend, err)
	}
	return b, nil
}
