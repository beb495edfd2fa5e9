// Package sqlite provides the public factory for the SQLite backend while
// keeping its implementation internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/ossuary/internal/sqlite"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// NewBackend creates a new SQLite backend instance. A nil logger uses
// slog.Default. The backend is not attached; call Attach with a Config to
// initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".ossuary-db",
//	})
//	defer backend.Detach()
//	err = backend.Save(ctx, doc)
func NewBackend(logger *slog.Logger) types.Backend {
	return sqlite.NewBackend(logger)
}
