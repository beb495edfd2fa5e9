// Package postgres implements a Postgres storage backend over database/sql
// with the pgx driver. The schema is shared with the SQLite backend.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/mesh-intelligence/ossuary/internal/sqldoc"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

const driverName = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the function used to open connections and returns a
// restore function. Tests use it to substitute a mock database.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

// Backend implements types.Backend on Postgres.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	logger   *slog.Logger
}

// NewBackend creates a detached Postgres backend.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach connects to config.DSN and applies the schema.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	openMu.Lock()
	db, err := sqlOpen(driverName, config.DSN)
	openMu.Unlock()
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	if err := sqldoc.ApplySchema(ctx, db, sqldoc.Postgres); err != nil {
		db.Close()
		return err
	}
	b.db = db
	b.attached = true
	return nil
}

// Detach closes the connection pool. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.attached = false
	return err
}

// Save replaces the stored document in one transaction.
func (b *Backend) Save(ctx context.Context, doc types.Document) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	if err := sqldoc.Save(ctx, b.db, sqldoc.Postgres, doc); err != nil {
		return fmt.Errorf("postgres save: %w", err)
	}
	b.logger.Debug("document saved", "backend", types.BackendPostgres, "records", doc.Len())
	return nil
}

// Load returns the stored document.
func (b *Backend) Load(ctx context.Context) (types.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Document{}, types.ErrBackendDetached
	}
	doc, err := sqldoc.Load(ctx, b.db, sqldoc.Postgres)
	if err != nil {
		return doc, fmt.Errorf("postgres load: %w", err)
	}
	return doc, nil
}
