// Package sqlite implements the SQLite storage backend: one database file
// in the data directory holding the last saved document.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ossuary/internal/sqldoc"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// FileName is the database file created in the data directory.
const FileName = "ossuary.db"

// Backend implements types.Backend on a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach opens the database in config.DataDir, creating the directory and
// schema as needed. DataDir ":memory:" keeps the database in memory.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dsn := ":memory:"
	if config.DataDir != ":memory:" {
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		dsn = filepath.Join(dataDir, FileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	// An in-memory database lives only as long as its one connection.
	db.SetMaxOpenConns(1)

	if err := sqldoc.ApplySchema(context.Background(), db, sqldoc.SQLite); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("sqlite backend attached", "path", dsn)
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Save replaces the stored document.
func (b *Backend) Save(ctx context.Context, doc types.Document) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	if err := sqldoc.Save(ctx, b.db, sqldoc.SQLite, doc); err != nil {
		return fmt.Errorf("sqlite save: %w", err)
	}
	b.logger.Debug("document saved", "backend", types.BackendSQLite, "sections", len(doc.Sections), "records", doc.Len())
	return nil
}

// Load returns the stored document.
func (b *Backend) Load(ctx context.Context) (types.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Document{}, types.ErrBackendDetached
	}
	doc, err := sqldoc.Load(ctx, b.db, sqldoc.SQLite)
	if err != nil {
		return doc, fmt.Errorf("sqlite load: %w", err)
	}
	return doc, nil
}
