// Package badger implements a BadgerDB storage backend. Records are stored
// under ordered keys so a prefix scan returns a section in insertion order:
//
//	meta:sections                  msgpack {codec, sections, gen}
//	doc:<gen>:<section>:<seq>      msgpack {id, body}, gen and seq zero padded
//
// A save writes a new generation, then points meta at it, then drops the
// old one. Until meta moves, loads keep seeing the previous document.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// InMemory as DataDir keeps the database in memory.
const InMemory = ":memory:"

var metaKey = []byte("meta:sections")

const docPrefix = "doc:"

type meta struct {
	Codec    string   `msgpack:"codec"`
	Sections []string `msgpack:"sections"`
	Gen      uint64   `msgpack:"gen"`
}

type value struct {
	ID   string `msgpack:"id"`
	Body []byte `msgpack:"body"`
}

func generationPrefix(gen uint64) []byte {
	return fmt.Appendf(nil, "%s%010d:", docPrefix, gen)
}

func recordKey(gen uint64, section string, seq int) []byte {
	return fmt.Appendf(generationPrefix(gen), "%s:%010d", section, seq)
}

func sectionPrefix(gen uint64, section string) []byte {
	return fmt.Appendf(generationPrefix(gen), "%s:", section)
}

// Backend implements types.Backend on BadgerDB.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *badgerdb.DB
	logger   *slog.Logger
}

// NewBackend creates a detached Badger backend.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach opens the database in config.DataDir.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	var opts badgerdb.Options
	if config.DataDir == InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dir := config.DataDir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		opts = badgerdb.DefaultOptions(dir)
	}
	db, err := badgerdb.Open(opts.WithLogger(slogLogger{b.logger}))
	if err != nil {
		return fmt.Errorf("open badger: %w", err)
	}
	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
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

// Save writes doc as a new generation and switches meta to it. If any step
// fails before the switch, the previous document stays in place.
func (b *Backend) Save(ctx context.Context, doc types.Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	prev, found, err := b.readMeta()
	if err != nil {
		return err
	}
	gen := prev.Gen + 1
	if err := b.writeGeneration(ctx, gen, doc); err != nil {
		b.dropGeneration(gen)
		return err
	}

	m := meta{Codec: doc.Codec, Gen: gen}
	for _, sec := range doc.Sections {
		m.Sections = append(m.Sections, sec.Name)
	}
	data, err := msgpack.Marshal(m)
	if err != nil {
		b.dropGeneration(gen)
		return err
	}
	if err := b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(metaKey, data)
	}); err != nil {
		b.dropGeneration(gen)
		return fmt.Errorf("switch generation: %w", err)
	}
	if found {
		b.dropGeneration(prev.Gen)
	}
	b.logger.Debug("document saved", "backend", types.BackendBadger, "records", doc.Len(), "gen", gen)
	return nil
}

// writeGeneration stores the records of doc under gen in one batch.
func (b *Backend) writeGeneration(ctx context.Context, gen uint64, doc types.Document) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for _, sec := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		for seq, rec := range sec.Records {
			data, err := msgpack.Marshal(value{ID: rec.ID, Body: rec.Body})
			if err != nil {
				return err
			}
			if err := wb.Set(recordKey(gen, sec.Name, seq), data); err != nil {
				return err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}
	return nil
}

func (b *Backend) dropGeneration(gen uint64) {
	if err := b.db.DropPrefix(generationPrefix(gen)); err != nil {
		b.logger.Warn("drop generation", "backend", types.BackendBadger, "gen", gen, "err", err)
	}
}

// readMeta returns the stored meta record and whether one exists.
func (b *Backend) readMeta() (meta, bool, error) {
	var m meta
	found := false
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(metaKey)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := msgpack.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("%w: meta: %v", types.ErrInvalidData, err)
		}
		found = true
		return nil
	})
	return m, found, err
}

// Load reads the sections listed under the meta key.
func (b *Backend) Load(ctx context.Context) (types.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Document{}, types.ErrBackendDetached
	}

	m, found, err := b.readMeta()
	if err != nil || !found {
		return types.Document{}, err
	}
	doc := types.Document{Codec: m.Codec}
	err = b.db.View(func(txn *badgerdb.Txn) error {
		for _, name := range m.Sections {
			if err := ctx.Err(); err != nil {
				return err
			}
			sec, err := readSection(txn, m.Gen, name)
			if err != nil {
				return err
			}
			doc.Sections = append(doc.Sections, sec)
		}
		return nil
	})
	if err != nil {
		return types.Document{}, err
	}
	return doc, nil
}

func readSection(txn *badgerdb.Txn, gen uint64, name string) (types.Section, error) {
	sec := types.Section{Name: name}
	prefix := sectionPrefix(gen, name)
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		raw, err := it.Item().ValueCopy(nil)
		if err != nil {
			return sec, err
		}
		var v value
		if err := msgpack.Unmarshal(raw, &v); err != nil {
			return sec, fmt.Errorf("%w: %s: %v", types.ErrInvalidData, it.Item().Key(), err)
		}
		sec.Records = append(sec.Records, types.Record{ID: v.ID, Body: v.Body})
	}
	return sec, nil
}

// slogLogger routes badger's log output through slog. Info and debug
// messages go to debug.
type slogLogger struct{ l *slog.Logger }

func (s slogLogger) Errorf(f string, v ...any)   { s.l.Error("badger: " + fmt.Sprintf(f, v...)) }
func (s slogLogger) Warningf(f string, v ...any) { s.l.Warn("badger: " + fmt.Sprintf(f, v...)) }
func (s slogLogger) Infof(f string, v ...any)    { s.l.Debug("badger: " + fmt.Sprintf(f, v...)) }
func (s slogLogger) Debugf(f string, v ...any)   { s.l.Debug("badger: " + fmt.Sprintf(f, v...)) }
