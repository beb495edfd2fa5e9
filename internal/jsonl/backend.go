// Package jsonl implements a directory backend that keeps one JSON Lines
// file per document section, readable and diffable by hand:
//
//	<data_dir>/index.json                codec, section order and generation
//	<data_dir>/<section>.<gen>.jsonl     {"id": ..., "body": ...} per line
//
// A save writes its sections under a new generation and then replaces
// index.json atomically, so an interrupted save leaves the previous
// document loadable. Files of the previous generation are removed last.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// IndexFile names the section index in the data directory.
const IndexFile = "index.json"

type index struct {
	Codec    string   `json:"codec"`
	Sections []string `json:"sections"`
	Gen      uint64   `json:"gen"`
}

type line struct {
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

// Backend implements types.Backend on a directory of JSONL files.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dir      string
	logger   *slog.Logger
}

// NewBackend creates a detached JSONL backend.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach creates config.DataDir if needed.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	dir := config.DataDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	b.dir = dir
	b.attached = true
	return nil
}

// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	return nil
}

func (b *Backend) sectionPath(name string, gen uint64) string {
	return filepath.Join(b.dir, fmt.Sprintf("%s.%d.jsonl", name, gen))
}

// removeSections deletes the files of the named sections under gen.
func (b *Backend) removeSections(names []string, gen uint64) {
	for _, name := range names {
		if err := os.Remove(b.sectionPath(name, gen)); err != nil && !errors.Is(err, os.ErrNotExist) {
			b.logger.Warn("removing section file", "section", name, "gen", gen, "error", err)
		}
	}
}

// Save writes every section under a new generation, then replaces the index
// and finally removes the previous generation. Record bodies must be JSON.
func (b *Backend) Save(ctx context.Context, doc types.Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	if doc.Codec != "" && doc.Codec != types.CodecJSON {
		return fmt.Errorf("%w: jsonl cannot hold %s bodies", types.ErrCodecUnsupported, doc.Codec)
	}

	prev, err := b.readIndex()
	if err != nil {
		return err
	}

	idx := index{Codec: types.CodecJSON, Gen: prev.Gen + 1}
	if err := b.writeSections(ctx, idx.Gen, doc, &idx.Sections); err != nil {
		b.removeSections(idx.Sections, idx.Gen)
		return err
	}
	if err := b.writeIndex(idx); err != nil {
		b.removeSections(idx.Sections, idx.Gen)
		return err
	}
	b.removeSections(prev.Sections, prev.Gen)
	b.logger.Debug("document saved", "backend", types.BackendJSONL, "dir", b.dir, "records", doc.Len(), "gen", idx.Gen)
	return nil
}

// writeSections writes the sections of doc under gen, appending each
// written section name to written.
func (b *Backend) writeSections(ctx context.Context, gen uint64, doc types.Document, written *[]string) error {
	for _, sec := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines := make([]json.RawMessage, 0, len(sec.Records))
		for _, rec := range sec.Records {
			if !json.Valid(rec.Body) {
				return fmt.Errorf("%w: %s record %s is not JSON", types.ErrInvalidData, sec.Name, rec.ID)
			}
			data, err := json.Marshal(line{ID: rec.ID, Body: rec.Body})
			if err != nil {
				return err
			}
			lines = append(lines, data)
		}
		if err := writeLines(b.sectionPath(sec.Name, gen), lines); err != nil {
			return fmt.Errorf("section %s: %w", sec.Name, err)
		}
		*written = append(*written, sec.Name)
	}
	return ctx.Err()
}

// Load reads the sections listed in the index. Malformed lines are skipped
// with a warning; a missing index yields an empty document.
func (b *Backend) Load(ctx context.Context) (types.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Document{}, types.ErrBackendDetached
	}
	idx, err := b.readIndex()
	if err != nil {
		return types.Document{}, err
	}

	doc := types.Document{Codec: idx.Codec}
	for _, name := range idx.Sections {
		if err := ctx.Err(); err != nil {
			return types.Document{}, err
		}
		raw, err := readLines(b.sectionPath(name, idx.Gen))
		if err != nil {
			return types.Document{}, err
		}
		sec := types.Section{Name: name}
		for _, r := range raw {
			var l line
			if err := json.Unmarshal(r, &l); err != nil || l.ID == "" {
				b.logger.Warn("skipping malformed line", "section", name)
				continue
			}
			sec.Records = append(sec.Records, types.Record{ID: l.ID, Body: []byte(l.Body)})
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

func (b *Backend) readIndex() (index, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, IndexFile))
	if errors.Is(err, os.ErrNotExist) {
		return index{}, nil
	}
	if err != nil {
		return index{}, err
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return index{}, fmt.Errorf("%w: %s: %v", types.ErrInvalidData, IndexFile, err)
	}
	return idx, nil
}

func (b *Backend) writeIndex(idx index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(b.dir, IndexFile), func(w *bufio.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}
