package sqlite_test

import (
	"context"
	"testing"

	"github.com/mesh-intelligence/ossuary/internal/codec"
	"github.com/mesh-intelligence/ossuary/internal/ludog"
	"github.com/mesh-intelligence/ossuary/pkg/sqlite"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func TestNewBackend_StoresADocument(t *testing.T) {
	ctx := context.Background()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	s, err := ludog.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	block := ludog.Demo(s)
	doc, err := s.Document(ctx, codec.JSON)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	b := sqlite.NewBackend(nil)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := b.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	b = sqlite.NewBackend(nil)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("reattach: %v", err)
	}
	defer b.Detach()
	loaded, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	restored, err := ludog.FromDocument(loaded)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if _, ok := restored.ExhumeBlock(block.ID()); !ok {
		t.Errorf("block %s missing after reload", block.ID())
	}
	if got, want := loaded.Len(), doc.Len(); got != want {
		t.Errorf("loaded %d records, want %d", got, want)
	}
}
