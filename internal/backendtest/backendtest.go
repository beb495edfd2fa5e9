// Package backendtest holds the behavior every types.Backend must share,
// run against each implementation from its own tests.
package backendtest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Factory returns a fresh, detached backend and a config to attach it with.
type Factory func(t *testing.T) (types.Backend, types.Config)

// SampleDocument returns a small document with an empty section.
func SampleDocument() types.Document {
	return types.Document{
		Codec: types.CodecJSON,
		Sections: []types.Section{
			{Name: "blocks", Records: []types.Record{
				{ID: "b2", Body: []byte(`{"id":"b2"}`)},
				{ID: "b1", Body: []byte(`{"id":"b1"}`)},
			}},
			{Name: "calls"},
			{Name: "integer_literals", Records: []types.Record{
				{ID: "i1", Body: []byte(`{"id":"i1","value":7}`)},
			}},
		},
	}
}

// normalize treats nil and empty record slices alike.
func normalize(doc types.Document) types.Document {
	for i := range doc.Sections {
		if len(doc.Sections[i].Records) == 0 {
			doc.Sections[i].Records = nil
		}
	}
	return doc
}

// Run exercises the backend lifecycle and a save/load round trip.
func Run(t *testing.T, newBackend Factory) {
	t.Run("Lifecycle", func(t *testing.T) {
		b, cfg := newBackend(t)
		if err := b.Attach(cfg); err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		if err := b.Attach(cfg); !errors.Is(err, types.ErrAlreadyAttached) {
			t.Errorf("expected ErrAlreadyAttached, got %v", err)
		}
		if err := b.Detach(); err != nil {
			t.Fatalf("Detach failed: %v", err)
		}
		if err := b.Detach(); err != nil {
			t.Errorf("second Detach should not error, got %v", err)
		}
		if err := b.Save(context.Background(), SampleDocument()); !errors.Is(err, types.ErrBackendDetached) {
			t.Errorf("expected ErrBackendDetached from Save, got %v", err)
		}
		if _, err := b.Load(context.Background()); !errors.Is(err, types.ErrBackendDetached) {
			t.Errorf("expected ErrBackendDetached from Load, got %v", err)
		}
	})

	t.Run("EmptyLoad", func(t *testing.T) {
		b, cfg := newBackend(t)
		if err := b.Attach(cfg); err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		defer b.Detach()

		doc, err := b.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if doc.Len() != 0 || len(doc.Sections) != 0 {
			t.Errorf("expected empty document, got %+v", doc)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		b, cfg := newBackend(t)
		if err := b.Attach(cfg); err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		defer b.Detach()

		ctx := context.Background()
		want := SampleDocument()
		if err := b.Save(ctx, want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := b.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !reflect.DeepEqual(normalize(want), normalize(got)) {
			t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
		}
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		b, cfg := newBackend(t)
		if err := b.Attach(cfg); err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		defer b.Detach()

		ctx := context.Background()
		if err := b.Save(ctx, SampleDocument()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		smaller := types.Document{Codec: types.CodecJSON, Sections: []types.Section{
			{Name: "blocks", Records: []types.Record{{ID: "b9", Body: []byte(`{"id":"b9"}`)}}},
		}}
		if err := b.Save(ctx, smaller); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}
		got, err := b.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !reflect.DeepEqual(normalize(smaller), normalize(got)) {
			t.Errorf("expected only the second document, got %+v", got)
		}
	})
}

// RunPersistent additionally checks that a saved document survives detach
// and re-attach of a new backend on the same config.
func RunPersistent(t *testing.T, newBackend Factory) {
	t.Run("Reattach", func(t *testing.T) {
		b, cfg := newBackend(t)
		if err := b.Attach(cfg); err != nil {
			t.Fatalf("Attach failed: %v", err)
		}
		ctx := context.Background()
		if err := b.Save(ctx, SampleDocument()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := b.Detach(); err != nil {
			t.Fatalf("Detach failed: %v", err)
		}

		if err := b.Attach(cfg); err != nil {
			t.Fatalf("re-Attach failed: %v", err)
		}
		defer b.Detach()
		got, err := b.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got.Len() != SampleDocument().Len() {
			t.Errorf("expected %d records after re-attach, got %d", SampleDocument().Len(), got.Len())
		}
	})
}
