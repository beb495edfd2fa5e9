package ludog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/internal/codec"
	"github.com/mesh-intelligence/ossuary/pkg/ids"
	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// assertSameContents checks that every exhume against want yields an equal
// record from got.
func assertSameContents(t *testing.T, want, got *Store) {
	t.Helper()
	if diff := cmp.Diff(want.Snapshot(), got.Snapshot()); diff != "" {
		t.Errorf("store contents differ (-want +got):\n%s", diff)
	}
	for _, k := range Kinds() {
		for _, r := range k.List(want) {
			other, err := k.Exhume(got, r.ID())
			require.NoError(t, err)
			assert.Equal(t, r, other)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON, codec.MsgPack, codec.YAML} {
		t.Run(c.Name(), func(t *testing.T) {
			s := newTestStore(t)
			Demo(s)

			data, err := c.Marshal(s.Snapshot())
			require.NoError(t, err)
			var snap Snapshot
			require.NoError(t, c.Unmarshal(data, &snap))

			loaded, err := FromSnapshot(snap)
			require.NoError(t, err)
			assertSameContents(t, s, loaded)
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON, codec.MsgPack, codec.YAML} {
		t.Run(c.Name(), func(t *testing.T) {
			s := newTestStore(t, WithIDPolicy(ids.Derived))
			Demo(s)

			doc, err := s.Document(context.Background(), c)
			require.NoError(t, err)
			assert.Equal(t, c.Name(), doc.Codec)
			require.Len(t, doc.Sections, len(Kinds()))
			assert.Equal(t, "blocks", doc.Sections[0].Name)

			loaded, err := FromDocument(doc)
			require.NoError(t, err)
			assertSameContents(t, s, loaded)
		})
	}
}

func TestDocumentPreservesInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	var want []string
	for i := range 10 {
		want = append(want, NewIntegerLiteral(int64(i), s).ID())
	}
	doc, err := s.Document(context.Background(), codec.JSON)
	require.NoError(t, err)

	loaded, err := FromDocument(doc)
	require.NoError(t, err)
	var got []string
	for id := range loaded.IterIntegerLiteral() {
		got = append(got, id)
	}
	assert.Equal(t, want, got)
}

func TestFromDocumentRejectsBadInput(t *testing.T) {
	_, err := FromDocument(types.Document{Codec: "xml"})
	assert.ErrorIs(t, err, types.ErrCodecUnknown)

	_, err = FromDocument(types.Document{Sections: []types.Section{{Name: "lambdas"}}})
	assert.ErrorIs(t, err, types.ErrUnknownEntity)

	_, err = FromDocument(types.Document{Sections: []types.Section{{
		Name:    "blocks",
		Records: []types.Record{{ID: "a", Body: []byte(`{"id":"b"}`)}},
	}}})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = FromDocument(types.Document{Sections: []types.Section{{
		Name:    "blocks",
		Records: []types.Record{{ID: "a", Body: []byte(`not json`)}},
	}}})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestFromSnapshotRejectsNullRecords(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"statements":[null]}`), &snap))

	var (
		s   *Store
		err error
	)
	require.NotPanics(t, func() { s, err = FromSnapshot(snap) })
	assert.ErrorIs(t, err, types.ErrInvalidData)
	assert.Nil(t, s)

	_, err = FromSnapshot(Snapshot{Blocks: []*Block{{}}})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestFromDocumentRejectsNullBody(t *testing.T) {
	for _, id := range []string{"", "a"} {
		_, err := FromDocument(types.Document{Sections: []types.Section{{
			Name:    "blocks",
			Records: []types.Record{{ID: id, Body: []byte(`null`)}},
		}}})
		assert.ErrorIs(t, err, types.ErrInvalidData, "record id %q", id)
	}
}

func TestFromDocumentVerifies(t *testing.T) {
	s := newTestStore(t)
	NewStatementByID(0, ids.New(), "", StatementSubtype{Kind: StatementItem}, s)
	doc, err := s.Document(context.Background(), codec.JSON)
	require.NoError(t, err)

	loaded, err := FromDocument(doc)
	assert.ErrorIs(t, err, types.ErrDanglingReference)
	require.NotNil(t, loaded)
}

func TestDocumentHonorsCancellation(t *testing.T) {
	s := newTestStore(t)
	Demo(s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Document(ctx, codec.JSON)
	assert.ErrorIs(t, err, context.Canceled)
}
