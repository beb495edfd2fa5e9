package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

func TestArenaInsertResolve(t *testing.T) {
	var a Arena[string]
	h1 := a.Insert("one")
	h2 := a.Insert("two")

	assert.Equal(t, Handle{Slot: 0, Gen: 1}, h1)
	assert.Equal(t, Handle{Slot: 1, Gen: 1}, h2)
	assert.Equal(t, 2, a.Len())

	v, err := a.Resolve(h2)
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}

func TestArenaReplaceStalesOldHandle(t *testing.T) {
	var a Arena[string]
	h := a.Insert("old")

	h2, err := a.Replace(h, "new")
	require.NoError(t, err)
	assert.Equal(t, h.Slot, h2.Slot)
	assert.Equal(t, uint32(2), h2.Gen)

	_, err = a.Resolve(h)
	assert.ErrorIs(t, err, types.ErrStaleHandle)

	v, err := a.Resolve(h2)
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	_, err = a.Replace(h, "again")
	assert.ErrorIs(t, err, types.ErrStaleHandle)
}

func TestArenaRejectsZeroAndOutOfRange(t *testing.T) {
	var a Arena[int]
	a.Insert(7)

	_, err := a.Resolve(Handle{})
	assert.ErrorIs(t, err, types.ErrStaleHandle)
	_, err = a.Resolve(Handle{Slot: 5, Gen: 1})
	assert.ErrorIs(t, err, types.ErrStaleHandle)
	assert.True(t, Handle{}.IsZero())
}

func TestArenaAllStopsEarly(t *testing.T) {
	var a Arena[int]
	for i := range 5 {
		a.Insert(i)
	}
	var got []int
	for _, v := range a.All() {
		got = append(got, v)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}
