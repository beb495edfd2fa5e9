package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parentKey(n *node) []string {
	if n.Parent == "" {
		return nil
	}
	return []string{n.Parent}
}

func keys(ns []*node) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Key
	}
	return out
}

func TestIndexLookupInInsertionOrder(t *testing.T) {
	c := New[*node]("Node")
	byParent := c.IndexBy("parent", parentKey)

	c.Inter(&node{Key: "c2", Parent: "p"})
	c.Inter(&node{Key: "c1", Parent: "p"})
	c.Inter(&node{Key: "x", Parent: "q"})
	c.Inter(&node{Key: "root"})

	assert.Equal(t, []string{"c2", "c1"}, keys(byParent.Lookup("p")))
	assert.Equal(t, []string{"x"}, keys(byParent.Lookup("q")))
	assert.Empty(t, byParent.Lookup("none"))
	assert.Equal(t, "parent", byParent.Name())
}

func TestIndexFollowsReplacement(t *testing.T) {
	c := New[*node]("Node")
	byParent := c.IndexBy("parent", parentKey)

	c.Inter(&node{Key: "a", Parent: "p"})
	c.Inter(&node{Key: "b", Parent: "p"})
	c.Inter(&node{Key: "a", Parent: "q", Label: "moved"})

	assert.Equal(t, []string{"b"}, keys(byParent.Lookup("p")))
	moved := byParent.Lookup("q")
	require.Len(t, moved, 1)
	assert.Equal(t, "moved", moved[0].Label)

	// Replacing with the same key keeps the record's position.
	c.Inter(&node{Key: "c", Parent: "q"})
	c.Inter(&node{Key: "a", Parent: "q", Label: "touched"})
	assert.Equal(t, []string{"a", "c"}, keys(byParent.Lookup("q")))
}

func TestIndexBuiltOverExistingRecords(t *testing.T) {
	c := New[*node]("Node")
	c.Inter(&node{Key: "a", Tags: []string{"red", "blue"}})
	c.Inter(&node{Key: "b", Tags: []string{"blue"}})

	byTag := c.IndexBy("tag", func(n *node) []string { return n.Tags })
	assert.Equal(t, []string{"a", "b"}, keys(byTag.Lookup("blue")))

	first, ok := byTag.First("red")
	require.True(t, ok)
	assert.Equal(t, "a", first.Key)

	_, ok = byTag.First("green")
	assert.False(t, ok)
}

func TestIndexFollowsInPlaceMutation(t *testing.T) {
	c := New[*node]("Node")
	byParent := c.IndexBy("parent", parentKey)

	c.Inter(&node{Key: "a", Parent: "p"})
	c.Inter(&node{Key: "b", Parent: "p"})

	a := c.Must("a")
	a.Parent = "q"
	c.Inter(a)

	assert.Equal(t, []string{"b"}, keys(byParent.Lookup("p")))
	assert.Equal(t, []string{"a"}, keys(byParent.Lookup("q")))

	a.Parent = ""
	c.Inter(a)
	assert.Empty(t, byParent.Lookup("q"))
	assert.Equal(t, []string{"b"}, keys(byParent.Lookup("p")))

	a.Parent = "p"
	c.Inter(a)
	assert.Equal(t, []string{"b", "a"}, keys(byParent.Lookup("p")))
}

func TestIndexCountsRepeatedKeysOnce(t *testing.T) {
	c := New[*node]("Node")
	byTag := c.IndexBy("tag", func(n *node) []string { return n.Tags })

	n := &node{Key: "a", Tags: []string{"red", "red"}}
	c.Inter(n)
	assert.Equal(t, []string{"a"}, keys(byTag.Lookup("red")))

	n.Tags = []string{"blue", "red", "blue"}
	c.Inter(n)
	assert.Equal(t, []string{"a"}, keys(byTag.Lookup("red")))
	assert.Equal(t, []string{"a"}, keys(byTag.Lookup("blue")))
}
