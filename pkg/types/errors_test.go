package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorIs(t *testing.T) {
	err := fmt.Errorf("navigate: %w", &NotFoundError{Entity: "Block", ID: "abc"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `Block "abc" not found`)

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "abc", nf.ID)
}

func TestDanglingErrorIs(t *testing.T) {
	err := &DanglingError{Entity: "Statement", ID: "s1", Field: "R18", Target: "Block", Ref: "b9"}

	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, `Statement "s1": R18 references missing Block "b9"`, err.Error())
}

func TestDocumentSection(t *testing.T) {
	doc := Document{
		Codec: CodecJSON,
		Sections: []Section{
			{Name: "blocks", Records: []Record{{ID: "a"}, {ID: "b"}}},
			{Name: "calls", Records: []Record{{ID: "c"}}},
		},
	}

	s, ok := doc.Section("calls")
	assert.True(t, ok)
	assert.Len(t, s.Records, 1)

	_, ok = doc.Section("missing")
	assert.False(t, ok)
	assert.Equal(t, 3, doc.Len())
}
