package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

type sample struct {
	ID    string   `json:"id" yaml:"id"`
	Count int64    `json:"count" yaml:"count"`
	Next  string   `json:"next,omitempty" yaml:"next,omitempty"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestCodecsRoundTrip(t *testing.T) {
	in := sample{ID: "a", Count: 42, Tags: []string{"x", "y"}}
	for _, c := range []Codec{JSON, MsgPack, YAML} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)
			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestMsgPackUsesJSONTags(t *testing.T) {
	data, err := MsgPack.Marshal(sample{ID: "a"})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, MsgPack.Unmarshal(data, &m))
	assert.Contains(t, m, "id")
	assert.NotContains(t, m, "next")
}

func TestByName(t *testing.T) {
	for name, want := range map[string]Codec{"": JSON, "json": JSON, "msgpack": MsgPack, "yaml": YAML} {
		got, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ByName("xml")
	assert.ErrorIs(t, err, types.ErrCodecUnknown)
}
