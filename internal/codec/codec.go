// Package codec marshals store records and documents. JSON, MessagePack and
// YAML share the json struct tags of the record types, except YAML which
// reads its own yaml tags.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ossuary/pkg/types"
)

// Codec converts values to and from bytes.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Built-in codecs.
var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
	YAML    Codec = yamlCodec{}
)

// ByName returns the codec registered under name. An empty name selects JSON.
func ByName(name string) (Codec, error) {
	switch name {
	case "", types.CodecJSON:
		return JSON, nil
	case types.CodecMsgPack:
		return MsgPack, nil
	case types.CodecYAML:
		return YAML, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrCodecUnknown, name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return types.CodecJSON }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return types.CodecMsgPack }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetOmitEmpty(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return types.CodecYAML }

func (yamlCodec) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
