package model

import (
	"encoding"
	"fmt"
)

// Persistent is a model that can be written to and restored from bytes.
type Persistent interface {
	Model
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Kind() string
}

var kinds = map[string]func() Persistent{
	logisticKind: func() Persistent { return &LogisticRegression{} },
}

// Encode serializes a model and returns its kind tag for Decode.
func Encode(m Model) (string, []byte, error) {
	p, ok := m.(Persistent)
	if !ok {
		return "", nil, fmt.Errorf("model %T cannot be persisted", m)
	}
	payload, err := p.MarshalBinary()
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", p.Kind(), err)
	}
	return p.Kind(), payload, nil
}

// Decode restores a model written by Encode.
func Decode(kind string, payload []byte) (Model, error) {
	newModel, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
	m := newModel()
	if err := m.UnmarshalBinary(payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return m, nil
}
