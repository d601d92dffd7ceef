package wire

import (
	"github.com/imcodec/imcodec/registry"
	"github.com/imcodec/imcodec/schema"
)

// Encoder handles low-level wire format encoding. The output buffer is
// owned by the encoder until Bytes is called; nothing persists across
// calls.
type Encoder struct {
	buf      []byte
	registry *registry.Registry
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// NewEncoderWithRegistry creates an encoder with schema registry
func NewEncoderWithRegistry(registry *registry.Registry) *Encoder {
	return &Encoder{
		buf:      make([]byte, 0),
		registry: registry,
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer, keeping its capacity for reuse
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// grow ensures capacity for n more bytes so a multi-append write does at
// most one reallocation.
func (e *Encoder) grow(n int) {
	if cap(e.buf)-len(e.buf) >= n {
		return
	}
	buf := make([]byte, len(e.buf), len(e.buf)+n)
	copy(buf, e.buf)
	e.buf = buf
}

// EncodeRecord encodes a record against a message descriptor - main entry
// point.
func EncodeRecord(rec *Record, msg *schema.Message, registry *registry.Registry) ([]byte, error) {
	encoder := NewEncoderWithRegistry(registry)
	me := NewMessageEncoder(encoder)
	err := me.EncodeRecord(rec, msg)
	if err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}
