package wire

import (
	"fmt"

	"github.com/imcodec/imcodec/registry"
	"github.com/imcodec/imcodec/schema"
)

// Decoder handles low-level wire format decoding. The only state is a read
// cursor advancing monotonically over the input buffer.
type Decoder struct {
	buf      []byte
	pos      int
	registry *registry.Registry
}

// NewDecoder creates a new wire format decoder
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		buf: data,
		pos: 0,
	}
}

// NewDecoderWithRegistry creates a decoder with schema registry
func NewDecoderWithRegistry(data []byte, registry *registry.Registry) *Decoder {
	return &Decoder{
		buf:      data,
		pos:      0,
		registry: registry,
	}
}

// DecodeRecord decodes wire bytes against a message descriptor - main entry
// point. On failure the returned record is nil; no partial record escapes.
func DecodeRecord(data []byte, msg *schema.Message, registry *registry.Registry) (*Record, error) {
	decoder := NewDecoderWithRegistry(data, registry)
	return decoder.DecodeWithSchema(msg)
}

// DecodeWithSchema runs a single linear scan over the buffer: read a tag,
// look the field number up in the descriptor, decode or preserve, repeat
// until the input is exhausted.
func (d *Decoder) DecodeWithSchema(msg *schema.Message) (*Record, error) {
	rec := NewRecord()

	for d.pos < len(d.buf) {
		tagStart := d.pos

		tag, err := d.DecodeVarint()
		if err != nil {
			return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
		}

		fieldNumber, wireType, err := ParseCheckedTag(Tag(tag))
		if err != nil {
			return nil, fmt.Errorf("in message %s: %w", msg.Name, err)
		}

		// Find field in schema
		var field *schema.Field
		for _, f := range msg.Fields {
			if f.Number == int32(fieldNumber) {
				field = f
				break
			}
		}

		if field == nil {
			// Unknown field - skip by the wire type carried in the tag and
			// preserve the raw span for round-trip fidelity.
			if err := d.skipField(wireType); err != nil {
				return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
			}
			if !config.DiscardUnknownOnDecode {
				raw := make([]byte, d.pos-tagStart)
				copy(raw, d.buf[tagStart:d.pos])
				rec.AddUnknown(RawValue{
					FieldNumber: fieldNumber,
					WireType:    wireType,
					Raw:         raw,
				})
			}
			continue
		}

		// Known fields decode by the descriptor's declared wire type, never
		// by the one in the tag: a mismatch is an error, not a silent
		// reinterpretation.
		if declared := WireTypeOf(&field.Type); wireType != declared {
			return nil, wrapWithField(fmt.Errorf("%w: descriptor declares wire type %d, tag carries %d", ErrWireKindMismatch, declared, wireType), field.Name)
		}

		value, err := d.DecodeTypedField(&field.Type)
		if err != nil {
			return nil, wrapWithField(err, field.Name)
		}

		if field.Label == schema.LabelRepeated {
			// Duplicate tags for a repeated field append in order.
			rec.Append(fieldNumber, value)
		} else {
			// Duplicate tags for a singular field: last value wins.
			rec.Set(fieldNumber, value)
		}
	}

	if config.PopulateDefaultsOnDecode {
		populateDefaults(rec, msg)
	}

	return rec, nil
}

// DecodeTypedField routes to the appropriate decoder based on field type.
// The caller has already checked the tag's wire type against the
// descriptor.
func (d *Decoder) DecodeTypedField(fieldType *schema.FieldType) (interface{}, error) {
	switch fieldType.Kind {
	case schema.KindPrimitive:
		return d.decodePrimitive(fieldType.PrimitiveType)
	case schema.KindMessage:
		md := NewMessageDecoder(d)
		return md.DecodeRecord(fieldType.MessageType)
	case schema.KindEnum:
		// Open enum: the raw integer is stored whether or not the declared
		// value set contains it.
		vd := NewVarintDecoder(d)
		return vd.DecodeEnum()
	default:
		return nil, fmt.Errorf("unsupported field kind: %s", fieldType.Kind)
	}
}

// decodePrimitive decodes a primitive type using the appropriate decoder
func (d *Decoder) decodePrimitive(primitiveType schema.PrimitiveType) (interface{}, error) {
	switch primitiveType {
	case schema.TypeInt32:
		vd := NewVarintDecoder(d)
		return vd.DecodeInt32()
	case schema.TypeInt64:
		vd := NewVarintDecoder(d)
		return vd.DecodeInt64()
	case schema.TypeUint32:
		v, err := d.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return uint32(v), nil
	case schema.TypeUint64:
		return d.DecodeVarint()
	case schema.TypeSint32:
		vd := NewVarintDecoder(d)
		return vd.DecodeSint32()
	case schema.TypeSint64:
		vd := NewVarintDecoder(d)
		return vd.DecodeSint64()
	case schema.TypeBool:
		vd := NewVarintDecoder(d)
		return vd.DecodeBool()
	case schema.TypeFloat:
		fd := NewFixedDecoder(d)
		return fd.DecodeFloat32()
	case schema.TypeFixed32:
		fd := NewFixedDecoder(d)
		return fd.DecodeFixed32()
	case schema.TypeSfixed32:
		fd := NewFixedDecoder(d)
		return fd.DecodeSfixed32()
	case schema.TypeDouble:
		fd := NewFixedDecoder(d)
		return fd.DecodeFloat64()
	case schema.TypeFixed64:
		fd := NewFixedDecoder(d)
		return fd.DecodeFixed64()
	case schema.TypeSfixed64:
		fd := NewFixedDecoder(d)
		return fd.DecodeSfixed64()
	case schema.TypeString:
		bd := NewBytesDecoder(d)
		return bd.DecodeString()
	case schema.TypeBytes:
		bd := NewBytesDecoder(d)
		return bd.DecodeBytes()
	default:
		return nil, fmt.Errorf("unsupported primitive type: %s", primitiveType)
	}
}

// decodeRawValue decodes without type information
func (d *Decoder) decodeRawValue(wireType WireType) (interface{}, error) {
	switch wireType {
	case WireVarint:
		vd := NewVarintDecoder(d)
		return vd.DecodeVarint()
	case WireFixed64:
		fd := NewFixedDecoder(d)
		return fd.DecodeFixed64()
	case WireBytes:
		bd := NewBytesDecoder(d)
		return bd.DecodeBytes()
	case WireFixed32:
		fd := NewFixedDecoder(d)
		return fd.DecodeFixed32()
	default:
		return nil, fmt.Errorf("unknown wire type: %d", wireType)
	}
}

// skipField skips a field based on wire type
func (d *Decoder) skipField(wireType WireType) error {
	switch wireType {
	case WireVarint:
		vd := NewVarintDecoder(d)
		return vd.SkipVarint()
	case WireFixed64:
		if d.pos+8 > len(d.buf) {
			return fmt.Errorf("%w: not enough data to skip fixed64", ErrTruncated)
		}
		d.pos += 8
		return nil
	case WireBytes:
		bd := NewBytesDecoder(d)
		return bd.SkipBytes()
	case WireFixed32:
		if d.pos+4 > len(d.buf) {
			return fmt.Errorf("%w: not enough data to skip fixed32", ErrTruncated)
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wireType)
	}
}

// populateDefaults fills zero values for absent singular primitive and
// enum fields. Message fields and repeated fields stay absent.
func populateDefaults(rec *Record, msg *schema.Message) {
	for _, field := range msg.Fields {
		if field.Label == schema.LabelRepeated || field.Type.Kind == schema.KindMessage {
			continue
		}
		num := FieldNumber(field.Number)
		if rec.Has(num) {
			continue
		}
		rec.Set(num, zeroValue(&field.Type))
	}
}

// zeroValue returns the default value for a scalar or enum field type.
func zeroValue(fieldType *schema.FieldType) interface{} {
	if fieldType.Kind == schema.KindEnum {
		return int32(0)
	}
	switch fieldType.PrimitiveType {
	case schema.TypeInt32, schema.TypeSint32, schema.TypeSfixed32:
		return int32(0)
	case schema.TypeInt64, schema.TypeSint64, schema.TypeSfixed64:
		return int64(0)
	case schema.TypeUint32, schema.TypeFixed32:
		return uint32(0)
	case schema.TypeUint64, schema.TypeFixed64:
		return uint64(0)
	case schema.TypeBool:
		return false
	case schema.TypeFloat:
		return float32(0)
	case schema.TypeDouble:
		return float64(0)
	case schema.TypeString:
		return ""
	case schema.TypeBytes:
		return []byte{}
	default:
		return nil
	}
}

// DecodeField decodes a single field from the current position without
// schema information. Returns nil at end of input.
func (d *Decoder) DecodeField() (*Value, error) {
	if d.pos >= len(d.buf) {
		return nil, nil
	}

	tag, err := d.DecodeVarint()
	if err != nil {
		return nil, err
	}

	fieldNumber, wireType, err := ParseCheckedTag(Tag(tag))
	if err != nil {
		return nil, err
	}

	data, err := d.decodeRawValue(wireType)
	if err != nil {
		return nil, err
	}

	return &Value{
		FieldNumber: fieldNumber,
		WireType:    wireType,
		Data:        data,
	}, nil
}
