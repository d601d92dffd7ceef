package wire

import (
	"fmt"

	"github.com/imcodec/imcodec/schema"
)

// MessageDecoder handles nested message decoding operations
type MessageDecoder struct {
	decoder *Decoder
}

// MessageEncoder handles message encoding operations
type MessageEncoder struct {
	encoder *Encoder
}

// NewMessageDecoder creates a new message decoder
func NewMessageDecoder(d *Decoder) *MessageDecoder {
	return &MessageDecoder{decoder: d}
}

// NewMessageEncoder creates a new message encoder
func NewMessageEncoder(e *Encoder) *MessageEncoder {
	return &MessageEncoder{encoder: e}
}

// DECODER METHODS

// DecodeRecord decodes a length-delimited nested message by recursing with
// the nested descriptor. Recursion depth is bounded by the schema's own
// message nesting depth.
func (md *MessageDecoder) DecodeRecord(messageType string) (interface{}, error) {
	// Messages are encoded as length-delimited bytes. The frame can share
	// the input buffer: the nested decode below copies every leaf value it
	// extracts.
	bd := NewBytesDecoder(md.decoder)
	messageBytes, err := bd.DecodeRawBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to decode message bytes: %w", err)
	}

	if md.decoder.registry == nil {
		// No registry available; copy so the caller never aliases the input
		raw := make([]byte, len(messageBytes))
		copy(raw, messageBytes)
		return raw, nil
	}

	msg, err := md.decoder.registry.GetMessage(messageType)
	if err != nil {
		return nil, fmt.Errorf("unknown message type %s: %w", messageType, err)
	}

	nestedDecoder := NewDecoderWithRegistry(messageBytes, md.decoder.registry)
	return nestedDecoder.DecodeWithSchema(msg)
}

// ENCODER METHODS

// EncodeRecord encodes the record's fields in presence order, then any
// preserved unknown spans verbatim. Receivers must tolerate any field
// order, so presence order needs no sorting.
func (me *MessageEncoder) EncodeRecord(rec *Record, msg *schema.Message) error {
	// Create a temporary encoder for the message content
	messageEncoder := NewEncoder()
	messageEncoder.registry = me.encoder.registry

	for _, fv := range rec.Fields {
		field := findFieldByNumber(msg, fv.Number)
		if field == nil {
			return fmt.Errorf("%w: field %d not declared by message %s", ErrInvalidFieldNumber, fv.Number, msg.Name)
		}

		if field.Label == schema.LabelRepeated {
			// encodeRepeatedField emits one tag per element
			if err := me.encodeRepeatedField(messageEncoder, fv.Value, field); err != nil {
				return wrapWithField(err, field.Name)
			}
			continue
		}

		ve := NewVarintEncoder(messageEncoder)
		ve.EncodeVarint(uint64(MakeTag(fv.Number, WireTypeOf(&field.Type))))

		if err := me.encodeFieldValue(messageEncoder, fv.Value, field); err != nil {
			return wrapWithField(err, field.Name)
		}
	}

	// Unknown fields re-emit their original spans byte for byte.
	for _, rv := range rec.Unknown {
		messageEncoder.buf = append(messageEncoder.buf, rv.Raw...)
	}

	me.encoder.buf = append(me.encoder.buf, messageEncoder.buf...)
	return nil
}

// encodeFieldValue encodes a singular field value based on its type
func (me *MessageEncoder) encodeFieldValue(encoder *Encoder, value interface{}, field *schema.Field) error {
	switch field.Type.Kind {
	case schema.KindPrimitive:
		return me.encodePrimitiveField(encoder, value, field.Type.PrimitiveType)
	case schema.KindMessage:
		return me.encodeMessageField(encoder, value, field.Type.MessageType)
	case schema.KindEnum:
		return me.encodeEnumField(encoder, value)
	default:
		return fmt.Errorf("unsupported field kind: %s", field.Type.Kind)
	}
}

// encodeRepeatedField encodes a repeated field, one (tag, payload) pair per
// element in sequence order. Repeated scalars are never packed into a
// single length-delimited run.
func (me *MessageEncoder) encodeRepeatedField(encoder *Encoder, value interface{}, field *schema.Field) error {
	slice, ok := value.([]interface{})
	if !ok {
		// Accept common typed slices for caller convenience
		switch v := value.(type) {
		case [][]byte:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []string:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []*Record:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []int32:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []int64:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []uint32:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []uint64:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []bool:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []float32:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		case []float64:
			slice = make([]interface{}, len(v))
			for i, val := range v {
				slice[i] = val
			}
		default:
			return fmt.Errorf("%w: repeated field value must be a slice, got %T", ErrTypeMismatch, value)
		}
	}

	for _, element := range slice {
		ve := NewVarintEncoder(encoder)
		ve.EncodeVarint(uint64(MakeTag(FieldNumber(field.Number), WireTypeOf(&field.Type))))

		if err := me.encodeFieldValue(encoder, element, field); err != nil {
			return err
		}
	}

	return nil
}

// encodePrimitiveField encodes a primitive field, rejecting runtime types
// that do not match the declared logical type.
func (me *MessageEncoder) encodePrimitiveField(encoder *Encoder, value interface{}, primitiveType schema.PrimitiveType) error {
	switch primitiveType {
	case schema.TypeString:
		v, ok := value.(string)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		be := NewBytesEncoder(encoder)
		be.EncodeString(v)
	case schema.TypeBytes:
		v, ok := value.([]byte)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		be := NewBytesEncoder(encoder)
		be.EncodeBytes(v)
	case schema.TypeInt32:
		v, ok := value.(int32)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeInt32(v)
	case schema.TypeInt64:
		v, ok := value.(int64)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeInt64(v)
	case schema.TypeUint32:
		v, ok := value.(uint32)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeUint32(v)
	case schema.TypeUint64:
		v, ok := value.(uint64)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeUint64(v)
	case schema.TypeSint32:
		v, ok := value.(int32)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeSint32(v)
	case schema.TypeSint64:
		v, ok := value.(int64)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeSint64(v)
	case schema.TypeBool:
		v, ok := value.(bool)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		ve := NewVarintEncoder(encoder)
		ve.EncodeBool(v)
	case schema.TypeFloat:
		v, ok := value.(float32)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		fe := NewFixedEncoder(encoder)
		fe.EncodeFloat32(v)
	case schema.TypeDouble:
		v, ok := value.(float64)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		fe := NewFixedEncoder(encoder)
		fe.EncodeFloat64(v)
	case schema.TypeFixed32:
		v, ok := value.(uint32)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		fe := NewFixedEncoder(encoder)
		fe.EncodeFixed32(v)
	case schema.TypeFixed64:
		v, ok := value.(uint64)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		fe := NewFixedEncoder(encoder)
		fe.EncodeFixed64(v)
	case schema.TypeSfixed32:
		v, ok := value.(int32)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		fe := NewFixedEncoder(encoder)
		fe.EncodeSfixed32(v)
	case schema.TypeSfixed64:
		v, ok := value.(int64)
		if !ok {
			return typeMismatch(primitiveType, value)
		}
		fe := NewFixedEncoder(encoder)
		fe.EncodeSfixed64(v)
	default:
		return fmt.Errorf("unsupported primitive type: %s", primitiveType)
	}
	return nil
}

// encodeMessageField encodes a nested message field. The nested content is
// encoded first, then framed with a varint length prefix.
func (me *MessageEncoder) encodeMessageField(encoder *Encoder, value interface{}, messageTypeName string) error {
	// Pre-encoded nested bytes pass through verbatim
	if messageBytes, ok := value.([]byte); ok {
		be := NewBytesEncoder(encoder)
		be.EncodeBytes(messageBytes)
		return nil
	}

	nested, ok := value.(*Record)
	if !ok {
		return fmt.Errorf("%w: message value must be *Record or []byte, got %T", ErrTypeMismatch, value)
	}

	if me.encoder.registry == nil {
		return fmt.Errorf("registry is required to encode message fields")
	}

	messageSchema, err := me.encoder.registry.GetMessage(messageTypeName)
	if err != nil {
		return fmt.Errorf("unknown message type %s: %w", messageTypeName, err)
	}

	nestedEncoder := NewEncoder()
	nestedEncoder.registry = me.encoder.registry

	nestedMessageEncoder := NewMessageEncoder(nestedEncoder)
	if err := nestedMessageEncoder.EncodeRecord(nested, messageSchema); err != nil {
		return err
	}

	be := NewBytesEncoder(encoder)
	be.EncodeBytes(nestedEncoder.Bytes())
	return nil
}

// encodeEnumField encodes an enum field. Any int32 is accepted verbatim;
// enum membership validation is the caller's responsibility.
func (me *MessageEncoder) encodeEnumField(encoder *Encoder, value interface{}) error {
	enumValue, ok := value.(int32)
	if !ok {
		return fmt.Errorf("%w: enum value must be int32, got %T", ErrTypeMismatch, value)
	}

	ve := NewVarintEncoder(encoder)
	ve.EncodeEnum(enumValue)
	return nil
}

// UTILITY METHODS

func typeMismatch(primitiveType schema.PrimitiveType, value interface{}) error {
	return fmt.Errorf("%w: field type %s, value %T", ErrTypeMismatch, primitiveType, value)
}

// findFieldByNumber finds a field by number in a message
func findFieldByNumber(msg *schema.Message, num FieldNumber) *schema.Field {
	for _, field := range msg.Fields {
		if field.Number == int32(num) {
			return field
		}
	}
	return nil
}

// Convenience methods for direct access

// DecodeRecord - convenience method for main decoder
func (d *Decoder) DecodeRecord(messageType string) (interface{}, error) {
	md := NewMessageDecoder(d)
	return md.DecodeRecord(messageType)
}

// EncodeRecord - convenience method for main encoder
func (e *Encoder) EncodeRecord(rec *Record, msg *schema.Message) error {
	me := NewMessageEncoder(e)
	return me.EncodeRecord(rec, msg)
}
