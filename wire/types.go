package wire

import (
	"fmt"

	"github.com/imcodec/imcodec/schema"
)

// ===== WIRE FORMAT TYPES =====

// WireType represents the coarse physical encoding category of a field,
// independent of its logical type.
type WireType int32

const (
	WireVarint  WireType = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	WireFixed64 WireType = 1 // fixed64, sfixed64, double
	WireBytes   WireType = 2 // string, bytes, embedded messages
	WireFixed32 WireType = 5 // fixed32, sfixed32, float
)

// FieldNumber represents a field number. Valid numbers are positive;
// number 0 is reserved.
type FieldNumber int32

// MaxFieldNumber is the largest valid field number: tags are 32-bit
// values, leaving 29 bits for the number after the 3 wire-type bits.
const MaxFieldNumber FieldNumber = 1<<29 - 1

// Tag represents a field tag (field number + wire type)
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag parses a tag into field number and wire type
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

// ParseCheckedTag parses a tag, rejecting field numbers outside the valid
// 1..MaxFieldNumber range. The range check must happen on the full 64-bit
// tag: narrowing first would fold an oversized number onto a smaller one
// and misattribute its payload.
func ParseCheckedTag(tag Tag) (FieldNumber, WireType, error) {
	if n := uint64(tag) >> 3; n == 0 || n > uint64(MaxFieldNumber) {
		return 0, 0, fmt.Errorf("%w: field number %d out of range", ErrInvalidFieldNumber, n)
	}
	num, wireType := ParseTag(tag)
	return num, wireType, nil
}

// WireTypeOf returns the wire type a field type encodes with.
func WireTypeOf(fieldType *schema.FieldType) WireType {
	switch fieldType.Kind {
	case schema.KindPrimitive:
		switch fieldType.PrimitiveType {
		case schema.TypeString, schema.TypeBytes:
			return WireBytes
		case schema.TypeFloat, schema.TypeFixed32, schema.TypeSfixed32:
			return WireFixed32
		case schema.TypeDouble, schema.TypeFixed64, schema.TypeSfixed64:
			return WireFixed64
		default:
			return WireVarint
		}
	case schema.KindMessage:
		return WireBytes
	case schema.KindEnum:
		return WireVarint
	default:
		return WireVarint
	}
}

// Value represents a decoded field without schema information.
type Value struct {
	FieldNumber FieldNumber
	WireType    WireType
	Data        interface{} // Actual value
}

// RawValue is an undecoded field preserved verbatim. Raw holds the entire
// span as it appeared on the wire, tag bytes included, so re-encoding an
// unknown field reproduces its original bytes exactly.
type RawValue struct {
	FieldNumber FieldNumber
	WireType    WireType
	Raw         []byte
}
