package wire

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/imcodec/imcodec/registry"
	"github.com/imcodec/imcodec/schema"
)

func newTestRegistry(t *testing.T, file *schema.File) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	repo := &schema.Repo{
		Files: map[string]*schema.File{file.Name: file},
	}
	if err := reg.LoadRepo(repo); err != nil {
		t.Fatalf("failed to load repo: %v", err)
	}
	return reg
}

func primitiveField(name string, number int32, primitiveType schema.PrimitiveType) *schema.Field {
	return &schema.Field{
		Name:   name,
		Number: number,
		Type: schema.FieldType{
			Kind:          schema.KindPrimitive,
			PrimitiveType: primitiveType,
		},
	}
}

func TestDecoder_AllTypes(t *testing.T) {
	file := &schema.File{
		Name: "all_types.schema.json",
		Messages: []*schema.Message{
			{
				Name: "ComprehensiveMessage",
				NestedEnums: []*schema.Enum{
					{
						Name: "Status",
						Values: []*schema.EnumValue{
							{Name: "UNKNOWN", Number: 0},
							{Name: "ACTIVE", Number: 1},
						},
					},
				},
				Fields: []*schema.Field{
					primitiveField("test_int32", 1, schema.TypeInt32),
					primitiveField("test_int64", 2, schema.TypeInt64),
					primitiveField("test_uint32", 3, schema.TypeUint32),
					primitiveField("test_uint64", 4, schema.TypeUint64),
					primitiveField("test_sint32", 5, schema.TypeSint32),
					primitiveField("test_sint64", 6, schema.TypeSint64),
					primitiveField("test_bool", 7, schema.TypeBool),
					primitiveField("test_fixed32", 8, schema.TypeFixed32),
					primitiveField("test_fixed64", 9, schema.TypeFixed64),
					primitiveField("test_sfixed32", 10, schema.TypeSfixed32),
					primitiveField("test_sfixed64", 11, schema.TypeSfixed64),
					primitiveField("test_float", 12, schema.TypeFloat),
					primitiveField("test_double", 13, schema.TypeDouble),
					primitiveField("test_string", 14, schema.TypeString),
					primitiveField("test_bytes", 15, schema.TypeBytes),
					{
						Name:   "test_status",
						Number: 16,
						Type: schema.FieldType{
							Kind:     schema.KindEnum,
							EnumType: "ComprehensiveMessage.Status",
						},
					},
					{
						Name:   "test_inner",
						Number: 17,
						Type: schema.FieldType{
							Kind:        schema.KindMessage,
							MessageType: "Inner",
						},
					},
					{
						Name:   "test_tags",
						Number: 18,
						Label:  schema.LabelRepeated,
						Type: schema.FieldType{
							Kind:          schema.KindPrimitive,
							PrimitiveType: schema.TypeUint64,
						},
					},
				},
			},
			{
				Name: "Inner",
				Fields: []*schema.Field{
					primitiveField("value", 1, schema.TypeString),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, err := reg.GetMessage("ComprehensiveMessage")
	if err != nil {
		t.Fatal(err)
	}

	inner := NewRecord()
	inner.Set(1, "nested value")

	rec := NewRecord()
	rec.Set(1, int32(-123))
	rec.Set(2, int64(-456789))
	rec.Set(3, uint32(123))
	rec.Set(4, uint64(456789))
	rec.Set(5, int32(-42))
	rec.Set(6, int64(-1234567890))
	rec.Set(7, true)
	rec.Set(8, uint32(0xDEADBEEF))
	rec.Set(9, uint64(0xCAFEBABECAFEBABE))
	rec.Set(10, int32(-7))
	rec.Set(11, int64(-9))
	rec.Set(12, float32(3.14))
	rec.Set(13, float64(2.718281828))
	rec.Set(14, "Hello, imcodec!")
	rec.Set(15, []byte("binary data"))
	rec.Set(16, int32(1))
	rec.Set(17, inner)
	rec.Append(18, uint64(7))
	rec.Append(18, uint64(8))
	rec.Append(18, uint64(9))

	encoded, err := EncodeRecord(rec, msg, reg)
	if err != nil {
		t.Fatalf("failed to encode record: %v", err)
	}

	decoded, err := DecodeRecord(encoded, msg, reg)
	if err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}

	if !reflect.DeepEqual(decoded, rec) {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", decoded, rec)
	}
}

func TestDecoder_RepeatedOrderPreserved(t *testing.T) {
	file := &schema.File{
		Name: "repeated.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Album",
				Fields: []*schema.Field{
					{
						Name:   "images",
						Number: 7,
						Label:  schema.LabelRepeated,
						Type: schema.FieldType{
							Kind:          schema.KindPrimitive,
							PrimitiveType: schema.TypeBytes,
						},
					},
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Album")

	rec := NewRecord()
	rec.Append(7, []byte{0x01})
	rec.Append(7, []byte{0x02, 0x03})
	rec.Append(7, []byte{})

	encoded, err := EncodeRecord(rec, msg, reg)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	decoded, err := DecodeRecord(encoded, msg, reg)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	v, _ := decoded.Get(7)
	expected := []interface{}{[]byte{0x01}, []byte{0x02, 0x03}, []byte{}}
	if !reflect.DeepEqual(v, expected) {
		t.Errorf("repeated element order not preserved: got %v, want %v", v, expected)
	}
}

func TestDecoder_VarintBoundaries(t *testing.T) {
	values := []uint64{0, 127, 128, 1<<32 - 1, math.MaxUint64}

	for _, value := range values {
		e := NewEncoder()
		e.EncodeVarint(value)

		d := NewDecoder(e.Bytes())
		got, err := d.DecodeVarint()
		if err != nil {
			t.Errorf("value %d: decode failed: %v", value, err)
			continue
		}
		if got != value {
			t.Errorf("value %d: round trip yielded %d", value, got)
		}
	}
}

func TestDecoder_VarintTooLong(t *testing.T) {
	// 11 bytes, continuation bit set on the first 10
	data := bytes.Repeat([]byte{0x80}, 10)
	data = append(data, 0x01)

	d := NewDecoder(data)
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrVarintTooLong) {
		t.Errorf("expected ErrVarintTooLong, got %v", err)
	}
}

func TestDecoder_VarintTruncated(t *testing.T) {
	// Continuation bit set, then nothing
	d := NewDecoder([]byte{0xAC})
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}

	d = NewDecoder(nil)
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated on empty input, got %v", err)
	}
}

func TestDecoder_TruncationRejected(t *testing.T) {
	file := &schema.File{
		Name: "trunc.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Envelope",
				Fields: []*schema.Field{
					{
						Name:   "payload",
						Number: 1,
						Type: schema.FieldType{
							Kind:        schema.KindMessage,
							MessageType: "Payload",
						},
					},
				},
			},
			{
				Name: "Payload",
				Fields: []*schema.Field{
					primitiveField("name", 1, schema.TypeString),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Envelope")

	payload := NewRecord()
	payload.Set(1, "truncation probe")
	rec := NewRecord()
	rec.Set(1, payload)

	encoded, err := EncodeRecord(rec, msg, reg)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	// Every strict prefix of a single-field length-delimited encoding cuts
	// mid-tag, mid-length or mid-payload and must be rejected.
	for k := 0; k < len(encoded); k++ {
		if k == 0 {
			continue // empty input decodes to an empty record
		}
		if _, err := DecodeRecord(encoded[:k], msg, reg); err == nil {
			t.Errorf("prefix of length %d decoded without error", k)
		}
	}
}

func TestDecoder_LengthOverflow(t *testing.T) {
	file := &schema.File{
		Name: "overflow.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Blob",
				Fields: []*schema.Field{
					primitiveField("data", 1, schema.TypeBytes),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Blob")

	// Field 1, length-delimited, claims 100 bytes but carries 2
	data := []byte{0x0A, 100, 0x61, 0x62}
	if _, err := DecodeRecord(data, msg, reg); !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("expected ErrLengthOverflow, got %v", err)
	}
}

func TestDecoder_LastValueWins(t *testing.T) {
	file := &schema.File{
		Name: "dup.schema.json",
		Messages: []*schema.Message{
			{
				Name: "WithEnum",
				NestedEnums: []*schema.Enum{
					{
						Name: "NestedEnum1",
						Values: []*schema.EnumValue{
							{Name: "EN_ZERO", Number: 0},
							{Name: "EN_ONE", Number: 1},
							{Name: "EN_TWO", Number: 2},
						},
					},
				},
				Fields: []*schema.Field{
					{
						Name:   "nested1",
						Number: 2,
						Type: schema.FieldType{
							Kind:     schema.KindEnum,
							EnumType: "WithEnum.NestedEnum1",
						},
					},
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("WithEnum")

	// tag field 2 varint appears twice: EN_ONE then EN_TWO
	e := NewEncoder()
	e.EncodeVarint(uint64(MakeTag(2, WireVarint)))
	e.EncodeVarint(1)
	e.EncodeVarint(uint64(MakeTag(2, WireVarint)))
	e.EncodeVarint(2)

	decoded, err := DecodeRecord(e.Bytes(), msg, reg)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	v, ok := decoded.Get(2)
	if !ok {
		t.Fatal("field 2 not present")
	}
	if v != int32(2) {
		t.Errorf("expected last value int32(2) to win, got %v", v)
	}
}

func TestDecoder_OpenEnum(t *testing.T) {
	file := &schema.File{
		Name: "open.schema.json",
		Messages: []*schema.Message{
			{
				Name: "WithEnum",
				NestedEnums: []*schema.Enum{
					{
						Name: "NestedEnum1",
						Values: []*schema.EnumValue{
							{Name: "EN_ZERO", Number: 0},
							{Name: "EN_ONE", Number: 1},
							{Name: "EN_TWO", Number: 2},
							{Name: "EN_THREE", Number: 3},
						},
					},
				},
				Fields: []*schema.Field{
					{
						Name:   "nested1",
						Number: 2,
						Type: schema.FieldType{
							Kind:     schema.KindEnum,
							EnumType: "WithEnum.NestedEnum1",
						},
					},
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("WithEnum")

	// Value 99 is outside the declared 0-3 set and must be kept verbatim
	e := NewEncoder()
	e.EncodeVarint(uint64(MakeTag(2, WireVarint)))
	e.EncodeVarint(99)

	decoded, err := DecodeRecord(e.Bytes(), msg, reg)
	if err != nil {
		t.Fatalf("open enum decode failed: %v", err)
	}

	v, _ := decoded.Get(2)
	if v != int32(99) {
		t.Errorf("expected int32(99), got %v", v)
	}

	// And it must survive re-encoding unchanged
	reencoded, err := EncodeRecord(decoded, msg, reg)
	if err != nil {
		t.Fatalf("open enum encode failed: %v", err)
	}
	if !bytes.Equal(reencoded, e.Bytes()) {
		t.Errorf("open enum round trip changed bytes: got %x, want %x", reencoded, e.Bytes())
	}
}

func TestDecoder_WireKindMismatch(t *testing.T) {
	file := &schema.File{
		Name: "mismatch.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Probe",
				Fields: []*schema.Field{
					primitiveField("sender_ip", 3, schema.TypeFixed32),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Probe")

	// Field 3 declares fixed32 but the tag claims varint
	e := NewEncoder()
	e.EncodeVarint(uint64(MakeTag(3, WireVarint)))
	e.EncodeVarint(42)

	if _, err := DecodeRecord(e.Bytes(), msg, reg); !errors.Is(err, ErrWireKindMismatch) {
		t.Errorf("expected ErrWireKindMismatch, got %v", err)
	}
}

func TestDecoder_UnknownFieldsPreserved(t *testing.T) {
	file := &schema.File{
		Name: "unknown.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Old",
				Fields: []*schema.Field{
					primitiveField("timestamp", 1, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Old")

	// Known field 1, then fields 99 (varint), 100 (length-delimited),
	// 101 (fixed32) and 102 (fixed64) that Old does not declare.
	e := NewEncoder()
	e.EncodeVarint(uint64(MakeTag(1, WireVarint)))
	e.EncodeVarint(1609459200)
	e.EncodeVarint(uint64(MakeTag(99, WireVarint)))
	e.EncodeVarint(300)
	e.EncodeVarint(uint64(MakeTag(100, WireBytes)))
	e.EncodeBytes([]byte("newer schema data"))
	e.EncodeVarint(uint64(MakeTag(101, WireFixed32)))
	e.EncodeFixed32(0x01020304)
	e.EncodeVarint(uint64(MakeTag(102, WireFixed64)))
	e.EncodeFixed64(0x0102030405060708)
	original := e.Bytes()

	decoded, err := DecodeRecord(original, msg, reg)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if len(decoded.Unknown) != 4 {
		t.Fatalf("expected 4 preserved unknown fields, got %d", len(decoded.Unknown))
	}
	if decoded.Unknown[0].FieldNumber != 99 || decoded.Unknown[0].WireType != WireVarint {
		t.Errorf("unexpected first unknown field: %+v", decoded.Unknown[0])
	}

	reencoded, err := EncodeRecord(decoded, msg, reg)
	if err != nil {
		t.Fatalf("failed to re-encode: %v", err)
	}

	if !bytes.Equal(reencoded, original) {
		t.Errorf("unknown fields not byte-identical after round trip:\n got: %x\nwant: %x", reencoded, original)
	}
}

func TestDecoder_DiscardUnknownConfig(t *testing.T) {
	defer SetConfig(Config{})
	SetConfig(Config{DiscardUnknownOnDecode: true})

	file := &schema.File{
		Name: "discard.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Old",
				Fields: []*schema.Field{
					primitiveField("timestamp", 1, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Old")

	e := NewEncoder()
	e.EncodeVarint(uint64(MakeTag(99, WireVarint)))
	e.EncodeVarint(300)

	decoded, err := DecodeRecord(e.Bytes(), msg, reg)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(decoded.Unknown) != 0 {
		t.Errorf("expected unknown fields to be discarded, got %d", len(decoded.Unknown))
	}
}

func TestDecoder_PopulateDefaultsConfig(t *testing.T) {
	defer SetConfig(Config{})
	SetConfig(Config{PopulateDefaultsOnDecode: true})

	file := &schema.File{
		Name: "defaults.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Sparse",
				NestedEnums: []*schema.Enum{
					{
						Name: "Kind",
						Values: []*schema.EnumValue{
							{Name: "KIND_NONE", Number: 0},
						},
					},
				},
				Fields: []*schema.Field{
					primitiveField("timestamp", 1, schema.TypeUint64),
					primitiveField("message", 2, schema.TypeString),
					{
						Name:   "kind",
						Number: 3,
						Type: schema.FieldType{
							Kind:     schema.KindEnum,
							EnumType: "Sparse.Kind",
						},
					},
					{
						Name:   "tags",
						Number: 4,
						Label:  schema.LabelRepeated,
						Type: schema.FieldType{
							Kind:          schema.KindPrimitive,
							PrimitiveType: schema.TypeUint64,
						},
					},
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Sparse")

	decoded, err := DecodeRecord(nil, msg, reg)
	if err != nil {
		t.Fatalf("failed to decode empty input: %v", err)
	}

	if v, _ := decoded.Get(1); v != uint64(0) {
		t.Errorf("expected uint64(0) for absent timestamp, got %v", v)
	}
	if v, _ := decoded.Get(2); v != "" {
		t.Errorf("expected empty string for absent message, got %v", v)
	}
	if v, _ := decoded.Get(3); v != int32(0) {
		t.Errorf("expected int32(0) for absent enum, got %v", v)
	}
	if decoded.Has(4) {
		t.Error("repeated fields must not be populated with defaults")
	}
}

func TestDecoder_AbsentFieldsStayAbsent(t *testing.T) {
	file := &schema.File{
		Name: "absent.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Sparse",
				Fields: []*schema.Field{
					primitiveField("timestamp", 1, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Sparse")

	decoded, err := DecodeRecord(nil, msg, reg)
	if err != nil {
		t.Fatalf("failed to decode empty input: %v", err)
	}
	if decoded.Len() != 0 {
		t.Errorf("expected no fields by default, got %+v", decoded.Fields)
	}
}

func TestDecoder_FieldNumberZeroRejected(t *testing.T) {
	file := &schema.File{
		Name: "zero.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Any",
				Fields: []*schema.Field{
					primitiveField("x", 1, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Any")

	// Tag with field number 0, wire type varint
	data := []byte{0x00, 0x01}
	if _, err := DecodeRecord(data, msg, reg); !errors.Is(err, ErrInvalidFieldNumber) {
		t.Errorf("expected ErrInvalidFieldNumber, got %v", err)
	}
}

func TestDecoder_FieldNumberOverflowRejected(t *testing.T) {
	file := &schema.File{
		Name: "overflownum.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Narrow",
				Fields: []*schema.Field{
					primitiveField("x", 5, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Narrow")

	// A tag for field 2^32+5 narrows to 5 in 32 bits; its payload must not
	// land in the declared field 5.
	e := NewEncoder()
	e.EncodeVarint((((1 << 32) + 5) << 3) | uint64(WireVarint))
	e.EncodeVarint(42)

	rec, err := DecodeRecord(e.Bytes(), msg, reg)
	if !errors.Is(err, ErrInvalidFieldNumber) {
		t.Errorf("expected ErrInvalidFieldNumber, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record on decode failure, got %+v", rec)
	}

	d := NewDecoder(e.Bytes())
	if _, err := d.DecodeField(); !errors.Is(err, ErrInvalidFieldNumber) {
		t.Errorf("schema-less scan: expected ErrInvalidFieldNumber, got %v", err)
	}

	// The largest valid field number is still accepted, as an unknown field
	// here.
	e = NewEncoder()
	e.EncodeVarint(uint64(MakeTag(MaxFieldNumber, WireVarint)))
	e.EncodeVarint(1)
	decoded, err := DecodeRecord(e.Bytes(), msg, reg)
	if err != nil {
		t.Fatalf("max field number rejected: %v", err)
	}
	if len(decoded.Unknown) != 1 || decoded.Unknown[0].FieldNumber != MaxFieldNumber {
		t.Errorf("max field number not preserved as unknown: %+v", decoded.Unknown)
	}

	// One past the cap is rejected.
	e = NewEncoder()
	e.EncodeVarint((uint64(MaxFieldNumber)+1)<<3 | uint64(WireVarint))
	e.EncodeVarint(1)
	if _, err := DecodeRecord(e.Bytes(), msg, reg); !errors.Is(err, ErrInvalidFieldNumber) {
		t.Errorf("expected ErrInvalidFieldNumber past the cap, got %v", err)
	}
}

func TestDecoder_SchemalessScan(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(uint64(MakeTag(1, WireVarint)))
	e.EncodeVarint(123)
	e.EncodeVarint(uint64(MakeTag(2, WireBytes)))
	e.EncodeString("hello")

	d := NewDecoder(e.Bytes())

	first, err := d.DecodeField()
	if err != nil {
		t.Fatalf("failed to decode first field: %v", err)
	}
	if first.FieldNumber != 1 || first.WireType != WireVarint || first.Data != uint64(123) {
		t.Errorf("unexpected first field: %+v", first)
	}

	second, err := d.DecodeField()
	if err != nil {
		t.Fatalf("failed to decode second field: %v", err)
	}
	if second.FieldNumber != 2 || second.WireType != WireBytes {
		t.Errorf("unexpected second field: %+v", second)
	}
	if !reflect.DeepEqual(second.Data, []byte("hello")) {
		t.Errorf("unexpected second field data: %v", second.Data)
	}

	end, err := d.DecodeField()
	if err != nil || end != nil {
		t.Errorf("expected nil field at end of input, got %v, %v", end, err)
	}
}

func TestEncoder_TypeMismatch(t *testing.T) {
	file := &schema.File{
		Name: "typemismatch.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Strict",
				Fields: []*schema.Field{
					primitiveField("timestamp", 1, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Strict")

	rec := NewRecord()
	rec.Set(1, "not a uint64")

	if _, err := EncodeRecord(rec, msg, reg); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestEncoder_InvalidFieldNumber(t *testing.T) {
	file := &schema.File{
		Name: "invalidnum.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Strict",
				Fields: []*schema.Field{
					primitiveField("timestamp", 1, schema.TypeUint64),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Strict")

	rec := NewRecord()
	rec.Set(99, uint64(1))

	if _, err := EncodeRecord(rec, msg, reg); !errors.Is(err, ErrInvalidFieldNumber) {
		t.Errorf("expected ErrInvalidFieldNumber, got %v", err)
	}
}

func TestEncoder_FieldErrorPath(t *testing.T) {
	file := &schema.File{
		Name: "path.schema.json",
		Messages: []*schema.Message{
			{
				Name: "Outer",
				Fields: []*schema.Field{
					{
						Name:   "inner",
						Number: 1,
						Type: schema.FieldType{
							Kind:        schema.KindMessage,
							MessageType: "Inner",
						},
					},
				},
			},
			{
				Name: "Inner",
				Fields: []*schema.Field{
					primitiveField("latency", 2, schema.TypeFloat),
				},
			},
		},
	}
	reg := newTestRegistry(t, file)
	msg, _ := reg.GetMessage("Outer")

	inner := NewRecord()
	inner.Set(2, "not a float")
	rec := NewRecord()
	rec.Set(1, inner)

	_, err := EncodeRecord(rec, msg, reg)
	if err == nil {
		t.Fatal("expected encode error")
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %T", err)
	}
	if !reflect.DeepEqual(fe.FieldPath, []string{"inner", "latency"}) {
		t.Errorf("unexpected field path: %v", fe.FieldPath)
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected wrapped ErrTypeMismatch, got %v", err)
	}
}

func TestDecoder_ZigZag(t *testing.T) {
	tests := []struct {
		decoded int64
		encoded uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2147483647, 4294967294},
		{-2147483648, 4294967295},
	}

	for _, test := range tests {
		if got := EncodeZigZag64(test.decoded); got != test.encoded {
			t.Errorf("EncodeZigZag64(%d) = %d, want %d", test.decoded, got, test.encoded)
		}
		if got := DecodeZigZag64(test.encoded); got != test.decoded {
			t.Errorf("DecodeZigZag64(%d) = %d, want %d", test.encoded, got, test.decoded)
		}
	}
}
