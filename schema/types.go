package schema

// Repo is a collection of descriptor files and their definitions. Once
// constructed a Repo is read-only and may be shared across concurrent
// codec calls without synchronization.
type Repo struct {
	Files map[string]*File `json:"files"`
}

// File is a single compiled descriptor file.
type File struct {
	Name     string     `json:"name"`     // im.schema.json
	Package  string     `json:"package"`  // package name, may be empty
	Messages []*Message `json:"messages"` // top-level message definitions
	Enums    []*Enum    `json:"enums"`    // top-level enum definitions
}

// Message is a message definition. Nested messages and enums are scoped to
// their declaring message: two messages may each declare a NestedEnum1 and
// the two are distinct types.
type Message struct {
	Name           string     `json:"name"`            // "User"
	Fields         []*Field   `json:"fields"`          // message fields
	NestedMessages []*Message `json:"nested_messages"` // nested messages
	NestedEnums    []*Enum    `json:"nested_enums"`    // nested enums
}

// Field is a message field. Field numbers are positive and unique within
// their message; number 0 is reserved.
type Field struct {
	Name   string     `json:"name"`   // "screen_name"
	Number int32      `json:"number"` // 1
	Label  FieldLabel `json:"label"`  // singular or repeated
	Type   FieldType  `json:"type"`   // field type information
}

// FieldLabel represents field labels. There is no required label: at the
// wire level every field is optional and absent fields are simply omitted.
type FieldLabel string

const (
	LabelOptional FieldLabel = "optional"
	LabelRepeated FieldLabel = "repeated"
)

// FieldType represents field type information.
type FieldType struct {
	Kind          TypeKind      `json:"kind"`                     // primitive, message, enum
	PrimitiveType PrimitiveType `json:"primitive_type,omitempty"` // for primitive types
	MessageType   string        `json:"message_type,omitempty"`   // qualified message type: "MetaData.InnerData"
	EnumType      string        `json:"enum_type,omitempty"`      // qualified enum type: "MetaData.NestedEnum1"
}

// TypeKind represents the kind of field type
type TypeKind string

const (
	KindPrimitive TypeKind = "primitive"
	KindMessage   TypeKind = "message"
	KindEnum      TypeKind = "enum"
)

// PrimitiveType represents the scalar types of the wire format family.
type PrimitiveType string

const (
	TypeDouble   PrimitiveType = "double"
	TypeFloat    PrimitiveType = "float"
	TypeInt64    PrimitiveType = "int64"
	TypeUint64   PrimitiveType = "uint64"
	TypeInt32    PrimitiveType = "int32"
	TypeFixed64  PrimitiveType = "fixed64"
	TypeFixed32  PrimitiveType = "fixed32"
	TypeBool     PrimitiveType = "bool"
	TypeString   PrimitiveType = "string"
	TypeBytes    PrimitiveType = "bytes"
	TypeUint32   PrimitiveType = "uint32"
	TypeSfixed32 PrimitiveType = "sfixed32"
	TypeSfixed64 PrimitiveType = "sfixed64"
	TypeSint32   PrimitiveType = "sint32"
	TypeSint64   PrimitiveType = "sint64"
)

// Enum represents an enum definition. The value numbered 0 is the default
// and must exist; this is a fixed invariant of the format checked at
// registry load time. The declared set is open: wire values outside it are
// accepted and preserved verbatim.
type Enum struct {
	Name   string       `json:"name"`   // "NestedEnum1"
	Values []*EnumValue `json:"values"` // enum values
}

// EnumValue represents an enum value
type EnumValue struct {
	Name   string `json:"name"`   // "EN_ONE"
	Number int32  `json:"number"` // 1
}
