// Package im carries the instant-messaging payload schema as a static
// descriptor tree: InstantMessage with its User, MetaData and nested
// InnerData messages, the file-level Client enum, and the message-scoped
// nested enums. InstantMessage and MetaData each declare their own
// NestedEnum1; the two are unrelated types that happen to share a name.
package im

import (
	"github.com/imcodec/imcodec/schema"
)

// Message type names as registered by the registry.
const (
	TypeInstantMessage = "InstantMessage"
	TypeUser           = "User"
	TypeMetaData       = "MetaData"
	TypeInnerData      = "MetaData.InnerData"
)

// Repo returns the instant-messaging descriptor tree. The returned tree is
// freshly built per call; treat it as immutable once handed to a registry.
func Repo() *schema.Repo {
	return &schema.Repo{
		Files: map[string]*schema.File{
			"im.schema.json": {
				Name: "im.schema.json",
				Enums: []*schema.Enum{
					{
						Name: "Client",
						Values: []*schema.EnumValue{
							{Name: "AIM", Number: 0},
							{Name: "MSN", Number: 1},
							{Name: "ICQ", Number: 2},
							{Name: "IRC", Number: 3},
						},
					},
				},
				Messages: []*schema.Message{
					instantMessage(),
					user(),
					metaData(),
				},
			},
		},
	}
}

func instantMessage() *schema.Message {
	return &schema.Message{
		Name: "InstantMessage",
		NestedEnums: []*schema.Enum{
			nestedEnum1(),
		},
		Fields: []*schema.Field{
			{
				Name:   "timestamp",
				Number: 1,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeUint64,
				},
			},
			{
				Name:   "nested1",
				Number: 2,
				Type: schema.FieldType{
					Kind:     schema.KindEnum,
					EnumType: "InstantMessage.NestedEnum1",
				},
			},
			{
				Name:   "sender_ip",
				Number: 3,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeFixed32,
				},
			},
			{
				Name:   "sender",
				Number: 4,
				Type: schema.FieldType{
					Kind:        schema.KindMessage,
					MessageType: "User",
				},
			},
			{
				Name:   "recipient",
				Number: 5,
				Type: schema.FieldType{
					Kind:        schema.KindMessage,
					MessageType: "User",
				},
			},
			{
				Name:   "message",
				Number: 6,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeString,
				},
			},
			{
				Name:   "image_attachments",
				Number: 7,
				Label:  schema.LabelRepeated,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeBytes,
				},
			},
			{
				Name:   "metadata",
				Number: 8,
				Type: schema.FieldType{
					Kind:        schema.KindMessage,
					MessageType: "MetaData",
				},
			},
		},
	}
}

func user() *schema.Message {
	return &schema.Message{
		Name: "User",
		Fields: []*schema.Field{
			{
				Name:   "id",
				Number: 1,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeUint64,
				},
			},
			{
				Name:   "screen_name",
				Number: 2,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeString,
				},
			},
		},
	}
}

func metaData() *schema.Message {
	return &schema.Message{
		Name: "MetaData",
		NestedEnums: []*schema.Enum{
			nestedEnum1(),
		},
		NestedMessages: []*schema.Message{
			innerData(),
		},
		Fields: []*schema.Field{
			{
				Name:   "nested1",
				Number: 1,
				Type: schema.FieldType{
					Kind:     schema.KindEnum,
					EnumType: "MetaData.NestedEnum1",
				},
			},
			{
				Name:   "latency",
				Number: 2,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeFloat,
				},
			},
			{
				Name:   "inner_data",
				Number: 3,
				Type: schema.FieldType{
					Kind:        schema.KindMessage,
					MessageType: "MetaData.InnerData",
				},
			},
		},
	}
}

func innerData() *schema.Message {
	return &schema.Message{
		Name: "InnerData",
		NestedEnums: []*schema.Enum{
			{
				Name: "NestedEnum2",
				Values: []*schema.EnumValue{
					{Name: "EN_ZERO", Number: 0},
					{Name: "EN_ONE", Number: 1},
					{Name: "EN_TWO", Number: 2},
				},
			},
		},
		Fields: []*schema.Field{
			{
				Name:   "nested2",
				Number: 1,
				Type: schema.FieldType{
					Kind:     schema.KindEnum,
					EnumType: "MetaData.InnerData.NestedEnum2",
				},
			},
			{
				Name:   "latency",
				Number: 2,
				Type: schema.FieldType{
					Kind:          schema.KindPrimitive,
					PrimitiveType: schema.TypeFloat,
				},
			},
			{
				Name:   "nested1",
				Number: 3,
				Type: schema.FieldType{
					Kind:     schema.KindEnum,
					EnumType: "MetaData.NestedEnum1",
				},
			},
		},
	}
}

// nestedEnum1 is declared independently by both InstantMessage and
// MetaData; each declaration produces a distinct scoped type.
func nestedEnum1() *schema.Enum {
	return &schema.Enum{
		Name: "NestedEnum1",
		Values: []*schema.EnumValue{
			{Name: "EN_ZERO", Number: 0},
			{Name: "EN_ONE", Number: 1},
			{Name: "EN_TWO", Number: 2},
			{Name: "EN_THREE", Number: 3},
		},
	}
}
