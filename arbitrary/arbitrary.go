// Package arbitrary builds rapid generators that draw random records
// valid for a message descriptor. The generators drive property tests:
// any record they produce must survive an encode/decode round trip.
package arbitrary

import (
	"fmt"

	"pgregory.net/rapid"

	"github.com/imcodec/imcodec/registry"
	"github.com/imcodec/imcodec/schema"
	"github.com/imcodec/imcodec/wire"
)

// Message nesting beyond this depth is cut off by omitting the field.
const defaultMaxDepth = 5

const maxRepeatedLen = 3

type options struct {
	maxDepth  int
	overrides map[string]*rapid.Generator[interface{}]
}

// Option configures record generation.
type Option func(*options)

// WithMaxDepth caps message nesting; nested message fields beyond the cap
// are left absent.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithOverride replaces the generated value for a field, addressed by its
// full name: the qualified message type name, a dot, and the field name
// (e.g. "InstantMessage.message", "MetaData.InnerData.nested1"). A drawn
// nil leaves the field absent.
func WithOverride(fullFieldName string, g *rapid.Generator[interface{}]) Option {
	return func(o *options) {
		o.overrides[fullFieldName] = g
	}
}

// Just returns a generator that always draws the given value. Convenient
// with WithOverride for pinning a field to a constant.
func Just(v interface{}) *rapid.Generator[interface{}] {
	return rapid.SampledFrom([]interface{}{v})
}

// Message returns a generator producing records valid for msg. The
// registry must already hold msg and everything it references.
func Message(reg *registry.Registry, msg *schema.Message, opts ...Option) *rapid.Generator[*wire.Record] {
	o := &options{
		maxDepth:  defaultMaxDepth,
		overrides: make(map[string]*rapid.Generator[interface{}]),
	}
	for _, opt := range opts {
		opt(o)
	}
	return messageGen(reg, msg, msg.Name, o, 1)
}

func messageGen(reg *registry.Registry, msg *schema.Message, qualName string, o *options, depth int) *rapid.Generator[*wire.Record] {
	return rapid.Custom(func(t *rapid.T) *wire.Record {
		rec := wire.NewRecord()

		for _, field := range msg.Fields {
			num := wire.FieldNumber(field.Number)

			if g, ok := o.overrides[qualName+"."+field.Name]; ok {
				if v := g.Draw(t, field.Name); v != nil {
					rec.Set(num, v)
				}
				continue
			}

			if field.Label == schema.LabelRepeated {
				n := rapid.IntRange(0, maxRepeatedLen).Draw(t, field.Name+"_len")
				for i := 0; i < n; i++ {
					v, ok := drawFieldValue(t, reg, &field.Type, o, depth, fmt.Sprintf("%s_%d", field.Name, i))
					if !ok {
						break
					}
					rec.Append(num, v)
				}
				continue
			}

			// Every field is optional at the wire level; absent fields are
			// part of the property space.
			if !rapid.Bool().Draw(t, field.Name+"_present") {
				continue
			}

			if v, ok := drawFieldValue(t, reg, &field.Type, o, depth, field.Name); ok {
				rec.Set(num, v)
			}
		}

		return rec
	})
}

// drawFieldValue draws a single value for a field type. The bool result is
// false when the depth cap suppresses a nested message.
func drawFieldValue(t *rapid.T, reg *registry.Registry, fieldType *schema.FieldType, o *options, depth int, label string) (interface{}, bool) {
	switch fieldType.Kind {
	case schema.KindEnum:
		enum, err := reg.GetEnum(fieldType.EnumType)
		if err != nil {
			panic(fmt.Sprintf("arbitrary: unresolved enum %s: %v", fieldType.EnumType, err))
		}
		nums := make([]int32, len(enum.Values))
		for i, v := range enum.Values {
			nums[i] = v.Number
		}
		return rapid.SampledFrom(nums).Draw(t, label), true

	case schema.KindMessage:
		if depth >= o.maxDepth {
			return nil, false
		}
		nested, err := reg.GetMessage(fieldType.MessageType)
		if err != nil {
			panic(fmt.Sprintf("arbitrary: unresolved message %s: %v", fieldType.MessageType, err))
		}
		return messageGen(reg, nested, fieldType.MessageType, o, depth+1).Draw(t, label), true

	case schema.KindPrimitive:
		return drawPrimitive(t, fieldType.PrimitiveType, label), true

	default:
		panic(fmt.Sprintf("arbitrary: unknown field kind %q", fieldType.Kind))
	}
}

func drawPrimitive(t *rapid.T, primitiveType schema.PrimitiveType, label string) interface{} {
	switch primitiveType {
	case schema.TypeInt32, schema.TypeSint32, schema.TypeSfixed32:
		return rapid.Int32().Draw(t, label)
	case schema.TypeInt64, schema.TypeSint64, schema.TypeSfixed64:
		return rapid.Int64().Draw(t, label)
	case schema.TypeUint32, schema.TypeFixed32:
		return rapid.Uint32().Draw(t, label)
	case schema.TypeUint64, schema.TypeFixed64:
		return rapid.Uint64().Draw(t, label)
	case schema.TypeBool:
		return rapid.Bool().Draw(t, label)
	case schema.TypeFloat:
		return rapid.Float32().Draw(t, label)
	case schema.TypeDouble:
		return rapid.Float64().Draw(t, label)
	case schema.TypeString:
		return rapid.String().Draw(t, label)
	case schema.TypeBytes:
		return rapid.SliceOf(rapid.Byte()).Draw(t, label)
	default:
		panic(fmt.Sprintf("arbitrary: unknown primitive type %q", primitiveType))
	}
}
