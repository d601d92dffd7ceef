// Package imcodec is a schema-aware binary message codec: given a
// descriptor tree it encodes dynamic records to compact length-prefixed
// wire bytes and back, with no generated code.
package imcodec

import (
	"fmt"
	"reflect"

	"github.com/imcodec/imcodec/registry"
	"github.com/imcodec/imcodec/schema"
	"github.com/imcodec/imcodec/wire"
)

// ===== SCHEMA-AWARE API =====

// Codec provides schema-aware encode/decode without generated code. The
// underlying registry is immutable after loading and safe for concurrent
// Encode/Decode calls.
type Codec struct {
	registry *registry.Registry
}

// New creates a new Codec instance
func New() *Codec {
	return &Codec{
		registry: registry.NewRegistry(),
	}
}

// LoadRepo loads a descriptor repository
func (c *Codec) LoadRepo(repo *schema.Repo) error {
	return c.registry.LoadRepo(repo)
}

// LoadDescriptorFile loads a compiled JSON descriptor file or directory
func (c *Codec) LoadDescriptorFile(path string) error {
	return c.registry.LoadDescriptorFile(path)
}

// Decode decodes wire bytes into a record using the named message schema
func (c *Codec) Decode(data []byte, messageType string) (*wire.Record, error) {
	msg, err := c.registry.GetMessage(messageType)
	if err != nil {
		return nil, fmt.Errorf("message type not found: %s", messageType)
	}

	return wire.DecodeRecord(data, msg, c.registry)
}

// Encode encodes a record to wire bytes using the named message schema
func (c *Codec) Encode(rec *wire.Record, messageType string) ([]byte, error) {
	msg, err := c.registry.GetMessage(messageType)
	if err != nil {
		return nil, fmt.Errorf("message type not found: %s", messageType)
	}

	return wire.EncodeRecord(rec, msg, c.registry)
}

// Unmarshal decodes wire bytes into a Go struct using reflection. The
// message type is taken from the struct type name; struct fields are
// matched by the CamelCase form of the descriptor field names.
func (c *Codec) Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal target must be a pointer to struct")
	}

	messageType := rv.Elem().Type().Name()
	msg, err := c.registry.GetMessage(messageType)
	if err != nil {
		return fmt.Errorf("message type not found: %s", messageType)
	}

	rec, err := wire.DecodeRecord(data, msg, c.registry)
	if err != nil {
		return err
	}

	return c.recordToStruct(rec, msg, rv.Elem())
}

// recordToStruct maps a decoded record onto struct fields
func (c *Codec) recordToStruct(rec *wire.Record, msg *schema.Message, rv reflect.Value) error {
	for _, field := range msg.Fields {
		value, ok := rec.Get(wire.FieldNumber(field.Number))
		if !ok {
			continue
		}

		fieldValue := rv.FieldByName(toCamel(field.Name))
		if !fieldValue.IsValid() || !fieldValue.CanSet() {
			continue
		}

		if err := c.setFieldValue(fieldValue, value, field); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// setFieldValue sets a struct field with type conversion
func (c *Codec) setFieldValue(fieldValue reflect.Value, value interface{}, field *schema.Field) error {
	if value == nil {
		return nil
	}

	// Nested messages decode to *wire.Record
	if nested, ok := value.(*wire.Record); ok {
		nestedMsg, err := c.registry.GetMessage(field.Type.MessageType)
		if err != nil {
			return err
		}
		target := fieldValue
		if target.Kind() == reflect.Ptr {
			if target.IsNil() {
				target.Set(reflect.New(target.Type().Elem()))
			}
			target = target.Elem()
		}
		if target.Kind() != reflect.Struct {
			return fmt.Errorf("cannot unmarshal message into %s", fieldValue.Type())
		}
		return c.recordToStruct(nested, nestedMsg, target)
	}

	// Repeated fields decode to []interface{}
	if elems, ok := value.([]interface{}); ok && fieldValue.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(fieldValue.Type(), len(elems), len(elems))
		for i, elem := range elems {
			if err := c.setFieldValue(slice.Index(i), elem, field); err != nil {
				return err
			}
		}
		fieldValue.Set(slice)
		return nil
	}

	sourceValue := reflect.ValueOf(value)
	if sourceValue.Type().AssignableTo(fieldValue.Type()) {
		fieldValue.Set(sourceValue)
		return nil
	}

	if sourceValue.Type().ConvertibleTo(fieldValue.Type()) {
		fieldValue.Set(sourceValue.Convert(fieldValue.Type()))
		return nil
	}

	return fmt.Errorf("cannot convert %T to %s", value, fieldValue.Type())
}

// ===== REGISTRY ACCESS =====

func (c *Codec) Registry() *registry.Registry { return c.registry }
func (c *Codec) ListMessages() []string       { return c.registry.ListMessages() }
func (c *Codec) ListEnums() []string          { return c.registry.ListEnums() }
