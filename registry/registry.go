package registry

import (
	"fmt"
	"strings"

	"github.com/imcodec/imcodec/schema"
)

// Registry stores message and enum descriptors keyed by fully qualified
// name. Nested types are qualified by their declaring message, so
// InstantMessage.NestedEnum1 and MetaData.NestedEnum1 stay distinct types
// even though they share a bare name. A loaded registry is read-only and
// safe for concurrent lookups.
type Registry struct {
	repo     *schema.Repo
	messages map[string]*schema.Message // fully qualified name -> message
	enums    map[string]*schema.Enum    // fully qualified name -> enum
}

func NewRegistry() *Registry {
	return &Registry{}
}

// LoadRepo registers every message and enum of the repo and validates the
// descriptor invariants: positive unique field numbers, enum zero entries,
// resolvable type references.
func (r *Registry) LoadRepo(repo *schema.Repo) error {
	if r.messages == nil {
		r.messages = make(map[string]*schema.Message)
	}
	if r.enums == nil {
		r.enums = make(map[string]*schema.Enum)
	}
	r.repo = repo

	// Pass 1: Register all message and enum names
	for _, file := range repo.Files {
		if err := r.registerNames(file); err != nil {
			return err
		}
	}

	// Pass 2: Validate definitions and references
	for _, file := range repo.Files {
		for _, msg := range file.Messages {
			if err := r.validateMessage(msg); err != nil {
				return err
			}
		}
		for _, enum := range file.Enums {
			if err := validateEnum(enum); err != nil {
				return err
			}
		}
	}

	return nil
}

// registerNames registers all message and enum names of a file
func (r *Registry) registerNames(file *schema.File) error {
	pkg := file.Package

	for _, msg := range file.Messages {
		fullName := r.getFullName(pkg, msg.Name)
		if _, exists := r.messages[fullName]; exists {
			return fmt.Errorf("duplicate message name: %s", fullName)
		}
		r.messages[fullName] = msg

		if err := r.registerNestedNames(pkg, msg.Name, msg); err != nil {
			return err
		}
	}

	for _, enum := range file.Enums {
		fullName := r.getFullName(pkg, enum.Name)
		if _, exists := r.enums[fullName]; exists {
			return fmt.Errorf("duplicate enum name: %s", fullName)
		}
		r.enums[fullName] = enum
	}

	return nil
}

// registerNestedNames registers nested message and enum names, qualified
// by the declaring message.
func (r *Registry) registerNestedNames(pkg, parentName string, msg *schema.Message) error {
	for _, nestedMsg := range msg.NestedMessages {
		nestedFullName := r.getFullName(pkg, parentName+"."+nestedMsg.Name)
		if _, exists := r.messages[nestedFullName]; exists {
			return fmt.Errorf("duplicate message name: %s", nestedFullName)
		}
		r.messages[nestedFullName] = nestedMsg

		if err := r.registerNestedNames(pkg, parentName+"."+nestedMsg.Name, nestedMsg); err != nil {
			return err
		}
	}

	for _, nestedEnum := range msg.NestedEnums {
		nestedFullName := r.getFullName(pkg, parentName+"."+nestedEnum.Name)
		if _, exists := r.enums[nestedFullName]; exists {
			return fmt.Errorf("duplicate enum name: %s", nestedFullName)
		}
		r.enums[nestedFullName] = nestedEnum
	}

	return nil
}

// validateMessage checks a message's field invariants, recursing into
// nested declarations.
func (r *Registry) validateMessage(msg *schema.Message) error {
	seen := make(map[int32]string)
	for _, field := range msg.Fields {
		if field.Number <= 0 {
			return fmt.Errorf("message %s: field %s has reserved or invalid number %d", msg.Name, field.Name, field.Number)
		}
		if prev, dup := seen[field.Number]; dup {
			return fmt.Errorf("message %s: fields %s and %s share number %d", msg.Name, prev, field.Name, field.Number)
		}
		seen[field.Number] = field.Name

		switch field.Type.Kind {
		case schema.KindMessage:
			if _, err := r.GetMessage(field.Type.MessageType); err != nil {
				return fmt.Errorf("message %s: field %s references %w", msg.Name, field.Name, err)
			}
		case schema.KindEnum:
			if _, err := r.GetEnum(field.Type.EnumType); err != nil {
				return fmt.Errorf("message %s: field %s references %w", msg.Name, field.Name, err)
			}
		case schema.KindPrimitive:
			// nothing to resolve
		default:
			return fmt.Errorf("message %s: field %s has unknown kind %q", msg.Name, field.Name, field.Type.Kind)
		}
	}

	for _, nested := range msg.NestedMessages {
		if err := r.validateMessage(nested); err != nil {
			return err
		}
	}
	for _, enum := range msg.NestedEnums {
		if err := validateEnum(enum); err != nil {
			return err
		}
	}

	return nil
}

// validateEnum checks that the enum declares a value numbered 0, the
// default value of the format.
func validateEnum(enum *schema.Enum) error {
	if len(enum.Values) == 0 {
		return fmt.Errorf("enum %s declares no values", enum.Name)
	}
	for _, v := range enum.Values {
		if v.Number == 0 {
			return nil
		}
	}
	return fmt.Errorf("enum %s has no value numbered 0", enum.Name)
}

func (r *Registry) getFullName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// GetMessage retrieves a message definition by name
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}

	// Try without package prefix. An unqualified name matching more than
	// one registered type is ambiguous, not a map-iteration coin toss.
	var found *schema.Message
	var foundName string
	for fullName, msg := range r.messages {
		if strings.HasSuffix(fullName, "."+name) {
			if found != nil {
				return nil, fmt.Errorf("ambiguous message name %s: matches %s and %s", name, foundName, fullName)
			}
			found = msg
			foundName = fullName
		}
	}
	if found != nil {
		return found, nil
	}

	return nil, fmt.Errorf("message not found: %s", name)
}

// GetEnum retrieves an enum definition by name
func (r *Registry) GetEnum(name string) (*schema.Enum, error) {
	if enum, exists := r.enums[name]; exists {
		return enum, nil
	}

	// Same ambiguity rule as GetMessage: two messages may each declare an
	// enum with the same bare name.
	var found *schema.Enum
	var foundName string
	for fullName, enum := range r.enums {
		if strings.HasSuffix(fullName, "."+name) {
			if found != nil {
				return nil, fmt.Errorf("ambiguous enum name %s: matches %s and %s", name, foundName, fullName)
			}
			found = enum
			foundName = fullName
		}
	}
	if found != nil {
		return found, nil
	}

	return nil, fmt.Errorf("enum not found: %s", name)
}

// ListMessages returns all registered message names
func (r *Registry) ListMessages() []string {
	var names []string
	for name := range r.messages {
		names = append(names, name)
	}
	return names
}

// ListEnums returns all registered enum names
func (r *Registry) ListEnums() []string {
	var names []string
	for name := range r.enums {
		names = append(names, name)
	}
	return names
}
