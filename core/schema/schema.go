package schema

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Kind identifies the expected shape of a field's value.
type Kind int

const (
	// Any accepts every value unchanged. It is also the fallback for
	// unrecognized type names in schema definitions.
	Any Kind = iota
	String
	Int
	Float
	Bool
	List
	Dict
)

var kindNames = map[Kind]string{
	Any:    "any",
	String: "str",
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	List:   "list",
	Dict:   "dict",
}

// String returns the type name used in schema definitions.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsScalar reports whether the kind expects a single primitive value
// rather than a container.
func (k Kind) IsScalar() bool {
	switch k {
	case String, Int, Float, Bool:
		return true
	}
	return false
}

// KindFromName maps a schema-definition type name to a Kind. Matching is
// case-insensitive; unrecognized names map to [Any].
func KindFromName(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "str":
		return String
	case "int":
		return Int
	case "float":
		return Float
	case "bool":
		return Bool
	case "list":
		return List
	case "dict":
		return Dict
	default:
		return Any
	}
}

// Field is a single named entry in a schema.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered, immutable set of required fields. The zero value is
// not usable; construct schemas with [New] or one of the From* helpers.
type Schema struct {
	fields []Field
	kinds  map[string]Kind
}

// New builds a schema from the given fields, preserving their order.
// Field names must be non-empty and unique.
func New(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema must declare at least one field")
	}
	kinds := make(map[string]Kind, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field name must not be empty")
		}
		if _, dup := kinds[f.Name]; dup {
			return nil, fmt.Errorf("duplicate schema field %q", f.Name)
		}
		kinds[f.Name] = f.Kind
	}
	return &Schema{fields: append([]Field(nil), fields...), kinds: kinds}, nil
}

// Fields returns the schema's fields in declaration order. The returned
// slice is a copy; mutating it does not affect the schema.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Kind looks up the expected kind of the named field.
func (s *Schema) Kind(name string) (Kind, bool) {
	k, ok := s.kinds[name]
	return k, ok
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// FromTypeMap builds a schema from a field-name to type-name mapping.
// Because Go map iteration order is unspecified, fields are ordered by name.
func FromTypeMap(types map[string]string) (*Schema, error) {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Kind: KindFromName(types[name])})
	}
	return New(fields...)
}

// FromJSON builds a schema from a JSON object of field names to type names,
// for example {"order_number": "int", "status": "str"}. The definition must
// be a JSON object with string values; anything else is rejected. Field
// order follows the order of keys in the definition text.
func FromJSON(definition []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(definition))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("schema definition is not valid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("schema definition must be a JSON object")
	}
	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema definition is not valid JSON: %w", err)
		}
		name, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema definition is not valid JSON: %w", err)
		}
		typeName, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("type name for field %q must be a string", name)
		}
		fields = append(fields, Field{Name: name, Kind: KindFromName(typeName)})
	}
	return New(fields...)
}

// FromYAML builds a schema from a YAML mapping of field names to type names.
// It follows the same contract as [FromJSON], preserving the order the
// fields appear in the document.
func FromYAML(definition []byte) (*Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(definition, &root); err != nil {
		return nil, fmt.Errorf("schema definition is not valid YAML: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("schema definition must be a YAML mapping")
	}
	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema definition must be a YAML mapping")
	}
	fields := make([]Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("type name for field %q must be a string", key.Value)
		}
		fields = append(fields, Field{Name: key.Value, Kind: KindFromName(val.Value)})
	}
	return New(fields...)
}
