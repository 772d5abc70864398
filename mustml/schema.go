package mustml

import (
	"strings"
)

// Kind enumerates the terminal field kinds a schema can declare.
type Kind int

const (
	KindAny Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// String implements fmt.Stringer for Kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "any"
	}
}

// Field describes one named field of a state schema.
type Field struct {
	Name string
	Kind Kind

	// Schema is non-nil when the field is a nested model, allowing further
	// path traversal.
	Schema *Schema
}

// Schema declares the shape of a page's state: an ordered set of named
// fields, each terminal or itself a nested schema. Schemas are read-only
// after construction and shared across requests.
type Schema struct {
	fields []*Field
	index  map[string]*Field
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []*Field { return s.fields }

// Lookup returns the field with the given name.
func (s *Schema) Lookup(name string) (*Field, bool) {
	f, ok := s.index[name]
	return f, ok
}

// String renders the schema in a compact {name:kind,...} form.
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		if f.Schema != nil {
			b.WriteString(f.Schema.String())
		} else {
			b.WriteString(f.Kind.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

func (s *Schema) addField(f *Field) {
	if s.index == nil {
		s.index = make(map[string]*Field)
	}
	if _, ok := s.index[f.Name]; ok {
		return
	}
	s.fields = append(s.fields, f)
	s.index[f.Name] = f
}

// resolveField is the single validation gate for state path traversal. It
// looks up name on schema (nil means the current path is terminal) and
// returns the field, or a PathError carrying the full dotted path attempted.
func resolveField(schema *Schema, name string, path []string) (*Field, error) {
	dotted := strings.Join(append(append(make([]string, 0, len(path)+1), path...), name), ".")
	if schema == nil {
		return nil, &PathError{Path: dotted}
	}
	f, ok := schema.index[name]
	if !ok {
		return nil, &PathError{Path: dotted}
	}
	return f, nil
}
