package mustml

import "strings"

// State is an expression referencing a validated path into the page's state
// schema. The zero-path State returned by Builder.State is the root proxy: it
// is not itself an expression, only a starting point for Field traversal.
//
// Every Field call validates eagerly against the schema, so a typo in a path
// fails while the page is being constructed rather than as a dead binding in
// the browser.
type State struct {
	Expr

	// schema is the sub-schema the current path addresses, or nil when the
	// path denotes a terminal field.
	schema *Schema
	path   []string
}

func stateRoot(schema *Schema) State {
	return State{schema: schema}
}

// Field traverses one path segment. Unknown names and traversal past a
// terminal field produce a State carrying a PathError with the full dotted
// path; the error is sticky and surfaces from the builder operation the
// reference is used in.
func (s State) Field(name string) State {
	if s.err != nil {
		return s
	}
	f, err := resolveField(s.schema, name, s.path)
	if err != nil {
		return State{Expr: Expr{err: err}, path: s.path}
	}
	path := append(append(make([]string, 0, len(s.path)+1), s.path...), name)
	return State{
		Expr:   Expr{code: strings.Join(path, ".")},
		schema: f.Schema,
		path:   path,
	}
}

// Path returns the resolved dotted path of this reference.
func (s State) Path() string { return strings.Join(s.path, ".") }
