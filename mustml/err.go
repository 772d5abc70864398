package mustml

import "fmt"

// PathError reports a state field access that does not match the declared
// schema: either the field name is unknown, or the traversal continued past a
// terminal field. Path holds the full dotted path that was attempted.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("field %q does not exist on state model", e.Path)
}

// LiteralError reports a host value that cannot be lifted into an expression
// literal.
type LiteralError struct {
	Value any
	msg   string
}

func (e *LiteralError) Error() string { return e.msg }

// UsageError reports a misuse of the builder API, such as a text node with no
// parts or an attempt to nest children under a self-closing element.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }
