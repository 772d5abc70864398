package mustml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expr is an immutable fragment of client-side expression code. Values are
// created by lifting host literals with Lit, by traversing a State reference,
// or by combining existing expressions with the operator methods. An Expr is
// never evaluated server-side; it only ever becomes attribute text.
//
// Errors from lifting or composition are sticky: they travel with the Expr
// and surface when the expression reaches a builder operation.
type Expr struct {
	code string
	err  error
}

// Raw wraps an already-compiled expression fragment. The caller is
// responsible for its syntax; no escaping or wrapping is applied.
func Raw(code string) Expr {
	return Expr{code: code}
}

// Lit lifts a host literal into an expression. Supported kinds are nil,
// booleans, strings, integers and finite floats; expressions pass through
// unchanged.
func Lit(v any) Expr {
	return toExpr(v)
}

func toExpr(v any) Expr {
	switch t := v.(type) {
	case Expr:
		return t
	case State:
		if len(t.path) == 0 && t.err == nil {
			return Expr{err: &UsageError{Msg: "state root is not an expression; access a field first"}}
		}
		return t.Expr
	case nil:
		return Expr{code: "null"}
	case bool:
		if t {
			return Expr{code: "true"}
		}
		return Expr{code: "false"}
	case string:
		return Expr{code: jsStringLiteral(t)}
	case int:
		return Expr{code: strconv.Itoa(t)}
	case int8:
		return Expr{code: strconv.FormatInt(int64(t), 10)}
	case int16:
		return Expr{code: strconv.FormatInt(int64(t), 10)}
	case int32:
		return Expr{code: strconv.FormatInt(int64(t), 10)}
	case int64:
		return Expr{code: strconv.FormatInt(t, 10)}
	case uint:
		return Expr{code: strconv.FormatUint(uint64(t), 10)}
	case uint8:
		return Expr{code: strconv.FormatUint(uint64(t), 10)}
	case uint16:
		return Expr{code: strconv.FormatUint(uint64(t), 10)}
	case uint32:
		return Expr{code: strconv.FormatUint(uint64(t), 10)}
	case uint64:
		return Expr{code: strconv.FormatUint(t, 10)}
	case float32:
		return liftFloat(float64(t), 32)
	case float64:
		return liftFloat(t, 64)
	default:
		return Expr{err: &LiteralError{Value: v, msg: fmt.Sprintf("unsupported expression literal: %T", v)}}
	}
}

func liftFloat(f float64, bits int) Expr {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Expr{err: &LiteralError{Value: f, msg: "non-finite numbers are not allowed in expressions"}}
	}
	return Expr{code: strconv.FormatFloat(f, 'g', -1, bits)}
}

var jsStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

func jsStringLiteral(s string) string {
	return "'" + jsStringEscaper.Replace(s) + "'"
}

// Code returns the compiled expression text.
func (e Expr) Code() string { return e.code }

// Err returns the first error recorded while building this expression.
func (e Expr) Err() error { return e.err }

func (e Expr) String() string { return e.code }

// wrap parenthesizes the fragment when composing it could change its meaning.
// Quoted string literals and bare identifiers stay bare.
func (e Expr) wrap() string {
	c := e.code
	if len(c) >= 2 {
		if (c[0] == '\'' && c[len(c)-1] == '\'') || (c[0] == '"' && c[len(c)-1] == '"') {
			return c
		}
	}
	if strings.Contains(c, " ") || strings.Contains(c, "&&") || strings.Contains(c, "||") {
		return "(" + c + ")"
	}
	return c
}

func (e Expr) binary(op string, v any) Expr {
	if e.err != nil {
		return e
	}
	right := toExpr(v)
	if right.err != nil {
		return right
	}
	return Expr{code: e.wrap() + " " + op + " " + right.wrap()}
}

// Add compiles to the target-language + operator.
func (e Expr) Add(v any) Expr { return e.binary("+", v) }

// Sub compiles to the target-language - operator.
func (e Expr) Sub(v any) Expr { return e.binary("-", v) }

// Eq compiles to strict equality (===). State values keep their static types
// client-side, so coercing equality is never emitted.
func (e Expr) Eq(v any) Expr { return e.binary("===", v) }

// Ge compiles to the >= operator.
func (e Expr) Ge(v any) Expr { return e.binary(">=", v) }

// And compiles to the && operator.
func (e Expr) And(v any) Expr { return e.binary("&&", v) }

// Or compiles to the || operator.
func (e Expr) Or(v any) Expr { return e.binary("||", v) }

// Not compiles to a ! prefix.
func (e Expr) Not() Expr {
	if e.err != nil {
		return e
	}
	return Expr{code: "!" + e.wrap()}
}
