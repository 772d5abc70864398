package mustwebui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// SerializeError reports a value in the initial-state tree that cannot be
// embedded as JSON. Path is the dotted path of the offending field within the
// state tree, or "<root>" for the top-level value.
type SerializeError struct {
	Path string
	Msg  string
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("field %s %s", e.Path, e.Msg)
}

// marshalState turns a state instance into text safe for embedding inside an
// HTML <script> element. The value is first normalized to a strict
// JSON-compatible tree (with path-qualified errors), JSON-encoded, forced to
// ASCII-only output, and finally hardened against </script> breakout, the
// U+2028/U+2029 line separators and any remaining HTML metacharacters. The
// ordering matters: the textual hardening runs on the JSON text so the two
// escaping layers cannot undo each other.
func marshalState(v any) (string, error) {
	tree, err := normalizeState(v)
	if err != nil {
		return "", err
	}
	raw, err := encodeJSON(tree)
	if err != nil {
		return "", err
	}
	s := asciiEscape(string(raw))
	s = strings.ReplaceAll(s, "</", `<\/`)
	s = strings.ReplaceAll(s, "\u2028", `\u2028`)
	s = strings.ReplaceAll(s, "\u2029", `\u2029`)
	s = strings.ReplaceAll(s, "<", `\u003c`)
	s = strings.ReplaceAll(s, ">", `\u003e`)
	s = strings.ReplaceAll(s, "&", `\u0026`)
	return s, nil
}

// normalizeState validates that a value tree is JSON-representable: structs
// expand to ordered field mappings, numbers must be finite, mapping keys must
// be strings. Violations fail with the dotted path of the offending field.
func normalizeState(v any) (any, error) {
	return normalizeValue(reflect.ValueOf(v), nil)
}

func normalizeValue(rv reflect.Value, path []string) (any, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Invalid:
		return nil, nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &SerializeError{Path: dottedPath(path), Msg: "is not JSON-safe"}
		}
		return f, nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := normalizeValue(rv.Index(i), append(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &SerializeError{Path: dottedPath(path), Msg: "has non-string key"}
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := &jsonObject{}
		for _, k := range keys {
			item, err := normalizeValue(rv.MapIndex(reflect.ValueOf(k)), append(path, k))
			if err != nil {
				return nil, err
			}
			obj.fields = append(obj.fields, jsonField{name: k, value: item})
		}
		return obj, nil
	case reflect.Struct:
		rt := rv.Type()
		obj := &jsonObject{}
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.PkgPath != "" || f.Anonymous {
				continue
			}
			name := jsonFieldName(f)
			if name == "" || name == "-" {
				continue
			}
			item, err := normalizeValue(rv.Field(i), append(path, name))
			if err != nil {
				return nil, err
			}
			obj.fields = append(obj.fields, jsonField{name: name, value: item})
		}
		return obj, nil
	default:
		return nil, &SerializeError{Path: dottedPath(path), Msg: "is not JSON-serializable"}
	}
}

func dottedPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}

func jsonFieldName(f reflect.StructField) string {
	if v := f.Tag.Get("json"); v != "" {
		if idx := strings.IndexByte(v, ','); idx >= 0 {
			v = v[:idx]
		}
		if v != "" {
			return v
		}
	}
	return f.Name
}

// jsonObject is a string-keyed mapping that marshals its fields in insertion
// order, preserving struct field order in the embedded payload.
type jsonObject struct {
	fields []jsonField
}

type jsonField struct {
	name  string
	value any
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := encodeJSON(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON marshals without Go's HTML escaping, so that the hardening
// passes in marshalState see the raw metacharacters and produce the same
// escape forms at every nesting depth.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// asciiEscape rewrites every non-ASCII rune to its \uXXXX escape form, using
// surrogate pairs above the basic multilingual plane.
func asciiEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x80:
			b.WriteRune(r)
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(&b, `\u%04x`, r)
		}
	}
	return b.String()
}
