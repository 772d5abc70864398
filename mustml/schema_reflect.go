package mustml

import (
	"fmt"
	"reflect"
	"strings"
)

// SchemaOf derives a Schema from a struct value or struct pointer using
// reflection. Field names follow the json tag when present, falling back to
// the Go field name, so that compiled state paths line up with the keys of
// the serialized initial state. Unexported, anonymous and json:"-" fields are
// skipped. Nested structs become nested schemas.
func SchemaOf(v any) (*Schema, error) {
	if v == nil {
		return nil, fmt.Errorf("derive schema: nil state")
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("derive schema: %s is not a struct", rt)
	}
	return schemaOfStruct(rt, make(map[reflect.Type]*Schema)), nil
}

func schemaOfStruct(rt reflect.Type, seen map[reflect.Type]*Schema) *Schema {
	if s, ok := seen[rt]; ok {
		return s
	}
	s := &Schema{}
	seen[rt] = s
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" || f.Anonymous {
			continue
		}
		name := fieldName(f)
		if name == "" || name == "-" {
			continue
		}
		s.addField(fieldOf(name, f.Type, seen))
	}
	return s
}

func fieldOf(name string, rt reflect.Type, seen map[reflect.Type]*Schema) *Field {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt.Kind() {
	case reflect.Bool:
		return &Field{Name: name, Kind: KindBool}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return &Field{Name: name, Kind: KindNumber}
	case reflect.String:
		return &Field{Name: name, Kind: KindString}
	case reflect.Slice, reflect.Array:
		return &Field{Name: name, Kind: KindList}
	case reflect.Map:
		return &Field{Name: name, Kind: KindObject}
	case reflect.Struct:
		return &Field{Name: name, Kind: KindObject, Schema: schemaOfStruct(rt, seen)}
	default:
		return &Field{Name: name, Kind: KindAny}
	}
}

func fieldName(f reflect.StructField) string {
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
