package accord

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// Field describes how to read one side of an accordance pair: a name used in
// failure messages and a getter extracting the value. Build fields with F,
// ByName, JSONField, JSONDoc, JSONList or MapKey rather than literals, so
// both parts are always set.
type Field[T any] struct {
	Name string
	Get  func(T) any
}

// F builds a field from an explicit getter:
//
//	accord.F("Progress", func(o Order) any { return o.Progress })
//
// It panics when the name is empty or the getter is nil.
func F[T any](name string, get func(T) any) Field[T] {
	if name == "" {
		panic("accord: field name must not be empty")
	}
	if get == nil {
		panic("accord: field getter must not be nil")
	}
	return Field[T]{Name: name, Get: get}
}

func (f Field[T]) validate(op string) {
	if f.Name == "" || f.Get == nil {
		panic("accord: " + op + " requires fields built with F, ByName, JSONField, JSONDoc, JSONList or MapKey")
	}
}

// ByName builds a field reading a dotted path of exported struct fields,
// for example "Data.Text". Intermediate pointers are followed; a nil
// intermediate yields a nil value. The path is resolved against T up front
// and panics when it does not exist, so typos surface at registration.
func ByName[T any](path string) Field[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if _, err := resolvePath(typ, path); err != nil {
		panic("accord: " + err.Error())
	}
	parts := strings.Split(path, ".")
	return Field[T]{
		Name: path,
		Get: func(v T) any {
			return walkPath(reflect.ValueOf(v), parts)
		},
	}
}

// AnyField builds a field reading a dotted path off whatever struct value
// arrives at evaluation time. It serves inner accordances bound from spec
// files, where element types are only known through reflection; unlike
// ByName the path cannot be checked up front, and a value it does not fit
// yields nil.
func AnyField(path string) Field[any] {
	if path == "" {
		panic("accord: field path must not be empty")
	}
	parts := strings.Split(path, ".")
	return Field[any]{
		Name: path,
		Get: func(v any) any {
			if v == nil {
				return nil
			}
			return walkPath(reflect.ValueOf(v), parts)
		},
	}
}

// PathType reports the type the dotted field path resolves to on T. It lets
// callers validate paths without building a field.
func PathType[T any](path string) (reflect.Type, error) {
	return resolvePath(reflect.TypeOf((*T)(nil)).Elem(), path)
}

// PathTypeOf is PathType for a type only known through reflection.
func PathTypeOf(typ reflect.Type, path string) (reflect.Type, error) {
	return resolvePath(typ, path)
}

func resolvePath(typ reflect.Type, path string) (reflect.Type, error) {
	if path == "" {
		return nil, fmt.Errorf("field path must not be empty")
	}
	for _, part := range strings.Split(path, ".") {
		for typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field path %q: %s is not a struct", path, typ)
		}
		field, ok := typ.FieldByName(part)
		if !ok {
			return nil, fmt.Errorf("field path %q: %s has no field %q", path, typ, part)
		}
		if field.PkgPath != "" {
			return nil, fmt.Errorf("field path %q: field %q is unexported", path, part)
		}
		typ = field.Type
	}
	return typ, nil
}

func walkPath(v reflect.Value, parts []string) any {
	for _, part := range parts {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil
		}
		v = v.FieldByName(part)
		if !v.IsValid() {
			return nil
		}
	}
	return v.Interface()
}

// JSONField builds a field reading a gjson path from a JSON document,
// yielding the decoded scalar (string, float64, bool, nil) or composite
// value. A missing path yields nil.
func JSONField(path string) Field[[]byte] {
	if path == "" {
		panic("accord: json field path must not be empty")
	}
	return Field[[]byte]{
		Name: path,
		Get: func(doc []byte) any {
			res := gjson.GetBytes(doc, path)
			if !res.Exists() {
				return nil
			}
			return res.Value()
		},
	}
}

// JSONDoc builds a field yielding the raw JSON under a gjson path as a
// []byte document, the shape nested accordances over JSON expect. An empty
// path yields the whole document.
func JSONDoc(path string) Field[[]byte] {
	name := path
	if name == "" {
		name = "."
	}
	return Field[[]byte]{
		Name: name,
		Get: func(doc []byte) any {
			if path == "" {
				if len(doc) == 0 {
					return nil
				}
				return doc
			}
			res := gjson.GetBytes(doc, path)
			if !res.Exists() {
				return nil
			}
			return []byte(res.Raw)
		},
	}
}

// JSONList builds a field yielding a JSON array as a slice of raw element
// documents, the shape list accordances over JSON expect. A missing path
// yields nil; a non-array value is yielded as-is so the list rule can
// report the shape mismatch.
func JSONList(path string) Field[[]byte] {
	if path == "" {
		panic("accord: json list path must not be empty")
	}
	return Field[[]byte]{
		Name: path,
		Get: func(doc []byte) any {
			res := gjson.GetBytes(doc, path)
			if !res.Exists() {
				return nil
			}
			if !res.IsArray() {
				return res.Value()
			}
			arr := res.Array()
			items := make([][]byte, len(arr))
			for i, r := range arr {
				items[i] = []byte(r.Raw)
			}
			return items
		},
	}
}

// MapKey builds a field reading one key of a map, the shape database rows
// and decoded JSON objects take. A missing key yields nil.
func MapKey(key string) Field[map[string]any] {
	if key == "" {
		panic("accord: map key must not be empty")
	}
	return Field[map[string]any]{
		Name: key,
		Get: func(m map[string]any) any {
			return m[key]
		},
	}
}
