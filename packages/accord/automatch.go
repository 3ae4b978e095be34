package accord

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

type matchConfig struct {
	ignoreCase bool
}

// MatchOption configures RegisterMatchingFields.
type MatchOption func(*matchConfig)

// MatchIgnoreCase pairs fields whose names differ only in case. An exact
// name match still wins over a folded one.
func MatchIgnoreCase() MatchOption {
	return func(c *matchConfig) {
		c.ignoreCase = true
	}
}

// RegisterMatchingFields reflects over S and D, pairs exported fields that
// agree in name and have the identical simple type, and registers a default
// equality rule per pair, in S's declaration order. Simple types are bools,
// integers, floats, strings, named types over those kinds (which covers
// time.Duration), time.Time, and pointers to all of these. Fields of other
// types are left alone; register them explicitly.
//
// S and D must be structs or pointers to structs; anything else is misuse
// and panics.
func (a *Accordances[S, D]) RegisterMatchingFields(opts ...MatchOption) *Accordances[S, D] {
	cfg := matchConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	srcType := structTypeOf[S]("RegisterMatchingFields source")
	dstType := structTypeOf[D]("RegisterMatchingFields destination")

	dstFields := simpleFields(dstType)
	for _, sf := range simpleFields(srcType) {
		df, ok := matchDestField(dstFields, sf, cfg.ignoreCase)
		if !ok {
			continue
		}
		a.Register(fieldByIndex[S](sf), fieldByIndex[D](df))
	}
	return a
}

func matchDestField(dst []reflect.StructField, sf reflect.StructField, ignoreCase bool) (reflect.StructField, bool) {
	for _, df := range dst {
		if df.Name == sf.Name && df.Type == sf.Type {
			return df, true
		}
	}
	if ignoreCase {
		for _, df := range dst {
			if strings.EqualFold(df.Name, sf.Name) && df.Type == sf.Type {
				return df, true
			}
		}
	}
	return reflect.StructField{}, false
}

func structTypeOf[T any](op string) reflect.Type {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("accord: %s must be a struct or pointer to struct, %s is neither", op, typ))
	}
	return typ
}

func simpleFields(typ reflect.Type) []reflect.StructField {
	out := make([]reflect.StructField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" || f.Anonymous {
			continue
		}
		if isSimpleType(f.Type) {
			out = append(out, f)
		}
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

func isSimpleType(typ reflect.Type) bool {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == timeType {
		return true
	}
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	}
	return false
}

// fieldByIndex builds a field reading a struct field by its index path,
// following a pointer T first.
func fieldByIndex[T any](sf reflect.StructField) Field[T] {
	index := sf.Index
	return Field[T]{
		Name: sf.Name,
		Get: func(v T) any {
			rv := reflect.ValueOf(v)
			for rv.Kind() == reflect.Ptr {
				if rv.IsNil() {
					return nil
				}
				rv = rv.Elem()
			}
			return rv.FieldByIndex(index).Interface()
		},
	}
}
