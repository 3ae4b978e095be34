package checks

import (
	"fmt"
	"reflect"

	"github.com/stretchr/testify/require"
)

// TestingT is the minimal testing surface the checks need. *testing.T and
// probe.T both satisfy it.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

type tHelper interface {
	Helper()
}

// NotNil fails the test when v is nil and otherwise returns v unchanged,
// so a lookup can be guarded and used in one expression:
//
//	order := checks.NotNil(t, repo.Find(id))
func NotNil[T any](t TestingT, v T, msgAndArgs ...any) T {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if isNil(v) {
		require.Fail(t, fmt.Sprintf("Expected a non-nil %s", typeName[T]()), msgAndArgs...)
	}
	return v
}

// Cast fails the test when v does not hold a T and otherwise returns the
// typed value. A nil input yields the zero value when T can be nil, and a
// failure when it cannot.
func Cast[T any](t TestingT, v any, msgAndArgs ...any) T {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	var zero T
	if v == nil {
		if nilableType[T]() {
			return zero
		}
		require.Fail(t, fmt.Sprintf("Cannot cast nil to %s", typeName[T]()), msgAndArgs...)
		return zero
	}
	out, ok := v.(T)
	if !ok {
		require.Fail(t, fmt.Sprintf("Expected a value of type %s, got %T", typeName[T](), v), msgAndArgs...)
		return zero
	}
	return out
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func nilableType[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
