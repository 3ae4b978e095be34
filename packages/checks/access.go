package checks

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stretchr/testify/require"
)

// AccessMode describes the expected accessor surface of a property.
type AccessMode int

const (
	// ReadOnly expects the property to be readable but not writable.
	ReadOnly AccessMode = iota + 1
	// WriteOnly expects the property to be writable but not readable.
	WriteOnly
	// ReadWrite expects the property to be both readable and writable.
	ReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

// Visibility selects which accessor kinds count when probing a property.
type Visibility uint8

const (
	// VisField counts an exported struct field as both a getter and a setter.
	VisField Visibility = 1 << iota
	// VisMethod counts the X() / SetX(v) method conventions.
	VisMethod
)

// VisAny counts every accessor kind.
const VisAny = VisField | VisMethod

// Accessors asserts that property on T is readable and writable exactly as
// mode demands, considering only the accessor kinds selected by visible.
// T should be a struct or pointer-to-struct type; a zero visibility means
// VisAny.
//
// Readable means an exported field named property or a method property()
// with one result. Writable means an exported field or a method
// Set<property>(v) with no results. Pointer-receiver methods count
// regardless of whether T is the pointer type.
func Accessors[T any](t TestingT, property string, mode AccessMode, visible Visibility) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if property == "" {
		require.Fail(t, "Accessors requires a property name")
		return
	}
	if mode < ReadOnly || mode > ReadWrite {
		require.Fail(t, fmt.Sprintf("Unknown access mode %d", int(mode)))
		return
	}
	if visible == 0 {
		visible = VisAny
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	structType := typ
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	var readable, writable bool
	if visible&VisField != 0 && structType.Kind() == reflect.Struct {
		if f, ok := structType.FieldByName(property); ok && f.PkgPath == "" {
			readable = true
			writable = true
		}
	}
	if visible&VisMethod != 0 {
		mtyp := typ
		if mtyp.Kind() != reflect.Ptr {
			mtyp = reflect.PointerTo(typ)
		}
		if m, ok := mtyp.MethodByName(property); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
			readable = true
		}
		if m, ok := mtyp.MethodByName("Set" + property); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 0 {
			writable = true
		}
	}

	wantRead := mode == ReadOnly || mode == ReadWrite
	wantWrite := mode == WriteOnly || mode == ReadWrite
	if readable == wantRead && writable == wantWrite {
		return
	}

	var notes []string
	if readable && !wantRead {
		notes = append(notes, "readable but expected not to be")
	}
	if !readable && wantRead {
		notes = append(notes, "not readable but expected to be")
	}
	if writable && !wantWrite {
		notes = append(notes, "writable but expected not to be")
	}
	if !writable && wantWrite {
		notes = append(notes, "not writable but expected to be")
	}

	require.Fail(t, fmt.Sprintf(
		"Property %s.%s is %s under the given visibility (expected %s: readable=%t writable=%t, actual: readable=%t writable=%t)",
		structType.String(), property, strings.Join(notes, " and "),
		mode, wantRead, wantWrite, readable, writable))
}
