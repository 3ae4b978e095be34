package checks

import (
	"fmt"
	"reflect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EqualityExpectation describes how two values are expected to relate.
type EqualityExpectation int

const (
	// NotEqual expects distinct, unequal values.
	NotEqual EqualityExpectation = iota + 1
	// EqualMaybeSame expects equal values; sharing a reference is allowed.
	EqualMaybeSame
	// EqualNotSame expects equal values behind distinct references.
	EqualNotSame
)

func (e EqualityExpectation) String() string {
	switch e {
	case NotEqual:
		return "not equal"
	case EqualMaybeSame:
		return "equal"
	case EqualNotSame:
		return "equal but not the same reference"
	}
	return fmt.Sprintf("EqualityExpectation(%d)", int(e))
}

// ComparerExpectation describes whether the values' type must, may or must
// not carry an Equal method (the Go stand-in for a custom comparison
// operator).
type ComparerExpectation int

const (
	// ComparerOptional accepts either presence or absence of an Equal method.
	ComparerOptional ComparerExpectation = iota + 1
	// ComparerForbidden fails when an Equal method is defined.
	ComparerForbidden
	// ComparerRequired fails when no Equal method is defined.
	ComparerRequired
)

// EqualityContract asserts that a and b satisfy the equality contract under
// the given expectations:
//
//  1. Two nil values count as equal and identical; exactly one nil value
//     counts as unequal.
//  2. Structural equality is evaluated in both directions and must be
//     symmetric.
//  3. The verdict must match want. Two interface values wrapping the same
//     pointer are the same reference.
//  4. Equal values defining Hash() must report agreeing hashes.
//  5. An Equal(T) bool method, when present and permitted, must agree with
//     the structural verdict in both directions.
func EqualityContract(t TestingT, a, b any, want EqualityExpectation, comparer ComparerExpectation) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if want < NotEqual || want > EqualNotSame {
		require.Fail(t, fmt.Sprintf("Unknown equality expectation %d", int(want)))
		return
	}
	if comparer < ComparerOptional || comparer > ComparerRequired {
		require.Fail(t, fmt.Sprintf("Unknown comparer expectation %d", int(comparer)))
		return
	}

	aNil, bNil := isNil(a), isNil(b)
	switch {
	case aNil && bNil:
		if want != EqualMaybeSame {
			require.Fail(t, fmt.Sprintf("Both values are nil, which counts as equal and identical, contradicting the %s expectation", want))
		}
		return
	case aNil != bNil:
		if want != NotEqual {
			require.Fail(t, fmt.Sprintf("Exactly one value is nil, so the values cannot be %s", want))
		}
		present := a
		if aNil {
			present = b
		}
		checkComparerPresence(t, present, comparer)
		return
	}

	ab := assert.ObjectsAreEqual(a, b)
	ba := assert.ObjectsAreEqual(b, a)
	if ab != ba {
		require.Fail(t, fmt.Sprintf("Equality is not symmetric: a==b is %t but b==a is %t", ab, ba))
		return
	}
	equal := ab
	same := sameReference(a, b)

	switch want {
	case NotEqual:
		if same {
			require.Fail(t, "Values share the same reference but are expected to be not equal")
			return
		}
		if equal {
			require.Fail(t, fmt.Sprintf("Values are equal but expected not to be: %v", a))
			return
		}
	case EqualMaybeSame:
		if !equal {
			require.Fail(t, fmt.Sprintf("Values are expected to be equal: %v vs %v", a, b))
			return
		}
	case EqualNotSame:
		if !equal {
			require.Fail(t, fmt.Sprintf("Values are expected to be equal: %v vs %v", a, b))
			return
		}
		if same {
			require.Fail(t, "Values are equal but must not be the same reference")
			return
		}
	}

	if equal {
		ha, aok := callHash(a)
		hb, bok := callHash(b)
		if aok && bok && !assert.ObjectsAreEqual(ha, hb) {
			require.Fail(t, fmt.Sprintf("Equal values must report equal hashes: %v vs %v", ha, hb))
			return
		}
	}

	checkComparerPresence(t, a, comparer)
	if comparer == ComparerForbidden {
		return
	}
	mab, okAB := invokeComparer(a, b)
	mba, okBA := invokeComparer(b, a)
	if okAB && okBA && mab != mba {
		require.Fail(t, fmt.Sprintf("Equal method is not symmetric: a.Equal(b) is %t but b.Equal(a) is %t", mab, mba))
		return
	}
	if okAB && mab != equal {
		require.Fail(t, fmt.Sprintf("Equal method disagrees with structural equality: method says %t, structure says %t", mab, equal))
		return
	}
	if okBA && mba != equal {
		require.Fail(t, fmt.Sprintf("Equal method disagrees with structural equality: method says %t, structure says %t", mba, equal))
	}
}

func checkComparerPresence(t TestingT, v any, comparer ComparerExpectation) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	has := hasComparer(v)
	switch comparer {
	case ComparerForbidden:
		if has {
			require.Fail(t, fmt.Sprintf("%T defines an Equal method but the contract forbids one", v))
		}
	case ComparerRequired:
		if !has {
			require.Fail(t, fmt.Sprintf("%T must define an Equal method accepting its own type", v))
		}
	}
}

// hasComparer reports whether v's dynamic type defines Equal with one
// parameter assignable from v's own type and a single bool result.
func hasComparer(v any) bool {
	m := reflect.ValueOf(v).MethodByName("Equal")
	if !m.IsValid() {
		return false
	}
	mt := m.Type()
	return mt.NumIn() == 1 && mt.NumOut() == 1 &&
		mt.Out(0).Kind() == reflect.Bool &&
		reflect.TypeOf(v).AssignableTo(mt.In(0))
}

// invokeComparer calls v.Equal(other) when the method exists and accepts
// other's type.
func invokeComparer(v, other any) (result, ok bool) {
	m := reflect.ValueOf(v).MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, false
	}
	if !reflect.TypeOf(other).AssignableTo(mt.In(0)) {
		return false, false
	}
	out := m.Call([]reflect.Value{reflect.ValueOf(other)})
	return out[0].Bool(), true
}

func callHash(v any) (any, bool) {
	m := reflect.ValueOf(v).MethodByName("Hash")
	if !m.IsValid() {
		return nil, false
	}
	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 || !mt.Out(0).Comparable() {
		return nil, false
	}
	return m.Call(nil)[0].Interface(), true
}

// sameReference reports whether a and b wrap the same pointer-like value.
// Value copies are never the same reference.
func sameReference(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}
	return false
}
