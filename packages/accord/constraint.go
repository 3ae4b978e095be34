package accord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/xeipuuv/gojsonschema"
)

// Constraint checks an extracted destination value and reports through t,
// returning whether the check passed. The shape matches testify's
// ValueAssertionFunc, so existing assertion helpers adapt directly.
type Constraint func(t TestingT, actual any, msgAndArgs ...any) bool

// ConstraintFactory builds the constraint for one evaluation from the
// extracted source value, enabling rules like "destination must equal
// 100 minus the source progress".
type ConstraintFactory func(sourceValue any) Constraint

// EqualTo passes when the actual value equals want (testify equality).
func EqualTo(want any) Constraint {
	return func(t TestingT, actual any, msgAndArgs ...any) bool {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}
		return assert.Equal(t, want, actual, msgAndArgs...)
	}
}

// Equivalent passes when the actual value equals want after numeric
// coercion, so an int source agrees with the float64 a JSON document
// decodes to. Non-numeric values fall back to plain equality.
func Equivalent(want any) Constraint {
	return func(t TestingT, actual any, msgAndArgs ...any) bool {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}
		if wf, wok := toFloat64(want); wok {
			if af, aok := toFloat64(actual); aok {
				if wf == af {
					return true
				}
				return assert.Fail(t, fmt.Sprintf("Values are not numerically equivalent: %v vs %v", want, actual), msgAndArgs...)
			}
		}
		return assert.Equal(t, want, actual, msgAndArgs...)
	}
}

// MatchesSchema passes when the actual value validates against the given
// JSON Schema. []byte and string values are treated as JSON documents,
// anything else is loaded as a Go value.
func MatchesSchema(schema []byte) Constraint {
	loader := gojsonschema.NewBytesLoader(schema)
	return func(t TestingT, actual any, msgAndArgs ...any) bool {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}
		var doc gojsonschema.JSONLoader
		switch v := actual.(type) {
		case []byte:
			doc = gojsonschema.NewBytesLoader(v)
		case string:
			doc = gojsonschema.NewStringLoader(v)
		default:
			doc = gojsonschema.NewGoLoader(v)
		}
		result, err := gojsonschema.Validate(loader, doc)
		if err != nil {
			return assert.Fail(t, fmt.Sprintf("Schema validation error: %v", err), msgAndArgs...)
		}
		if result.Valid() {
			return true
		}
		var sb strings.Builder
		sb.WriteString("Value does not match the schema:")
		for _, desc := range result.Errors() {
			sb.WriteString("\n  - ")
			sb.WriteString(desc.String())
		}
		return assert.Fail(t, sb.String(), msgAndArgs...)
	}
}

// EquivalentToSource is the factory form of Equivalent: the destination
// must agree with the extracted source value after numeric coercion. Use it
// where source and destination decode numbers differently, JSON documents
// against Go structs in particular:
//
//	acc.Register(src, dst, accord.WithConstraint(accord.EquivalentToSource))
func EquivalentToSource(sourceValue any) Constraint {
	return Equivalent(sourceValue)
}

// Fixed adapts a source-independent constraint into a factory.
func Fixed(c Constraint) ConstraintFactory {
	if c == nil {
		panic("accord: nil constraint")
	}
	return func(any) Constraint {
		return c
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
