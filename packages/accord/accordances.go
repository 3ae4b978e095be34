package accord

import (
	"fmt"
	"reflect"

	"github.com/stretchr/testify/require"
)

// TestingT is the minimal testing surface accordances report through.
// *testing.T and probe.T both satisfy it.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

type tHelper interface {
	Helper()
}

// Nested is the type-erased handle an enclosing accordance set keeps on an
// inner one, letting registries over different type pairs nest. Every
// *Accordances[S, D] implements it.
type Nested interface {
	Count() int
	HasNilCheck() bool
	assertPair(t TestingT, source, destination any, context string)
}

// Accordances is an ordered set of field-pair rules between a source type S
// and a destination type D. Rules are appended by the Register methods and
// evaluated in order by AssertAll. The zero registry is not useful; start
// with Between. Registration is not safe for concurrent use; evaluation is
// read-only and repeatable.
type Accordances[S, D any] struct {
	rules    []ruleFunc[S, D]
	nilCheck bool
}

type ruleFunc[S, D any] func(t TestingT, source S, destination D, context string)

// Between returns an empty accordance set for the given type pair.
func Between[S, D any]() *Accordances[S, D] {
	return &Accordances[S, D]{}
}

type ruleConfig struct {
	defaultBase string
	base        string
	factory     ConstraintFactory
	message     func(srcField string, srcVal any, dstField string, dstVal any) string
}

// RuleOption configures a single registered rule.
type RuleOption func(*ruleConfig)

// WithConstraint replaces the default equality constraint with one built
// from the extracted source value.
func WithConstraint(f ConstraintFactory) RuleOption {
	if f == nil {
		panic("accord: nil constraint factory")
	}
	return func(c *ruleConfig) {
		c.factory = f
	}
}

// WithMessage replaces the default base message. The source/destination
// field annotation is still appended.
func WithMessage(msg string) RuleOption {
	if msg == "" {
		panic("accord: empty rule message")
	}
	return func(c *ruleConfig) {
		c.base = msg
	}
}

// WithMessageFunc builds the whole failure message from the two extracted
// values; no annotation is appended.
func WithMessageFunc(f func(srcVal, dstVal any) string) RuleOption {
	if f == nil {
		panic("accord: nil message func")
	}
	return func(c *ruleConfig) {
		c.message = func(_ string, srcVal any, _ string, dstVal any) string {
			return f(srcVal, dstVal)
		}
	}
}

// WithFieldMessageFunc builds the whole failure message from the field
// names and the two extracted values; no annotation is appended.
func WithFieldMessageFunc(f func(srcField string, srcVal any, dstField string, dstVal any) string) RuleOption {
	if f == nil {
		panic("accord: nil message func")
	}
	return func(c *ruleConfig) {
		c.message = f
	}
}

func buildRuleConfig(defaultBase string, opts []RuleOption) ruleConfig {
	cfg := ruleConfig{defaultBase: defaultBase}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c ruleConfig) compose(srcField string, srcVal any, dstField string, dstVal any) string {
	if c.message != nil {
		return c.message(srcField, srcVal, dstField, dstVal)
	}
	base := c.base
	if base == "" {
		base = c.defaultBase
	}
	return decorate(base, srcField, srcVal, dstField, dstVal)
}

func (c ruleConfig) constraintFor(srcVal any) Constraint {
	if c.factory != nil {
		return c.factory(srcVal)
	}
	return EqualTo(srcVal)
}

// Register appends a rule asserting that the destination field agrees with
// the source field. Without options the rule demands equality with the
// extracted source value. Returns the registry for chaining.
func (a *Accordances[S, D]) Register(src Field[S], dst Field[D], opts ...RuleOption) *Accordances[S, D] {
	src.validate("Register")
	dst.validate("Register")
	cfg := buildRuleConfig(defaultEqualMessage, opts)
	a.rules = append(a.rules, func(t TestingT, source S, destination D, context string) {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}
		srcVal := src.Get(source)
		dstVal := dst.Get(destination)
		msg := chain(context, cfg.compose(src.Name, srcVal, dst.Name, dstVal))
		if !cfg.constraintFor(srcVal)(t, dstVal, msg) {
			t.FailNow()
		}
	})
	return a
}

// RegisterNested appends a rule that extracts a nested pair and evaluates
// the inner accordance set on it, passing this rule's message down as
// enclosing context. The inner set handles nil pairs itself when it carries
// a nil check.
func (a *Accordances[S, D]) RegisterNested(src Field[S], dst Field[D], inner Nested, opts ...RuleOption) *Accordances[S, D] {
	src.validate("RegisterNested")
	dst.validate("RegisterNested")
	if inner == nil {
		panic("accord: RegisterNested requires an inner accordance set")
	}
	cfg := buildRuleConfig(defaultNestedMessage, opts)
	a.rules = append(a.rules, func(t TestingT, source S, destination D, context string) {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}
		srcVal := src.Get(source)
		dstVal := dst.Get(destination)
		msg := chain(context, cfg.compose(src.Name, srcVal, dst.Name, dstVal))
		inner.assertPair(t, srcVal, dstVal, msg)
	})
	return a
}

// RegisterNestedList appends a rule for a pair of lists: both nil passes,
// exactly one nil fails, differing lengths fail, and otherwise the inner
// accordance set is evaluated per index with an index-annotated context.
func (a *Accordances[S, D]) RegisterNestedList(src Field[S], dst Field[D], inner Nested, opts ...RuleOption) *Accordances[S, D] {
	src.validate("RegisterNestedList")
	dst.validate("RegisterNestedList")
	if inner == nil {
		panic("accord: RegisterNestedList requires an inner accordance set")
	}
	cfg := buildRuleConfig(defaultListMessage, opts)
	a.rules = append(a.rules, func(t TestingT, source S, destination D, context string) {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}
		srcVal := src.Get(source)
		dstVal := dst.Get(destination)
		msg := chain(context, cfg.compose(src.Name, srcVal, dst.Name, dstVal))

		srcItems, srcNil, srcOK := listItems(srcVal)
		dstItems, dstNil, dstOK := listItems(dstVal)
		if !srcOK || !dstOK {
			fail(t, joinLines(msg, fmt.Sprintf("Expected lists on both sides, got %T and %T", srcVal, dstVal)))
			return
		}
		if srcNil && dstNil {
			return
		}
		if srcNil != dstNil {
			fail(t, joinLines(msg, fmt.Sprintf("Both lists are expected to be nil or both non-nil (source nil: %t, destination nil: %t)", srcNil, dstNil)))
			return
		}
		if len(srcItems) != len(dstItems) {
			fail(t, joinLines(msg, fmt.Sprintf("Both lists are expected to have the same item count (source has %d, destination has %d)", len(srcItems), len(dstItems))))
			return
		}
		for i := range srcItems {
			inner.assertPair(t, srcItems[i], dstItems[i], joinLines(msg, fmt.Sprintf("Expected a matching item at index %d", i)))
		}
	})
	return a
}

// RegisterNilCheck allows nil pairs: both sides nil passes, exactly one nil
// fails. Without it a nil side makes AssertAll panic. Idempotent.
func (a *Accordances[S, D]) RegisterNilCheck() *Accordances[S, D] {
	a.nilCheck = true
	return a
}

// HasNilCheck reports whether RegisterNilCheck was called.
func (a *Accordances[S, D]) HasNilCheck() bool {
	return a.nilCheck
}

// Count returns the number of registered rules. The nil check is a
// precondition, not a rule, and does not count.
func (a *Accordances[S, D]) Count() int {
	return len(a.rules)
}

// AssertAll evaluates every registered rule against the pair, in
// registration order, stopping at the first violation. Asserting with no
// rules registered is a usage failure. A nil side without a registered nil
// check panics; the absence of a value is a fault, not a failed
// comparison.
func (a *Accordances[S, D]) AssertAll(t TestingT, source S, destination D) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	a.doAssert(t, source, destination, "")
}

func (a *Accordances[S, D]) doAssert(t TestingT, source S, destination D, context string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if len(a.rules) == 0 {
		fail(t, chain(context, "No field mappings registered; call Register, RegisterNested, RegisterNestedList or RegisterMatchingFields before asserting"))
		return
	}

	srcNil := isNilValue(source)
	dstNil := isNilValue(destination)
	switch {
	case a.nilCheck && srcNil && dstNil:
		return
	case a.nilCheck && srcNil != dstNil:
		fail(t, chain(context, fmt.Sprintf("Source and destination are expected to be both nil or both non-nil (source nil: %t, destination nil: %t)", srcNil, dstNil)))
		return
	case !a.nilCheck && (srcNil || dstNil):
		panic("accord: nil " + nilSides(srcNil, dstNil) + " passed to AssertAll without a nil check; call RegisterNilCheck to allow nil pairs")
	}

	for _, rule := range a.rules {
		rule(t, source, destination, context)
	}
}

// assertPair adapts the untyped values an enclosing registry extracted back
// to this registry's type pair. A nil interface becomes the zero value, so
// nil handling stays with the nil gate.
func (a *Accordances[S, D]) assertPair(t TestingT, source, destination any, context string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	s, ok := castSide[S](t, source, context, "source")
	if !ok {
		return
	}
	d, ok := castSide[D](t, destination, context, "destination")
	if !ok {
		return
	}
	a.doAssert(t, s, d, context)
}

func castSide[T any](t TestingT, v any, context, side string) (T, bool) {
	var zero T
	if v == nil {
		return zero, true
	}
	out, ok := v.(T)
	if !ok {
		fail(t, chain(context, fmt.Sprintf("Inner accordance expects a %s of type %s, got %T", side, reflect.TypeOf((*T)(nil)).Elem(), v)))
		return zero, false
	}
	return out, true
}

func nilSides(srcNil, dstNil bool) string {
	switch {
	case srcNil && dstNil:
		return "source and destination"
	case srcNil:
		return "source"
	default:
		return "destination"
	}
}

// fail reports msg and stops the test, the way require does.
func fail(t TestingT, msg string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.Fail(t, msg)
}

func listItems(v any) (items []any, isNil, ok bool) {
	if v == nil {
		return nil, true, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, true, true
		}
	case reflect.Array:
	default:
		return nil, false, false
	}
	items = make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, false, true
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
