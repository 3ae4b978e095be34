package pairspec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/abdul-hamid-achik/accord/packages/accord"
	"github.com/abdul-hamid-achik/accord/packages/fixture"
)

var (
	// ErrNilAccordance is returned when a nil declaration is bound.
	ErrNilAccordance = errors.New("pairspec: nil accordance")

	// ErrMatchRestJSON is returned when a JSON binding asks for match_rest;
	// JSON documents carry no static field set to pair up.
	ErrMatchRestJSON = errors.New("pairspec: match_rest is not supported for JSON documents")
)

// BindJSON builds an executable accordance set over a pair of JSON documents
// from a declaration. Field paths use gjson syntax and are only resolved at
// evaluation time; a missing path extracts nil and fails the comparison.
// Scalar rules compare with numeric equivalence, since JSON does not
// distinguish integer widths.
func BindJSON(a *Accordance) (*accord.Accordances[[]byte, []byte], error) {
	if a == nil {
		return nil, ErrNilAccordance
	}
	if errs := validateAccordance(a); len(errs) > 0 {
		return nil, errs[0]
	}
	if a.MatchRest {
		return nil, ErrMatchRestJSON
	}

	acc := accord.Between[[]byte, []byte]()
	if a.NilCheck {
		acc.RegisterNilCheck()
	}
	for i := range a.Fields {
		if err := bindJSONRule(acc, &a.Fields[i]); err != nil {
			return nil, fmt.Errorf("pairspec: accordance %q: %w", a.Name, err)
		}
	}
	return acc, nil
}

func bindJSONRule(acc *accord.Accordances[[]byte, []byte], r *FieldRule) error {
	opts := ruleOptions(r)
	switch {
	case r.List:
		inner, err := buildJSONInner(r)
		if err != nil {
			return err
		}
		acc.RegisterNestedList(accord.JSONList(r.Source), accord.JSONList(r.Destination), inner, opts...)
	case len(r.Fields) > 0:
		inner, err := buildJSONInner(r)
		if err != nil {
			return err
		}
		acc.RegisterNested(accord.JSONDoc(r.Source), accord.JSONDoc(r.Destination), inner, opts...)
	case r.Expect != nil:
		want, err := fixture.Resolve(*r.Expect)
		if err != nil {
			return fmt.Errorf("field %s: %w", r.Destination, err)
		}
		opts = append(opts, accord.WithConstraint(accord.Fixed(accord.Equivalent(want))))
		acc.Register(accord.JSONField(r.Source), accord.JSONField(r.Destination), opts...)
	default:
		opts = append(opts, accord.WithConstraint(accord.EquivalentToSource))
		acc.Register(accord.JSONField(r.Source), accord.JSONField(r.Destination), opts...)
	}
	return nil
}

func buildJSONInner(r *FieldRule) (accord.Nested, error) {
	inner := accord.Between[[]byte, []byte]()
	if r.NilCheck {
		inner.RegisterNilCheck()
	}
	for i := range r.Fields {
		if err := bindJSONRule(inner, &r.Fields[i]); err != nil {
			return nil, err
		}
	}
	return inner, nil
}

// Bind builds an executable accordance set over a Go struct pair from a
// declaration. Field paths are dotted exported field names and are resolved
// against S and D up front, so a misspelled path surfaces as an error here
// rather than a failure on every run.
func Bind[S, D any](a *Accordance) (*accord.Accordances[S, D], error) {
	if a == nil {
		return nil, ErrNilAccordance
	}
	if errs := validateAccordance(a); len(errs) > 0 {
		return nil, errs[0]
	}
	srcOwner := reflect.TypeOf((*S)(nil)).Elem()
	dstOwner := reflect.TypeOf((*D)(nil)).Elem()

	acc := accord.Between[S, D]()
	if a.NilCheck {
		acc.RegisterNilCheck()
	}
	for i := range a.Fields {
		err := bindRule(acc, &a.Fields[i], srcOwner, dstOwner,
			func(path string) accord.Field[S] { return accord.ByName[S](path) },
			func(path string) accord.Field[D] { return accord.ByName[D](path) })
		if err != nil {
			return nil, fmt.Errorf("pairspec: accordance %q: %w", a.Name, err)
		}
	}
	if a.MatchRest {
		if !isStructType(srcOwner) || !isStructType(dstOwner) {
			return nil, fmt.Errorf("pairspec: accordance %q: match_rest requires struct types, got %s and %s", a.Name, srcOwner, dstOwner)
		}
		var matchOpts []accord.MatchOption
		if a.IgnoreCase {
			matchOpts = append(matchOpts, accord.MatchIgnoreCase())
		}
		acc.RegisterMatchingFields(matchOpts...)
	}
	return acc, nil
}

// bindRule appends the rule r to acc. Paths are validated against the owner
// types before field getters are built, keeping Bind error-returning where
// the fluent constructors panic.
func bindRule[S, D any](
	acc *accord.Accordances[S, D],
	r *FieldRule,
	srcOwner, dstOwner reflect.Type,
	mkSrc func(string) accord.Field[S],
	mkDst func(string) accord.Field[D],
) error {
	srcType, err := accord.PathTypeOf(srcOwner, r.Source)
	if err != nil {
		return fmt.Errorf("source %w", err)
	}
	dstType, err := accord.PathTypeOf(dstOwner, r.Destination)
	if err != nil {
		return fmt.Errorf("destination %w", err)
	}

	opts := ruleOptions(r)
	switch {
	case r.List:
		srcElem, err := listElemType(srcType)
		if err != nil {
			return fmt.Errorf("source %s: %w", r.Source, err)
		}
		dstElem, err := listElemType(dstType)
		if err != nil {
			return fmt.Errorf("destination %s: %w", r.Destination, err)
		}
		inner, err := buildInner(r, srcElem, dstElem)
		if err != nil {
			return err
		}
		acc.RegisterNestedList(mkSrc(r.Source), mkDst(r.Destination), inner, opts...)
	case len(r.Fields) > 0:
		inner, err := buildInner(r, srcType, dstType)
		if err != nil {
			return err
		}
		acc.RegisterNested(mkSrc(r.Source), mkDst(r.Destination), inner, opts...)
	case r.Expect != nil:
		want, err := fixture.Resolve(*r.Expect)
		if err != nil {
			return fmt.Errorf("field %s: %w", r.Destination, err)
		}
		opts = append(opts, accord.WithConstraint(accord.Fixed(accord.Equivalent(want))))
		acc.Register(mkSrc(r.Source), mkDst(r.Destination), opts...)
	default:
		acc.Register(mkSrc(r.Source), mkDst(r.Destination), opts...)
	}
	return nil
}

// buildInner binds the nested rules of r as a type-erased accordance set.
// Element types are only known through reflection here, so inner getters
// walk values at evaluation time instead of going through ByName.
func buildInner(r *FieldRule, srcOwner, dstOwner reflect.Type) (accord.Nested, error) {
	inner := accord.Between[any, any]()
	if r.NilCheck {
		inner.RegisterNilCheck()
	}
	for i := range r.Fields {
		if err := bindRule(inner, &r.Fields[i], srcOwner, dstOwner, accord.AnyField, accord.AnyField); err != nil {
			return nil, err
		}
	}
	return inner, nil
}

func ruleOptions(r *FieldRule) []accord.RuleOption {
	if r.Message == "" {
		return nil
	}
	return []accord.RuleOption{accord.WithMessage(r.Message)}
}

func listElemType(t reflect.Type) (reflect.Type, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, fmt.Errorf("type %s is not a list", t)
	}
	return t.Elem(), nil
}

func isStructType(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
