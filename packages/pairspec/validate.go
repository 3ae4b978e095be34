package pairspec

import "fmt"

// Validate checks a parsed spec for structural problems and returns all of
// them. A nil error slice means the spec is usable.
func Validate(f *File) []error {
	if f == nil {
		return []error{fmt.Errorf("pairspec: spec is nil")}
	}

	var errs []error

	if f.Version != "1" {
		errs = append(errs, fmt.Errorf("pairspec: unsupported spec version %q (supported: 1)", f.Version))
	}
	if len(f.Accordances) == 0 {
		errs = append(errs, fmt.Errorf("pairspec: spec declares no accordances"))
	}

	seen := make(map[string]bool)
	for i := range f.Accordances {
		a := &f.Accordances[i]
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("pairspec: accordance %d has no name", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("pairspec: duplicate accordance name %q", a.Name))
			continue
		}
		seen[a.Name] = true
		errs = append(errs, validateAccordance(a)...)
	}
	return errs
}

func validateAccordance(a *Accordance) []error {
	var errs []error
	if len(a.Fields) == 0 && !a.MatchRest {
		errs = append(errs, fmt.Errorf("pairspec: accordance %q declares no field rules and match_rest is off", a.Name))
	}
	for i := range a.Fields {
		where := fmt.Sprintf("accordance %q fields[%d]", a.Name, i)
		errs = append(errs, validateRule(&a.Fields[i], where)...)
	}
	return errs
}

func validateRule(r *FieldRule, where string) []error {
	var errs []error
	if r.Source == "" {
		errs = append(errs, fmt.Errorf("pairspec: %s has no source", where))
	}
	if r.Destination == "" {
		errs = append(errs, fmt.Errorf("pairspec: %s has no destination", where))
	}
	if r.Expect != nil && len(r.Fields) > 0 {
		errs = append(errs, fmt.Errorf("pairspec: %s mixes expect with nested fields", where))
	}
	if r.Expect != nil && r.List {
		errs = append(errs, fmt.Errorf("pairspec: %s mixes expect with list", where))
	}
	if r.List && len(r.Fields) == 0 {
		errs = append(errs, fmt.Errorf("pairspec: %s is a list rule without nested fields", where))
	}
	for i := range r.Fields {
		inner := fmt.Sprintf("%s fields[%d]", where, i)
		errs = append(errs, validateRule(&r.Fields[i], inner)...)
	}
	return errs
}
