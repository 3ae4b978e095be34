// Package pairspec loads accordance specs from YAML files and binds them to
// executable accordance sets, either over JSON documents or over Go struct
// pairs.
package pairspec

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the root of an accordance spec document.
type File struct {
	// Version of the spec schema.
	Version string `yaml:"version,omitempty"`

	// Accordances is the list of named accordance declarations.
	Accordances []Accordance `yaml:"accordances"`
}

// Accordance declares one named, ordered set of field rules between a
// source and a destination shape.
type Accordance struct {
	Name string `yaml:"name"`

	// NilCheck allows a nil pair: both nil passes, one nil fails.
	NilCheck bool `yaml:"nil_check,omitempty"`

	// IgnoreCase folds names when match_rest pairs remaining fields.
	IgnoreCase bool `yaml:"ignore_case,omitempty"`

	// MatchRest auto-pairs same-name, same-type simple fields after the
	// explicit rules. Only struct binding supports it.
	MatchRest bool `yaml:"match_rest,omitempty"`

	Fields []FieldRule `yaml:"fields,omitempty"`
}

// FieldRule pairs one source field with one destination field. The rule
// kind follows from the populated keys: a plain pair compares values,
// expect pins the destination to a literal (fixture placeholders resolve),
// fields recurses into a nested accordance, and list with fields recurses
// element-wise.
type FieldRule struct {
	Source      string      `yaml:"source"`
	Destination string      `yaml:"destination"`
	Message     string      `yaml:"message,omitempty"`
	Expect      *string     `yaml:"expect,omitempty"`
	List        bool        `yaml:"list,omitempty"`
	NilCheck    bool        `yaml:"nil_check,omitempty"`
	Fields      []FieldRule `yaml:"fields,omitempty"`
}

// LoadFile loads and parses an accordance spec from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pairspec: failed to read spec file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a File and applies defaults.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pairspec: failed to parse spec YAML: %w", err)
	}
	applyDefaults(&f)
	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Accordance returns the declaration with the given name.
func (f *File) Accordance(name string) (*Accordance, bool) {
	for i := range f.Accordances {
		if f.Accordances[i].Name == name {
			return &f.Accordances[i], true
		}
	}
	return nil, false
}

// IsSpecFile reports whether path looks like an accordance spec file.
func IsSpecFile(path string) bool {
	return strings.HasSuffix(path, ".accord.yaml") || strings.HasSuffix(path, ".accord.yml")
}
