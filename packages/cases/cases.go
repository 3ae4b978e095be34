package cases

import (
	"github.com/stretchr/testify/assert"
)

// TestingT is the minimal testing surface the generator reports through.
type TestingT interface {
	Errorf(format string, args ...any)
}

type tHelper interface {
	Helper()
}

// Case is one generated combination. Args[d] holds the value drawn from the
// d-th argument set. Name stays empty unless a visit hook assigns one.
type Case struct {
	Name string
	Args []any
}

// Combinations returns the Cartesian product of the argument sets, one Case
// per combination. The first dimension varies fastest, so consecutive cases
// differ in Args[0] until that set wraps around. Passing no sets is a
// reported test failure and yields nil; an empty set yields no cases.
func Combinations(t TestingT, sets ...[]any) []Case {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return CombinationsFunc(t, nil, sets...)
}

// CombinationsFunc is Combinations with a hook invoked on every generated
// case in order. The hook may name the case or rewrite its arguments; index
// is the sequential case number starting at zero.
func CombinationsFunc(t TestingT, visit func(c *Case, index int), sets ...[]any) []Case {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if len(sets) == 0 {
		assert.Fail(t, "Combinations requires at least one argument set")
		return nil
	}

	total := 1
	for _, set := range sets {
		total *= len(set)
	}

	out := make([]Case, 0, total)
	for i := 0; i < total; i++ {
		args := make([]any, len(sets))
		rem := i
		for d, set := range sets {
			args[d] = set[rem%len(set)]
			rem /= len(set)
		}
		c := Case{Args: args}
		if visit != nil {
			visit(&c, i)
		}
		out = append(out, c)
	}
	return out
}
