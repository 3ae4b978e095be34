package cases

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/accord/packages/probe"
)

func TestCombinationsProductSize(t *testing.T) {
	got := Combinations(t,
		[]any{1, 2},
		[]any{"a", "b"},
		[]any{true, false, nil},
	)

	require.Len(t, got, 12)

	seen := make(map[string]bool, len(got))
	for _, c := range got {
		key := fmt.Sprint(c.Args...)
		assert.False(t, seen[key], "combination %s generated twice", key)
		seen[key] = true
	}
}

func TestCombinationsFirstDimensionVariesFastest(t *testing.T) {
	got := Combinations(t,
		[]any{1, 2},
		[]any{"a", "b"},
	)

	want := []Case{
		{Args: []any{1, "a"}},
		{Args: []any{2, "a"}},
		{Args: []any{1, "b"}},
		{Args: []any{2, "b"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("case order mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinationsSingleSet(t *testing.T) {
	got := Combinations(t, []any{10, 20, 30})

	require.Len(t, got, 3)
	assert.Equal(t, 10, got[0].Args[0])
	assert.Equal(t, 30, got[2].Args[0])
}

func TestCombinationsEmptySetYieldsNoCases(t *testing.T) {
	got := Combinations(t, []any{1, 2}, []any{})

	assert.Empty(t, got)
}

func TestCombinationsWithoutSetsReportsFailure(t *testing.T) {
	pt := probe.Run(func(pt *probe.T) {
		got := Combinations(pt)
		assert.Nil(t, got)
	})

	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "at least one argument set")
}

func TestCombinationsFuncNamesCases(t *testing.T) {
	got := CombinationsFunc(t, func(c *Case, index int) {
		c.Name = fmt.Sprintf("case %02d", index)
	},
		[]any{1, 2},
		[]any{"x", "y"},
	)

	require.Len(t, got, 4)
	assert.Equal(t, "case 00", got[0].Name)
	assert.Equal(t, "case 03", got[3].Name)
}

func TestCombinationsFuncHookMayRewriteArgs(t *testing.T) {
	got := CombinationsFunc(t, func(c *Case, index int) {
		if n, ok := c.Args[0].(int); ok {
			c.Args[0] = n * 10
		}
	},
		[]any{1, 2},
	)

	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Args[0])
	assert.Equal(t, 20, got[1].Args[0])
}

func TestCombinationsNameStaysEmptyWithoutHook(t *testing.T) {
	got := Combinations(t, []any{1})

	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Name)
}
