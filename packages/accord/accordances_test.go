package accord

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/accord/packages/probe"
)

type note struct {
	Text     string
	Priority int
}

type memo struct {
	Message  string
	Priority int
}

type item struct {
	SKU string
	Qty int
}

type line struct {
	Code string
	Qty  int
}

type order struct {
	ID       string
	Progress int
	Data     *note
	Items    []item
}

type receipt struct {
	ID        string
	Remaining int
	Info      *memo
	Lines     []line
}

func progressRule() *Accordances[order, receipt] {
	return Between[order, receipt]().
		Register(ByName[order]("Progress"), ByName[receipt]("Remaining"),
			WithConstraint(func(v any) Constraint {
				return EqualTo(100 - v.(int))
			}))
}

func TestCountTracksRegisteredRules(t *testing.T) {
	acc := Between[order, receipt]()
	assert.Equal(t, 0, acc.Count())

	acc.Register(ByName[order]("ID"), ByName[receipt]("ID"))
	assert.Equal(t, 1, acc.Count())

	acc.Register(ByName[order]("Progress"), ByName[receipt]("Remaining"))
	assert.Equal(t, 2, acc.Count())

	acc.RegisterNilCheck()
	assert.Equal(t, 2, acc.Count(), "the nil check is not a rule")
}

func TestRegisterNilCheckIsIdempotent(t *testing.T) {
	acc := Between[order, receipt]()
	assert.False(t, acc.HasNilCheck())

	acc.RegisterNilCheck()
	acc.RegisterNilCheck()

	assert.True(t, acc.HasNilCheck())
	assert.Equal(t, 0, acc.Count())
}

func TestRegisterReturnsRegistryForChaining(t *testing.T) {
	acc := Between[order, receipt]()
	got := acc.Register(ByName[order]("ID"), ByName[receipt]("ID")).RegisterNilCheck()

	assert.Same(t, acc, got)
}

func TestAssertAllWithoutRulesFails(t *testing.T) {
	pt := probe.Run(func(pt *probe.T) {
		Between[order, receipt]().AssertAll(pt, order{}, receipt{})
	})

	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "No field mappings registered")
}

func TestEmptyRegistryFailsBeforeNilHandling(t *testing.T) {
	// The usage gate fires even when the nil check would let a nil pair
	// pass.
	pt := probe.Run(func(pt *probe.T) {
		Between[*order, *receipt]().RegisterNilCheck().AssertAll(pt, nil, nil)
	})

	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "No field mappings registered")
}

func TestDerivedValueAccordance(t *testing.T) {
	acc := progressRule()

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{Progress: 45}, receipt{Remaining: 55})
	})
	assert.False(t, pt.Failed(), pt.Output())

	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{Progress: 45}, receipt{Remaining: 54})
	})
	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "source.Progress")
	assert.Contains(t, pt.Output(), "destination.Remaining")
	assert.Contains(t, pt.Output(), "expected to be equal")
}

func TestAssertAllIsRepeatable(t *testing.T) {
	acc := progressRule()

	for i := 0; i <= 100; i += 25 {
		pt := probe.Run(func(pt *probe.T) {
			acc.AssertAll(pt, order{Progress: i}, receipt{Remaining: 100 - i})
		})
		assert.False(t, pt.Failed(), "progress %d: %s", i, pt.Output())
	}
	assert.Equal(t, 1, acc.Count(), "evaluation must not grow the registry")
}

func TestNilPairsWithNilCheck(t *testing.T) {
	acc := Between[*order, *receipt]().
		RegisterNilCheck().
		Register(ByName[*order]("ID"), ByName[*receipt]("ID"))

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, nil, nil)
	})
	assert.False(t, pt.Failed(), "both nil should pass: %s", pt.Output())

	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, &order{ID: "A-1"}, nil)
	})
	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "both nil or both non-nil")

	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, &order{ID: "A-1"}, &receipt{ID: "A-1"})
	})
	assert.False(t, pt.Failed(), pt.Output())
}

func TestNilWithoutNilCheckPanics(t *testing.T) {
	acc := Between[*order, *receipt]().
		Register(ByName[*order]("ID"), ByName[*receipt]("ID"))

	require.PanicsWithValue(t,
		"accord: nil destination passed to AssertAll without a nil check; call RegisterNilCheck to allow nil pairs",
		func() {
			acc.AssertAll(probe.New(), &order{}, nil)
		})

	require.Panics(t, func() {
		acc.AssertAll(probe.New(), nil, nil)
	})
}

func TestFailFastStopsAtFirstViolation(t *testing.T) {
	laterRuleBuilt := 0
	acc := Between[order, receipt]().
		Register(ByName[order]("ID"), ByName[receipt]("ID")).
		Register(ByName[order]("Progress"), ByName[receipt]("Remaining"),
			WithConstraint(func(v any) Constraint {
				laterRuleBuilt++
				return EqualTo(v)
			}))

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{ID: "A-1", Progress: 1}, receipt{ID: "B-9", Remaining: 1})
	})

	require.True(t, pt.Failed())
	assert.Len(t, pt.Messages(), 1)
	assert.Equal(t, 0, laterRuleBuilt, "rules after the first violation must not run")
}

func TestRulesRunInRegistrationOrder(t *testing.T) {
	var ran []string
	track := func(name string) ConstraintFactory {
		return func(any) Constraint {
			ran = append(ran, name)
			return func(TestingT, any, ...any) bool { return true }
		}
	}

	acc := Between[order, receipt]().
		Register(ByName[order]("ID"), ByName[receipt]("ID"), WithConstraint(track("first"))).
		Register(ByName[order]("Progress"), ByName[receipt]("Remaining"), WithConstraint(track("second")))

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{}, receipt{})
	})

	assert.False(t, pt.Failed())
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestNestedAccordance(t *testing.T) {
	inner := Between[*note, *memo]().
		Register(ByName[*note]("Text"), ByName[*memo]("Message")).
		Register(ByName[*note]("Priority"), ByName[*memo]("Priority"))
	acc := Between[order, receipt]().
		RegisterNested(ByName[order]("Data"), ByName[receipt]("Info"), inner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			order{Data: &note{Text: "hello", Priority: 2}},
			receipt{Info: &memo{Message: "hello", Priority: 2}})
	})
	assert.False(t, pt.Failed(), pt.Output())

	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			order{Data: &note{Text: "hello"}},
			receipt{Info: &memo{Message: "goodbye"}})
	})
	require.True(t, pt.Failed())
	out := pt.Output()
	assert.Contains(t, out, "source.Data")
	assert.Contains(t, out, "destination.Info")
	assert.Contains(t, out, "source.Text")
	assert.Contains(t, out, "destination.Message")
	assert.Contains(t, out, "[Inner Mapping]")
	assert.Contains(t, out, strings.Repeat("-", 80))
}

func TestNestedContextsAccumulate(t *testing.T) {
	type form struct{ O order }
	type sheet struct{ R receipt }

	inner := Between[*note, *memo]().
		Register(ByName[*note]("Text"), ByName[*memo]("Message"))
	mid := Between[order, receipt]().
		RegisterNested(ByName[order]("Data"), ByName[receipt]("Info"), inner)
	acc := Between[form, sheet]().
		RegisterNested(ByName[form]("O"), ByName[sheet]("R"), mid)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			form{O: order{Data: &note{Text: "a"}}},
			sheet{R: receipt{Info: &memo{Message: "b"}}})
	})

	require.True(t, pt.Failed())
	assert.Equal(t, 2, strings.Count(pt.Output(), "[Inner Mapping]"),
		"each nesting level adds one inner-mapping block")
}

func TestNestedInnerNilCheck(t *testing.T) {
	inner := Between[*note, *memo]().
		RegisterNilCheck().
		Register(ByName[*note]("Text"), ByName[*memo]("Message"))
	acc := Between[order, receipt]().
		RegisterNested(ByName[order]("Data"), ByName[receipt]("Info"), inner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{}, receipt{})
	})
	assert.False(t, pt.Failed(), "nil nested pair passes with an inner nil check: %s", pt.Output())

	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{Data: &note{Text: "x"}}, receipt{})
	})
	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "both nil or both non-nil")
}

func TestNestedWithoutInnerNilCheckPanics(t *testing.T) {
	inner := Between[*note, *memo]().
		Register(ByName[*note]("Text"), ByName[*memo]("Message"))
	acc := Between[order, receipt]().
		RegisterNested(ByName[order]("Data"), ByName[receipt]("Info"), inner)

	require.Panics(t, func() {
		acc.AssertAll(probe.New(), order{}, receipt{})
	})
}

func TestNestedTypeMismatchIsUsageFailure(t *testing.T) {
	wrongInner := Between[*item, *memo]().
		Register(ByName[*item]("SKU"), ByName[*memo]("Message"))
	acc := Between[order, receipt]().
		RegisterNested(ByName[order]("Data"), ByName[receipt]("Info"), wrongInner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			order{Data: &note{Text: "x"}},
			receipt{Info: &memo{Message: "x"}})
	})

	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "Inner accordance expects a source of type *accord.item")
	assert.Contains(t, pt.Output(), "*accord.note")
}

func TestNestedListAccordance(t *testing.T) {
	inner := Between[item, line]().
		Register(ByName[item]("SKU"), ByName[line]("Code")).
		Register(ByName[item]("Qty"), ByName[line]("Qty"))
	acc := Between[order, receipt]().
		RegisterNestedList(ByName[order]("Items"), ByName[receipt]("Lines"), inner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			order{Items: []item{{SKU: "A", Qty: 1}, {SKU: "B", Qty: 2}}},
			receipt{Lines: []line{{Code: "A", Qty: 1}, {Code: "B", Qty: 2}}})
	})
	assert.False(t, pt.Failed(), pt.Output())
}

func TestNestedListCountMismatch(t *testing.T) {
	inner := Between[item, line]().
		Register(ByName[item]("SKU"), ByName[line]("Code"))
	acc := Between[order, receipt]().
		RegisterNestedList(ByName[order]("Items"), ByName[receipt]("Lines"), inner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			order{Items: []item{{SKU: "A"}, {SKU: "B"}}},
			receipt{Lines: []line{{Code: "A"}}})
	})

	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "same item count")
	assert.Contains(t, pt.Output(), "source has 2, destination has 1")
}

func TestNestedListItemMismatch(t *testing.T) {
	inner := Between[item, line]().
		Register(ByName[item]("SKU"), ByName[line]("Code"))
	acc := Between[order, receipt]().
		RegisterNestedList(ByName[order]("Items"), ByName[receipt]("Lines"), inner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt,
			order{Items: []item{{SKU: "A"}}},
			receipt{Lines: []line{{Code: "Z"}}})
	})

	require.True(t, pt.Failed())
	out := pt.Output()
	assert.Contains(t, out, "matching item at index 0")
	assert.Contains(t, out, "source.SKU")
	assert.Contains(t, out, "destination.Code")
}

func TestNestedListNilSymmetry(t *testing.T) {
	inner := Between[item, line]().
		Register(ByName[item]("SKU"), ByName[line]("Code"))
	acc := Between[order, receipt]().
		RegisterNestedList(ByName[order]("Items"), ByName[receipt]("Lines"), inner)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{}, receipt{})
	})
	assert.False(t, pt.Failed(), "both lists nil should pass: %s", pt.Output())

	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, order{Items: []item{{SKU: "A"}}}, receipt{})
	})
	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "both nil or both non-nil")
}

func TestCustomMessages(t *testing.T) {
	t.Run("fixed message keeps the field annotation", func(t *testing.T) {
		acc := Between[order, receipt]().
			Register(ByName[order]("ID"), ByName[receipt]("ID"), WithMessage("Order and receipt must share an id"))

		pt := probe.Run(func(pt *probe.T) {
			acc.AssertAll(pt, order{ID: "A"}, receipt{ID: "B"})
		})

		require.True(t, pt.Failed())
		assert.Contains(t, pt.Output(), "Order and receipt must share an id")
		assert.Contains(t, pt.Output(), "source.ID")
	})

	t.Run("message func owns the whole message", func(t *testing.T) {
		acc := Between[order, receipt]().
			Register(ByName[order]("ID"), ByName[receipt]("ID"),
				WithMessageFunc(func(srcVal, dstVal any) string {
					return fmt.Sprintf("id drifted from %v to %v", srcVal, dstVal)
				}))

		pt := probe.Run(func(pt *probe.T) {
			acc.AssertAll(pt, order{ID: "A"}, receipt{ID: "B"})
		})

		require.True(t, pt.Failed())
		assert.Contains(t, pt.Output(), "id drifted from A to B")
		assert.NotContains(t, pt.Output(), "source.ID")
	})

	t.Run("field message func sees names and values", func(t *testing.T) {
		acc := Between[order, receipt]().
			Register(ByName[order]("ID"), ByName[receipt]("ID"),
				WithFieldMessageFunc(func(srcField string, srcVal any, dstField string, dstVal any) string {
					return fmt.Sprintf("%s=%v does not match %s=%v", srcField, srcVal, dstField, dstVal)
				}))

		pt := probe.Run(func(pt *probe.T) {
			acc.AssertAll(pt, order{ID: "A"}, receipt{ID: "B"})
		})

		require.True(t, pt.Failed())
		assert.Contains(t, pt.Output(), "ID=A does not match ID=B")
	})
}

func TestRegistrationMisusePanics(t *testing.T) {
	require.Panics(t, func() { F[order]("", func(order) any { return nil }) })
	require.Panics(t, func() { F[order]("ID", nil) })
	require.Panics(t, func() { WithConstraint(nil) })
	require.Panics(t, func() { WithMessage("") })
	require.Panics(t, func() { WithMessageFunc(nil) })
	require.Panics(t, func() {
		Between[order, receipt]().Register(Field[order]{}, ByName[receipt]("ID"))
	})
	require.Panics(t, func() {
		Between[order, receipt]().RegisterNested(ByName[order]("Data"), ByName[receipt]("Info"), nil)
	})
}

func TestJSONDocumentAccordance(t *testing.T) {
	src := []byte(`{"user":{"name":"Ada","age":36},"tags":[{"v":"x"},{"v":"y"}]}`)
	dst := []byte(`{"profile":{"fullName":"Ada","age":36},"labels":[{"w":"x"},{"w":"y"}]}`)

	innerUser := Between[[]byte, []byte]().
		Register(JSONField("name"), JSONField("fullName")).
		Register(JSONField("age"), JSONField("age"), WithConstraint(EquivalentToSource))
	innerTag := Between[[]byte, []byte]().
		Register(JSONField("v"), JSONField("w"))

	acc := Between[[]byte, []byte]().
		RegisterNested(JSONDoc("user"), JSONDoc("profile"), innerUser).
		RegisterNestedList(JSONList("tags"), JSONList("labels"), innerTag)

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, src, dst)
	})
	assert.False(t, pt.Failed(), pt.Output())

	dstBroken := []byte(`{"profile":{"fullName":"Ada","age":36},"labels":[{"w":"x"},{"w":"z"}]}`)
	pt = probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, src, dstBroken)
	})
	require.True(t, pt.Failed())
	assert.Contains(t, pt.Output(), "matching item at index 1")
}

func TestStructAgainstRowAccordance(t *testing.T) {
	row := map[string]any{"sku": "A-7", "qty": int64(3)}

	acc := Between[item, map[string]any]().
		Register(ByName[item]("SKU"), MapKey("sku")).
		Register(ByName[item]("Qty"), MapKey("qty"), WithConstraint(EquivalentToSource))

	pt := probe.Run(func(pt *probe.T) {
		acc.AssertAll(pt, item{SKU: "A-7", Qty: 3}, row)
	})
	assert.False(t, pt.Failed(), pt.Output())
}
