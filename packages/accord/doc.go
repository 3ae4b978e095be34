// Package accord asserts that two differently-shaped values agree
// field-by-field.
//
// A test declares an ordered set of accordances between a source type S and
// a destination type D, then evaluates them against concrete pairs:
//
//	acc := accord.Between[Order, Receipt]().
//		RegisterNilCheck().
//		Register(accord.ByName[Order]("Progress"), accord.ByName[Receipt]("Remaining"),
//			accord.WithConstraint(func(v any) accord.Constraint {
//				return accord.EqualTo(100 - v.(int))
//			})).
//		RegisterMatchingFields()
//	acc.AssertAll(t, order, receipt)
//
// Supported rule kinds:
//   - Register: one source field against one destination field
//   - RegisterNested: recurse into an inner accordance set for a pair of
//     nested objects
//   - RegisterNestedList: element-wise recursion for a pair of lists
//   - RegisterMatchingFields: auto-pair same-name, same-type simple fields
//
// Rules run in registration order and stop at the first violation. Failure
// messages name both sides as source.<field> and destination.<field>; nested
// failures chain the enclosing context above an [Inner Mapping] block.
package accord
