package probe

import (
	"fmt"
	"strings"
)

// T is a minimal testing target that records failures instead of ending a
// test. It satisfies the TestingT interfaces of testify and of the accord
// packages, so an assertion run can be inspected (or rendered by the CLI)
// after the fact.
type T struct {
	failed   bool
	messages []string
}

// New returns an empty probe target.
func New() *T {
	return &T{}
}

// Helper is a no-op; it exists so helpers that mark themselves via
// t.Helper() accept a probe target.
func (t *T) Helper() {}

// Errorf records the formatted failure message and marks the probe failed.
func (t *T) Errorf(format string, args ...any) {
	t.failed = true
	t.messages = append(t.messages, fmt.Sprintf(format, args...))
}

// FailNow marks the probe failed and aborts the function running under Run.
// Outside Run it panics, matching how testify treats a missing runner.
func (t *T) FailNow() {
	t.failed = true
	panic(abort{})
}

// Failed reports whether any failure was recorded.
func (t *T) Failed() bool {
	return t.failed
}

// Messages returns the recorded failure messages in order.
func (t *T) Messages() []string {
	return t.messages
}

// Output returns all recorded messages joined by newlines.
func (t *T) Output() string {
	return strings.Join(t.messages, "\n")
}

// abort is the sentinel FailNow panics with; Run swallows it.
type abort struct{}

// Run executes fn against a fresh probe target and returns the target once
// fn finishes or fails fast. Panics other than the FailNow sentinel are
// re-raised.
func Run(fn func(t *T)) *T {
	t := New()
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(abort); !ok {
					panic(r)
				}
			}
		}()
		fn(t)
	}()
	return t
}
