package fixture

import (
	"fmt"
	"regexp"
	"strings"
)

// Func produces one fixture value from string arguments.
type Func func(args []string) (string, error)

// Registry maps function names to fixture functions. A new registry carries
// the default set; Register adds or replaces entries.
type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["uuid"] = fnUUID
	r.funcs["now"] = fnNow
	r.funcs["timestamp"] = fnTimestamp
	r.funcs["timestampMs"] = fnTimestampMs
	r.funcs["date"] = fnDate
	r.funcs["randomInt"] = fnRandomInt
	r.funcs["randomString"] = fnRandomString
	r.funcs["randomAlphanumeric"] = fnRandomAlphanumeric
	r.funcs["randomEmail"] = fnRandomEmail
}

// Register adds a function under the given name, replacing any previous
// one. An empty name or nil function is misuse and panics.
func (r *Registry) Register(name string, fn Func) {
	if name == "" {
		panic("fixture: function name must not be empty")
	}
	if fn == nil {
		panic("fixture: nil function")
	}
	r.funcs[name] = fn
}

// Has reports whether a function is registered under the given name.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

var callPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates a single "name(args)" expression. A bare name is treated
// as a zero-argument call.
func (r *Registry) Call(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	m := callPattern.FindStringSubmatch(expr)
	if m == nil {
		if fn, ok := r.funcs[expr]; ok {
			return fn(nil)
		}
		return "", fmt.Errorf("fixture: %q is not a function call", expr)
	}

	name, argsStr := m[1], m[2]
	fn, ok := r.funcs[name]
	if !ok {
		return "", fmt.Errorf("fixture: unknown function %q", name)
	}

	var args []string
	if argsStr != "" {
		args = parseArgs(argsStr)
	}
	return fn(args)
}

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolve replaces every {{fn(args)}} placeholder in s with the function's
// value. The first failing placeholder aborts resolution.
func (r *Registry) Resolve(s string) (string, error) {
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		expr := match[2 : len(match)-2]
		v, err := r.Call(expr)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// parseArgs splits a comma-separated argument list, honoring single and
// double quotes.
func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !inQuote && (ch == '"' || ch == '\'') {
			inQuote = true
			quoteChar = ch
		} else if inQuote && ch == quoteChar {
			inQuote = false
			quoteChar = 0
		} else if !inQuote && ch == ',' {
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		} else {
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}

	return args
}

var defaultRegistry = NewRegistry()

// Resolve resolves placeholders against the default registry.
func Resolve(s string) (string, error) {
	return defaultRegistry.Resolve(s)
}

// Register adds a function to the default registry.
func Register(name string, fn Func) {
	defaultRegistry.Register(name, fn)
}
