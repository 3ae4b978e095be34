package accord

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

const innerMappingLabel = "[Inner Mapping]"

// separator between an outer context and an inner failure message.
var innerMappingRule = strings.Repeat("-", 80)

const (
	defaultEqualMessage  = "Values are expected to be equal"
	defaultNestedMessage = "Values are expected to be in accordance"
	defaultListMessage   = "Lists are expected to be in accordance item by item"
)

// decorate appends the source/destination field annotation to a base
// message.
func decorate(base, srcField string, srcVal any, dstField string, dstVal any) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n  source.")
	b.WriteString(srcField)
	b.WriteString(": ")
	b.WriteString(renderValue(srcVal))
	b.WriteString("\n  destination.")
	b.WriteString(dstField)
	b.WriteString(": ")
	b.WriteString(renderValue(dstVal))
	return b.String()
}

// chain prefixes a message with its enclosing context, separated by a rule
// and the inner-mapping label. Contexts accumulate outside-in across
// nesting levels.
func chain(context, msg string) string {
	if context == "" {
		return msg
	}
	return context + "\n" + innerMappingRule + "\n" + innerMappingLabel + "\n" + msg
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

const maxRenderedLen = 120

// renderValue formats a value for a failure message. Composite values are
// rendered through spew and truncated, strings are quoted, raw JSON is
// shown as-is.
func renderValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	var s string
	switch val := v.(type) {
	case string:
		s = strconv.Quote(val)
	case []byte:
		s = string(val)
	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Ptr:
			s = spew.Sprintf("%#v", v)
		default:
			s = fmt.Sprintf("%v", v)
		}
	}
	if len(s) > maxRenderedLen {
		s = s[:maxRenderedLen] + "..."
	}
	return s
}
