// Package core defines the variable model, substitution engine and command
// executor shared by the task engine.
package core

import "strings"

// ValueKind discriminates the three shapes a variable can take.
type ValueKind int

const (
	// KindScalar is a single-line string value.
	KindScalar ValueKind = iota

	// KindList is an ordered sequence of strings.
	KindList

	// KindText is multi-line text, kept verbatim.
	KindText
)

// Value is a variable value with an explicit kind.
//
// The kind decides how the value converts to a string when substituted into
// a command, and how it is iterated by an each-expansion. There is no
// implicit stringification anywhere else.
type Value struct {
	kind ValueKind
	str  string
	list []string
}

// Scalar returns a single-line string value.
func Scalar(s string) Value { return Value{kind: KindScalar, str: s} }

// List returns an ordered sequence value.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Text returns a multi-line text value, kept verbatim.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// CommandString converts the value for substitution into a command string.
//
// Conversion contract:
//   - scalar: the literal string
//   - list:   items joined with a single space
//   - text:   the text verbatim, newlines included
func (v Value) CommandString() string {
	if v.kind == KindList {
		return strings.Join(v.list, " ")
	}
	return v.str
}

// Items returns the iteration view of the value, used by each-expansions.
//
// A list yields its items. Text yields its non-empty lines (a captured task
// output iterates line by line). A scalar yields itself once. An empty
// value yields no items.
func (v Value) Items() []string {
	switch v.kind {
	case KindList:
		return append([]string(nil), v.list...)
	case KindText:
		var items []string
		for _, line := range strings.Split(v.str, "\n") {
			if strings.TrimSpace(line) != "" {
				items = append(items, line)
			}
		}
		return items
	default:
		if v.str == "" {
			return nil
		}
		return []string{v.str}
	}
}

// String implements fmt.Stringer using the command conversion contract.
func (v Value) String() string { return v.CommandString() }
