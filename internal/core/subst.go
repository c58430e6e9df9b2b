package core

import (
	"fmt"
	"regexp"
	"strings"
)

// varPattern matches a "variables.<identifier>" reference inside a command
// template.
var varPattern = regexp.MustCompile(`variables\.([A-Za-z0-9_]+)`)

// Substitute replaces every "variables.<name>" reference in template with
// the store's current value, using the per-kind conversion contract.
//
// Substitution is single-pass: replaced text is literal and is never
// re-scanned for further references. The first undefined reference aborts
// with ErrUndefinedVariable.
func Substitute(template string, store *Store) (string, error) {
	var missing string
	out := varPattern.ReplaceAllStringFunc(template, func(ref string) string {
		name := varPattern.FindStringSubmatch(ref)[1]
		v, ok := store.Get(name)
		if !ok {
			if missing == "" {
				missing = name
			}
			return ref
		}
		return v.CommandString()
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %q", ErrUndefinedVariable, missing)
	}
	return out, nil
}

// SubstituteBestEffort replaces every defined reference and leaves
// undefined ones in place instead of failing. Dry runs use this so that a
// command referencing a not-yet-captured task output still prints.
func SubstituteBestEffort(template string, store *Store) string {
	return varPattern.ReplaceAllStringFunc(template, func(ref string) string {
		name := varPattern.FindStringSubmatch(ref)[1]
		v, ok := store.Get(name)
		if !ok {
			return ref
		}
		return v.CommandString()
	})
}

// SubstituteArgv substitutes every element of an argv-form command.
func SubstituteArgv(argv []string, store *Store) ([]string, error) {
	out := make([]string, len(argv))
	for i, arg := range argv {
		resolved, err := Substitute(arg, store)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// Format performs positional placeholder formatting: each "{}" in template
// is replaced by the next argument, in order. Placeholders beyond the
// argument count are left as-is.
//
// This is the second, simpler mechanism used by each-expansions and helper
// calls; it composes with Substitute, which always runs first.
func Format(template string, args ...string) string {
	out := template
	for _, arg := range args {
		if !strings.Contains(out, "{}") {
			break
		}
		out = strings.Replace(out, "{}", arg, 1)
	}
	return out
}
