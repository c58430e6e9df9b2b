// Package taskfile loads and validates the declarative task document.
//
// The document is immutable after load: tasks, helpers and declared
// variables are read-only to every other component. Task declaration order
// is execution order.
package taskfile

import (
	"regexp"
	"strings"

	"taskrunner/internal/core"
)

// Document is the root of a parsed taskfile.
type Document struct {
	// Information is free-form text shown once at startup, if present.
	Information string

	// Variables are the declared variables in declaration order. They seed
	// the runtime variable store.
	Variables []VariableDecl

	// Helpers are the reusable command templates, keyed by name.
	Helpers map[string]Helper

	// Tasks is the ordered task sequence.
	Tasks []Task
}

// VariableDecl is one declared variable.
type VariableDecl struct {
	Name  string
	Value core.Value
}

// RunSpec is the tagged run variant, decided at load time.
//
// A YAML string becomes a shell command; a YAML sequence becomes an argv
// command executed without shell interpretation. A zero RunSpec means the
// task exists purely to display text.
type RunSpec struct {
	Shell string
	Argv  []string
}

// IsZero reports whether no command was declared.
func (r RunSpec) IsZero() bool { return r.Shell == "" && len(r.Argv) == 0 }

// IsShell reports whether the command runs through a shell.
func (r RunSpec) IsShell() bool { return len(r.Argv) == 0 }

// EachSpec is a task's each-source: either a variable reference (resolved
// against the store at run time) or an inline list of items.
type EachSpec struct {
	Ref   string
	Items []string
}

// IsZero reports whether no each-source was declared.
func (e EachSpec) IsZero() bool { return e.Ref == "" && e.Items == nil }

// InputPrompt is a task's require_input setting.
type InputPrompt struct {
	Required bool
	// Message is the prompt to display. Empty means the default prompt.
	Message string
}

// PrereqRef is one parsed helper invocation, "helpers.name(arg)".
type PrereqRef struct {
	Helper string
	Args   []string
	Raw    string
}

// Task is one named unit of work.
type Task struct {
	Name          string
	Text          string
	Run           RunSpec
	Success       int
	Each          EachSpec
	ShowOutput    bool
	CheckPattern  string
	Check         *regexp.Regexp
	RequireInput  InputPrompt
	Cwd           string
	Prerequisites []PrereqRef
	OnSuccess     *PrereqRef
	OnFailure     *PrereqRef
}

// Helper is a named, reusable command template. "{}" placeholders are
// filled positionally with the caller's subject arguments.
type Helper struct {
	Name    string
	Run     string
	Text    string
	Shell   bool
	Success int
}

// prereqPattern matches one "helpers.name" or "helpers.name(args)" call.
var prereqPattern = regexp.MustCompile(`helpers\.(\w+)(?:\(([^)]*)\))?`)

// ParsePrereqs parses the space-separated prerequisite string of a task
// into ordered helper references. Tokens that do not use the helpers.
// qualifier are ignored, matching the original call syntax.
func ParsePrereqs(s string) []PrereqRef {
	matches := prereqPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]PrereqRef, 0, len(matches))
	for _, m := range matches {
		ref := PrereqRef{Helper: m[1], Raw: m[0]}
		if fields := strings.Fields(m[2]); len(fields) > 0 {
			ref.Args = fields
		}
		refs = append(refs, ref)
	}
	return refs
}
