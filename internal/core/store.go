package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUndefinedVariable is returned when substitution references a variable
// that does not exist in the store at that point of the run.
var ErrUndefinedVariable = errors.New("undefined variable")

// Store is the runtime variable table.
//
// It is seeded from the document's variables section and mutated only by the
// orchestrator between task boundaries: captured task outputs and user input
// are written here under "<task>_output". The store never persists across
// runs.
type Store struct {
	values map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

// Set stores a value under name, overwriting any previous value.
func (s *Store) Set(name string, v Value) {
	s.values[name] = v
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Resolve looks up a dotted-path reference. The leading "variables."
// qualifier is accepted and stripped; a bare name resolves directly.
func (s *Store) Resolve(path string) (Value, error) {
	name := strings.TrimPrefix(path, "variables.")
	v, ok := s.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUndefinedVariable, name)
	}
	return v, nil
}

// Names returns the defined variable names. Used by tests to compare store
// contents across runs.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for n := range s.values {
		names = append(names, n)
	}
	return names
}

// Snapshot returns a copy of the full mapping.
func (s *Store) Snapshot() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for n, v := range s.values {
		out[n] = v
	}
	return out
}
