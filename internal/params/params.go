// Package params implements the simulated ROS parameter server used during
// launch interpretation.
//
// Values are cty.Value: a closed, dynamically-typed value system covering
// booleans, numbers, strings, lists, and string-keyed objects, recursively.
// Keys are always fully qualified ("/"-rooted) before they reach the store.
package params

import (
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Store holds the parameter state for a single interpreter session.
//
// There is no delete operation: once written, a value persists for the
// lifetime of the session. The zero value is not usable; construct with New.
type Store struct {
	contents map[string]cty.Value
}

// New returns an empty parameter store.
func New() *Store {
	return &Store{contents: make(map[string]cty.Value)}
}

// Get returns the value stored under a fully qualified name, or def if the
// name is absent. Supplying a default never writes it back to the store.
func (s *Store) Get(name string, def cty.Value) cty.Value {
	if v, ok := s.contents[name]; ok {
		return v
	}
	return def
}

// Set stores or overwrites a value under a fully qualified name.
func (s *Store) Set(name string, val cty.Value) {
	if !strings.HasPrefix(name, "/") {
		panic("params: name must be fully qualified: " + name)
	}
	s.contents[name] = val
}

// Contains reports whether a value is stored under the given name.
func (s *Store) Contains(name string) bool {
	_, ok := s.contents[name]
	return ok
}

// Names returns the stored parameter names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.contents))
	for name := range s.contents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
