package checker

import (
	"github.com/benbjohnson/immutable"

	"tern/internal/source"
	"tern/internal/types"
)

// Binding is one name in a value scope.
type Binding struct {
	Type    types.TypeSet
	Mutable bool
	Decl    source.Span
}

// Scope is a persistent map of value bindings. Binding returns a new scope
// and leaves the receiver untouched, so switch arms and nested blocks can
// extend the environment without copying it.
type Scope struct {
	m *immutable.Map
}

func NewScope() *Scope {
	return &Scope{m: immutable.NewMap(nil)}
}

// Lookup resolves a name.
func (s *Scope) Lookup(name string) (Binding, bool) {
	v, ok := s.m.Get(name)
	if !ok {
		return Binding{}, false
	}
	return v.(Binding), true
}

// Bind adds or shadows a name.
func (s *Scope) Bind(name string, b Binding) *Scope {
	return &Scope{m: s.m.Set(name, b)}
}

// Len reports the number of visible bindings.
func (s *Scope) Len() int {
	return s.m.Len()
}
