package kindeval

import (
	"fmt"

	"fortio.org/safecast"

	"tern/internal/source"
)

// KindID identifies a declared kind inside a Table.
type KindID uint32

// NoKindID marks the absence of a kind.
const NoKindID KindID = 0

// Decl is a kind declaration: a fixed-arity signature over argument sorts
// and a pure body expression tree.
type Decl struct {
	Name   source.StringID
	Decl   source.Span
	Params []Sort
	Body   *Expr
}

// Table owns every kind declared in a session.
type Table struct {
	decls []Decl
	index map[source.StringID]KindID
}

func NewTable() *Table {
	return &Table{
		decls: []Decl{{}}, // reserve 0 as invalid sentinel
		index: make(map[source.StringID]KindID, 8),
	}
}

// Register adds a kind declaration and returns its id. Redeclaring a name
// returns the existing id and false.
func (t *Table) Register(decl Decl) (KindID, bool) {
	if id, ok := t.index[decl.Name]; ok {
		return id, false
	}
	lenDecls, err := safecast.Conv[uint32](len(t.decls))
	if err != nil {
		panic(fmt.Errorf("kind table overflow: %w", err))
	}
	id := KindID(lenDecls)
	t.decls = append(t.decls, decl)
	t.index[decl.Name] = id
	return id, true
}

// Lookup returns the declaration for an id.
func (t *Table) Lookup(id KindID) (*Decl, bool) {
	if id == NoKindID || int(id) >= len(t.decls) {
		return nil, false
	}
	return &t.decls[id], true
}

// ByName resolves a kind name to its id.
func (t *Table) ByName(name source.StringID) (KindID, bool) {
	id, ok := t.index[name]
	return id, ok
}

// Arity returns the declared arity of a kind.
func (t *Table) Arity(id KindID) int {
	decl, ok := t.Lookup(id)
	if !ok {
		return 0
	}
	return len(decl.Params)
}
