// Package ast defines the serialized typed-syntax units the front end
// hands to the checker. A unit is self-contained: it carries its own
// source path and text so diagnostics can be rendered without the front
// end present. Node positions are byte offsets into that text.
package ast

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// UnitSchema is bumped whenever the wire format changes shape.
const UnitSchema uint16 = 2

// Unit is one checkable compilation unit.
type Unit struct {
	Schema uint16

	Name       string // unit name from the manifest
	SourcePath string // original path, for diagnostics
	Source     []byte // normalized source text

	Imports []Import
	Decls   []Decl
	Stmts   []Stmt
}

// Import names an external unit whose exports this unit consumes. The
// exports themselves are injected by the driver, never re-checked here.
type Import struct {
	Unit string
	Pos  Pos
}

// DecodeUnit reads one unit and validates its schema.
func DecodeUnit(r io.Reader) (*Unit, error) {
	var u Unit
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode unit: %w", err)
	}
	if u.Schema != UnitSchema {
		return nil, fmt.Errorf("unit schema %d, want %d", u.Schema, UnitSchema)
	}
	return &u, nil
}

// EncodeUnit writes the unit with the current schema stamped in.
func EncodeUnit(w io.Writer, u *Unit) error {
	u.Schema = UnitSchema
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(u); err != nil {
		return fmt.Errorf("encode unit: %w", err)
	}
	return nil
}
