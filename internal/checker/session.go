// Package checker runs the per-unit checking session: it resolves
// declarations into registry nodes, types every statement and expression,
// validates switches, and lowers declared sums. One session owns one
// registry and one diagnostic bag; sessions never share mutable state.
package checker

import (
	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/kindeval"
	"tern/internal/layout"
	"tern/internal/source"
	"tern/internal/types"
)

// Options configures a session.
type Options struct {
	// KindDepth is the recursion budget for kind bodies. Zero selects
	// kindeval.DefaultBudget.
	KindDepth int
	// MaxDiagnostics caps the bag. Zero selects 100.
	MaxDiagnostics int
	// Target sets pointer size and alignment for lowering.
	Target layout.Target
}

// Session is the state of one unit check.
type Session struct {
	Reg    *types.Registry
	Strs   *source.Interner
	Files  *source.FileSet
	Bag    *diag.Bag
	Kinds  *kindeval.Table
	Eval   *kindeval.Evaluator
	Layout *layout.Engine

	file source.FileID

	typeNames map[string]types.OriginIdx
	typeSpans map[string]source.Span
	poisoned  map[string]bool // kinds whose bodies failed to build

	// declaration order, for deterministic finalization
	sumNames    []string
	recordNames []string

	values *Scope
	annots []Annotation
}

// NewSession builds a fresh session. Imports are injected afterwards via
// ImportType and ImportValue, before CheckUnit runs.
func NewSession(opts Options) *Session {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	if opts.Target.PtrSize == 0 {
		opts.Target = layout.X86_64LinuxGNU()
	}
	reg := types.NewRegistry()
	strs := source.NewInterner()
	table := kindeval.NewTable()
	return &Session{
		Reg:       reg,
		Strs:      strs,
		Files:     source.NewFileSet(),
		Bag:       diag.NewBag(opts.MaxDiagnostics),
		Kinds:     table,
		Eval:      kindeval.New(reg, strs, table, opts.KindDepth),
		Layout:    layout.New(opts.Target, reg),
		typeNames: make(map[string]types.OriginIdx, 16),
		typeSpans: make(map[string]source.Span, 16),
		poisoned:  make(map[string]bool),
		values:    NewScope(),
	}
}

// ImportType makes an externally checked type visible under name. Imported
// types are opaque here: they are never re-checked.
func (s *Session) ImportType(name string, id types.OriginIdx) {
	s.typeNames[name] = id
}

// ImportValue binds an externally checked export in the unit's value scope.
func (s *Session) ImportValue(name string, set types.TypeSet) {
	s.values = s.values.Bind(name, Binding{Type: set})
}

// ImportDecls injects another unit's type declarations as opaque nominal
// types. Records, aliases, and sums all surface as fieldless records: the
// importing unit may name them but never look inside. Kind functions are
// not exported. Of two imports with the same name the first wins, and a
// name the unit declares itself shadows any import.
func (s *Session) ImportDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch d.Kind {
		case ast.DeclRecord, ast.DeclAlias, ast.DeclSum:
			if _, ok := s.typeNames[d.Name]; ok {
				continue
			}
			ext := s.Reg.RegisterRecord(s.Strs.Intern(d.Name), source.Span{})
			s.Reg.SetRecordFields(ext, nil)
			s.ImportType(d.Name, ext)
		}
	}
}

func (s *Session) span(p ast.Pos) source.Span {
	return source.Span{File: s.file, Start: p.Start, End: p.End}
}

func (s *Session) describe(set types.TypeSet) string {
	return types.DescribeSet(s.Reg, s.Strs, set)
}

func (s *Session) error(code diag.Code, p ast.Pos, msg string) diag.Diagnostic {
	return diag.NewError(code, s.span(p), msg)
}

func (s *Session) report(d diag.Diagnostic) {
	s.Bag.Add(d)
}
