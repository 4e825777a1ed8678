package checker

import (
	"fmt"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/layout"
	"tern/internal/source"
	"tern/internal/types"
)

// Annotation records the TypeSet established for one expression, by its
// position in the unit source.
type Annotation struct {
	Pos  ast.Pos
	Set  types.TypeSet
	Text string
}

// SumArtifact is the lowered form of one declared sum, exported to the
// back end. TagNames aligns with Layout.Tags so consumers never need the
// session's registry to name a member.
type SumArtifact struct {
	Name     string
	Type     types.OriginIdx
	Layout   *layout.SumLayout
	TagNames []string
}

// Result is everything one unit check produces. Files is the session's
// file set; renderers resolve diagnostic spans against it.
type Result struct {
	Unit        string
	Passed      bool
	Annotations []Annotation
	Sums        []SumArtifact
	Diagnostics []diag.Diagnostic
	Files       *source.FileSet
}

// finalizeLayouts lowers every declared sum and sizes every declared
// record, in declaration order. Lowering failures become diagnostics at the
// declaration site; a sum that fails to lower is left out of the artifact.
func (s *Session) finalizeLayouts() []SumArtifact {
	out := make([]SumArtifact, 0, len(s.sumNames))
	for _, name := range s.sumNames {
		id := s.typeNames[name]
		l, err := s.Layout.LowerSum(id)
		if err != nil {
			s.reportLayoutError(err, name)
			continue
		}
		names := make([]string, 0, len(l.Tags))
		for _, t := range l.Tags {
			names = append(names, types.Describe(s.Reg, s.Strs, t.Member))
		}
		out = append(out, SumArtifact{Name: name, Type: id, Layout: l, TagNames: names})
	}
	for _, name := range s.recordNames {
		if _, err := s.Layout.ValueLayoutOf(s.typeNames[name]); err != nil {
			s.reportLayoutError(err, name)
		}
	}
	return out
}

func (s *Session) reportLayoutError(err error, name string) {
	sp := s.typeSpans[name]
	le, ok := err.(*layout.Error)
	if !ok {
		s.report(diag.NewError(diag.TypRecursiveValueType, sp, err.Error()))
		return
	}
	switch le.Kind {
	case layout.ErrRecursiveUnsized:
		d := diag.NewError(diag.TypRecursiveValueType, sp,
			fmt.Sprintf("%s contains itself by value and has no finite size", name))
		if len(le.Cycle) > 0 {
			d = d.WithNote(sp, "cycle: "+s.describeCycle(le.Cycle))
		}
		s.report(d)
	default:
		s.report(diag.NewError(diag.TypRecursiveValueType, sp, err.Error()))
	}
}

func (s *Session) describeCycle(cycle []types.OriginIdx) string {
	out := ""
	for i, id := range cycle {
		if i > 0 {
			out += " contains "
		}
		out += types.Describe(s.Reg, s.Strs, id)
	}
	return out
}
