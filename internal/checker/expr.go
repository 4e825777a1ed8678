package checker

import (
	"fmt"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/match"
	"tern/internal/types"
)

// checkExpr types one expression in the given scope and records its
// annotation. The erroneous sentinel set is returned for expressions whose
// type could not be established; the failure is reported exactly once, at
// the deepest site that caused it.
func (s *Session) checkExpr(e *ast.Expr, sc *Scope) types.TypeSet {
	set := s.typeExpr(e, sc)
	s.annots = append(s.annots, Annotation{
		Pos:  e.Pos,
		Set:  set,
		Text: s.describe(set),
	})
	return set
}

func (s *Session) typeExpr(e *ast.Expr, sc *Scope) types.TypeSet {
	switch e.Kind {
	case ast.ExprLit:
		return s.typeLit(e)
	case ast.ExprName:
		b, ok := sc.Lookup(e.Name)
		if !ok {
			s.report(s.error(diag.TypUnresolvedName, e.Pos,
				fmt.Sprintf("unknown name %s", e.Name)))
			return types.Erroneous()
		}
		return b.Type
	case ast.ExprCall:
		return s.typeCall(e, sc)
	case ast.ExprField:
		return s.typeField(e, sc)
	case ast.ExprSwitch:
		return s.typeSwitch(e, sc)
	default:
		s.report(s.error(diag.TypMismatch, e.Pos, "malformed expression"))
		return types.Erroneous()
	}
}

func (s *Session) typeLit(e *ast.Expr) types.TypeSet {
	switch e.Lit.Kind {
	case ast.LitBool:
		return types.NewSet(s.Reg.InternConstBool(e.Lit.B))
	case ast.LitChar:
		return types.NewSet(s.Reg.InternConstChar(e.Lit.C))
	case ast.LitInt:
		return types.NewSet(s.Reg.InternConstInt(e.Lit.I))
	case ast.LitString:
		return types.NewSet(s.Reg.InternConstString(s.Strs.Intern(e.Lit.S)))
	case ast.LitFloat:
		return types.NewSet(s.Reg.Builtins().Float)
	default:
		s.report(s.error(diag.TypMismatch, e.Pos, "malformed literal"))
		return types.Erroneous()
	}
}

// typeCall checks a record construction: the callee names a record type and
// each argument widens into the corresponding field's declared set.
func (s *Session) typeCall(e *ast.Expr, sc *Scope) types.TypeSet {
	callee := e.Call.Callee
	id, ok := s.lookupTypeName(callee)
	if !ok {
		if _, isValue := sc.Lookup(callee); isValue {
			s.report(s.error(diag.TypNotCallable, e.Pos,
				fmt.Sprintf("%s is a value, not a record constructor", callee)))
		} else {
			s.report(s.error(diag.TypUnresolvedName, e.Pos,
				fmt.Sprintf("unknown name %s", callee)))
		}
		s.checkArgsOnly(e.Call.Args, sc)
		return types.Erroneous()
	}

	canon := s.Reg.Canonical(id)
	n, resolved := s.Reg.Resolve(canon)
	if !resolved || n.Kind != types.NodeRecord {
		s.report(s.error(diag.TypNotCallable, e.Pos,
			fmt.Sprintf("%s is not a record type; only records are constructible", callee)))
		s.checkArgsOnly(e.Call.Args, sc)
		return types.Erroneous()
	}

	fields := s.Reg.RecordFields(canon)
	if len(e.Call.Args) != len(fields) {
		s.report(s.error(diag.TypCallArity, e.Pos,
			fmt.Sprintf("%s has %d fields, got %d arguments", callee, len(fields), len(e.Call.Args))))
		s.checkArgsOnly(e.Call.Args, sc)
		return types.NewSet(id)
	}

	for i := range e.Call.Args {
		arg := &e.Call.Args[i]
		got := s.checkExpr(arg, sc)
		if _, err := s.Reg.Widen(got, fields[i].Type); err != nil {
			fieldName, _ := s.Strs.Lookup(fields[i].Name)
			s.report(s.error(diag.TypMismatch, arg.Pos,
				fmt.Sprintf("field %s of %s expects %s, got %s",
					fieldName, callee, s.describe(fields[i].Type), s.describe(got))))
		}
	}
	return types.NewSet(id)
}

// checkArgsOnly types arguments for annotation coverage when the call
// itself already failed.
func (s *Session) checkArgsOnly(args []ast.Expr, sc *Scope) {
	for i := range args {
		s.checkExpr(&args[i], sc)
	}
}

func (s *Session) typeField(e *ast.Expr, sc *Scope) types.TypeSet {
	base := s.checkExpr(e.Field.Base, sc)
	if base.Erroneous() {
		return types.Erroneous()
	}
	if base.Len() != 1 {
		s.report(s.error(diag.TypMismatch, e.Pos,
			fmt.Sprintf("field access needs a single record value, got %s; narrow with a switch first",
				s.describe(base))))
		return types.Erroneous()
	}
	canon := s.Reg.Canonical(base[0])
	if n, ok := s.Reg.Resolve(canon); !ok || n.Kind != types.NodeRecord {
		s.report(s.error(diag.TypMismatch, e.Pos,
			fmt.Sprintf("%s is not a record; it has no fields", s.describe(base))))
		return types.Erroneous()
	}
	for _, f := range s.Reg.RecordFields(canon) {
		if name, ok := s.Strs.Lookup(f.Name); ok && name == e.Field.Field {
			return f.Type
		}
	}
	s.report(s.error(diag.TypUnresolvedName, e.Pos,
		fmt.Sprintf("%s has no field %s", s.describe(base), e.Field.Field)))
	return types.Erroneous()
}

// typeSwitch validates the arm set against the scrutinee and types every
// arm body with its capture narrowed to the subset the arm matches. The
// switch's own type is the union of the arm body types.
func (s *Session) typeSwitch(e *ast.Expr, sc *Scope) types.TypeSet {
	sw := e.Switch
	scrSet := s.checkExpr(sw.Scrutinee, sc)

	if scrSet.Erroneous() {
		// Still type the bodies so their own problems surface.
		for i := range sw.Arms {
			s.checkArmBody(&sw.Arms[i], sc, types.Erroneous())
		}
		return types.Erroneous()
	}

	arms := make([]match.Arm, 0, len(sw.Arms))
	for i := range sw.Arms {
		a := &sw.Arms[i]
		m := match.Arm{
			Wildcard: a.Wildcard,
			Capture:  s.Strs.Intern(a.Capture),
			Span:     s.span(a.Pos),
		}
		if !a.Wildcard && a.Pattern != nil {
			m.Pattern = s.resolveType(a.Pattern)
		}
		arms = append(arms, m)
	}

	outcomes, errs := match.Check(s.Reg, scrSet, arms)
	for _, me := range errs {
		s.reportMatchError(me, e.Pos)
	}

	result := types.TypeSet{}
	sawBody := false
	for i := range sw.Arms {
		binding := types.Erroneous()
		if outcomes != nil && !outcomes[i].Binding.Empty() {
			binding = outcomes[i].Binding
		}
		body := s.checkArmBody(&sw.Arms[i], sc, binding)
		if body.Erroneous() {
			continue
		}
		result = result.Union(body)
		sawBody = true
	}
	if !sawBody {
		return types.Erroneous()
	}
	return result
}

func (s *Session) checkArmBody(a *ast.SwitchArm, sc *Scope, binding types.TypeSet) types.TypeSet {
	inner := sc
	if a.Capture != "" {
		inner = sc.Bind(a.Capture, Binding{Type: binding, Decl: s.span(a.Pos)})
	}
	return s.checkExpr(a.Body, inner)
}

func (s *Session) reportMatchError(me *match.Error, switchPos ast.Pos) {
	sp := me.Span
	if sp.Empty() && sp.File == 0 {
		sp = s.span(switchPos)
	}
	switch me.Kind {
	case match.ErrUnknownVariant:
		s.report(diag.NewError(diag.TypUnknownVariant, sp,
			fmt.Sprintf("pattern names %s, which is not part of the scrutinee type",
				s.describe(me.Ids))))
	case match.ErrAmbiguousPattern:
		s.report(diag.NewError(diag.TypAmbiguousPattern, sp,
			fmt.Sprintf("pattern re-covers %s, already matched by an earlier arm",
				s.describe(me.Ids))))
	case match.ErrUnreachableArm:
		s.report(diag.NewError(diag.TypUnreachableArm, sp,
			"arm is unreachable; the wildcard above it already matches everything"))
	case match.ErrNonExhaustive:
		s.report(diag.NewError(diag.TypNonExhaustiveSwitch, sp,
			fmt.Sprintf("switch does not cover %s", s.describe(me.Missing))))
	case match.ErrUnsupportedScrutinee:
		s.report(diag.NewError(diag.TypUnsupportedScrutinee, sp,
			"float has no canonical equality; it cannot be switched on"))
	default:
		s.report(diag.NewError(diag.TypMismatch, sp, me.Error()))
	}
}
