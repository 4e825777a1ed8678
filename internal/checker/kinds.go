package checker

import (
	"fmt"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/kindeval"
	"tern/internal/source"
)

// declareKind registers the kind's signature so applications and other kind
// bodies can reference it before its own body is built.
func (s *Session) declareKind(d *ast.Decl, nameID source.StringID, sp source.Span) {
	params := make([]kindeval.Sort, 0, len(d.KindFn.Params))
	for i := range d.KindFn.Params {
		params = append(params, sortOf(d.KindFn.Params[i].Sort))
	}
	s.Kinds.Register(kindeval.Decl{Name: nameID, Decl: sp, Params: params})
}

// checkKindBody builds the evaluator body for a kind declared earlier. A
// body that fails to build poisons the kind: applications of it stay
// silent, the declaration site already carries the diagnostic.
func (s *Session) checkKindBody(d *ast.Decl) {
	kid, ok := s.Kinds.ByName(s.Strs.Intern(d.Name))
	if !ok {
		return
	}
	body, ok := s.buildKindExpr(&d.KindFn.Body, len(d.KindFn.Params))
	if !ok {
		s.poisoned[d.Name] = true
		return
	}
	decl, _ := s.Kinds.Lookup(kid)
	decl.Body = body
}

func (s *Session) buildKindExpr(e *ast.KindExpr, arity int) (*kindeval.Expr, bool) {
	switch e.Op {
	case ast.KArg:
		if int(e.Arg) >= arity {
			s.report(s.error(diag.TypBadKindArgument, e.Pos,
				fmt.Sprintf("argument index %d is out of range for arity %d", e.Arg, arity)))
			return nil, false
		}
		return kindeval.Arg(int(e.Arg)), true

	case ast.KType:
		id, ok := s.lookupTypeName(e.Name)
		if !ok {
			s.report(s.error(diag.TypUnresolvedName, e.Pos,
				fmt.Sprintf("unknown type %s", e.Name)))
			return nil, false
		}
		return kindeval.TypeRef(uint32(id)), true

	case ast.KConst:
		return s.buildKindConst(e)

	case ast.KWithField:
		ops, ok := s.buildKindOperands(e, 3, arity)
		if !ok {
			return nil, false
		}
		return kindeval.WithField(ops[0], ops[1], ops[2]), true

	case ast.KWithoutField:
		ops, ok := s.buildKindOperands(e, 2, arity)
		if !ok {
			return nil, false
		}
		return kindeval.WithoutField(ops[0], ops[1]), true

	case ast.KApply:
		kid, found := s.Kinds.ByName(s.Strs.Intern(e.Name))
		if !found {
			s.report(s.error(diag.TypUnknownKind, e.Pos,
				fmt.Sprintf("unknown kind %s", e.Name)))
			return nil, false
		}
		args := make([]*kindeval.Expr, 0, len(e.Operands))
		for i := range e.Operands {
			arg, ok := s.buildKindExpr(&e.Operands[i], arity)
			if !ok {
				return nil, false
			}
			args = append(args, arg)
		}
		return kindeval.Apply(kid, args...), true

	case ast.KShapeSwitch:
		if len(e.Operands) != 1 {
			s.report(s.error(diag.TypBadKindArgument, e.Pos, "shape switch needs one scrutinee"))
			return nil, false
		}
		scrutinee, ok := s.buildKindExpr(&e.Operands[0], arity)
		if !ok {
			return nil, false
		}
		cases := make([]kindeval.ShapeCase, 0, len(e.Cases))
		for i := range e.Cases {
			body, ok := s.buildKindExpr(&e.Cases[i].Body, arity)
			if !ok {
				return nil, false
			}
			cases = append(cases, kindeval.ShapeCase{Shape: shapeOf(e.Cases[i].Shape), Body: body})
		}
		return kindeval.ShapeSwitch(scrutinee, cases...), true

	default:
		s.report(s.error(diag.TypBadKindArgument, e.Pos, "malformed kind body"))
		return nil, false
	}
}

func (s *Session) buildKindConst(e *ast.KindExpr) (*kindeval.Expr, bool) {
	if e.Const == nil {
		s.report(s.error(diag.TypBadKindArgument, e.Pos, "malformed kind constant"))
		return nil, false
	}
	switch e.Const.Lit {
	case ast.LitBool:
		return kindeval.Bool(e.Const.B), true
	case ast.LitChar:
		return kindeval.Char(e.Const.C), true
	case ast.LitInt:
		return kindeval.Int(e.Const.I), true
	case ast.LitString:
		return kindeval.Str(e.Const.S), true
	default:
		s.report(s.error(diag.TypBadKindArgument, e.Pos,
			"float literals cannot appear in kind bodies"))
		return nil, false
	}
}

func (s *Session) buildKindOperands(e *ast.KindExpr, want, arity int) ([]*kindeval.Expr, bool) {
	if len(e.Operands) != want {
		s.report(s.error(diag.TypBadKindArgument, e.Pos,
			fmt.Sprintf("expected %d operands, got %d", want, len(e.Operands))))
		return nil, false
	}
	out := make([]*kindeval.Expr, 0, want)
	for i := range e.Operands {
		op, ok := s.buildKindExpr(&e.Operands[i], arity)
		if !ok {
			return nil, false
		}
		out = append(out, op)
	}
	return out, true
}

func sortOf(s ast.KindSort) kindeval.Sort {
	switch s {
	case ast.SortBool:
		return kindeval.SortBool
	case ast.SortChar:
		return kindeval.SortChar
	case ast.SortInt:
		return kindeval.SortInt
	case ast.SortString:
		return kindeval.SortString
	default:
		return kindeval.SortType
	}
}

func shapeOf(sh ast.ShapeKind) kindeval.Shape {
	switch sh {
	case ast.ShapeEmptyRecord:
		return kindeval.ShapeEmptyRecord
	case ast.ShapeRecord:
		return kindeval.ShapeRecord
	case ast.ShapeSum:
		return kindeval.ShapeSum
	case ast.ShapePrim:
		return kindeval.ShapePrim
	case ast.ShapeConst:
		return kindeval.ShapeConst
	case ast.ShapeFloat:
		return kindeval.ShapeFloat
	default:
		return kindeval.ShapeAny
	}
}

