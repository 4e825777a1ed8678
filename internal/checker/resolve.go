package checker

import (
	"fmt"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/kindeval"
	"tern/internal/types"
)

// resolveType resolves a type reference to the TypeSet it denotes. Failures
// are reported here and yield the erroneous sentinel set, which every
// consumer treats as already-diagnosed.
func (s *Session) resolveType(ref *ast.TypeRef) types.TypeSet {
	switch ref.Kind {
	case ast.RefUnion:
		out := types.TypeSet{}
		for i := range ref.Members {
			out = out.Union(s.resolveType(&ref.Members[i]))
		}
		return out
	default:
		id := s.resolveTypeID(ref)
		if id == types.NoOrigin {
			return types.Erroneous()
		}
		return s.setOf(id)
	}
}

// setOf is the set a single type id denotes in set position: a sum name
// stands for its member set, everything else for itself.
func (s *Session) setOf(id types.OriginIdx) types.TypeSet {
	canon := s.Reg.Canonical(id)
	if n, ok := s.Reg.Resolve(canon); ok && n.Kind == types.NodeSum {
		if members := s.Reg.SumMembers(canon); len(members) > 0 {
			return types.NewSet(members...)
		}
	}
	return types.NewSet(id)
}

// resolveTypeID resolves a reference that must denote a single type node.
// NoOrigin means the failure was already reported.
func (s *Session) resolveTypeID(ref *ast.TypeRef) types.OriginIdx {
	switch ref.Kind {
	case ast.RefNamed:
		id, ok := s.lookupTypeName(ref.Name)
		if !ok {
			s.report(s.error(diag.TypUnresolvedName, ref.Pos,
				fmt.Sprintf("unknown type %s", ref.Name)))
			return types.NoOrigin
		}
		return id

	case ast.RefConst:
		return s.internConstRef(ref.Const, ref.Pos)

	case ast.RefApply:
		return s.applyKindRef(ref)

	case ast.RefUnion:
		s.report(s.error(diag.TypNotAType, ref.Pos,
			"a union is not a single type here; declare a sum type instead"))
		return types.NoOrigin

	default:
		s.report(s.error(diag.TypNotAType, ref.Pos, "malformed type reference"))
		return types.NoOrigin
	}
}

func (s *Session) internConstRef(c *ast.ConstRef, p ast.Pos) types.OriginIdx {
	if c == nil {
		s.report(s.error(diag.TypNotAType, p, "malformed constant type"))
		return types.NoOrigin
	}
	switch c.Lit {
	case ast.LitBool:
		return s.Reg.InternConstBool(c.B)
	case ast.LitChar:
		return s.Reg.InternConstChar(c.C)
	case ast.LitInt:
		return s.Reg.InternConstInt(c.I)
	case ast.LitString:
		return s.Reg.InternConstString(s.Strs.Intern(c.S))
	default:
		// Floats have no canonical equality and form no constant types.
		s.report(s.error(diag.TypNotAType, p, "float literals do not form types"))
		return types.NoOrigin
	}
}

func (s *Session) applyKindRef(ref *ast.TypeRef) types.OriginIdx {
	if s.poisoned[ref.Name] {
		return types.NoOrigin // the declaration already failed
	}
	kid, ok := s.Kinds.ByName(s.Strs.Intern(ref.Name))
	if !ok {
		s.report(s.error(diag.TypUnknownKind, ref.Pos,
			fmt.Sprintf("unknown kind %s", ref.Name)))
		return types.NoOrigin
	}
	if decl, found := s.Kinds.Lookup(kid); !found || decl.Body == nil {
		return types.NoOrigin // declaration failed; already reported there
	}

	args := make([]kindeval.Value, 0, len(ref.Args))
	bad := false
	for i := range ref.Args {
		v, ok := s.kindArgValue(&ref.Args[i])
		if !ok {
			bad = true
			continue
		}
		args = append(args, v)
	}
	if bad {
		return types.NoOrigin
	}

	id, err := s.Eval.Apply(kid, args)
	if err != nil {
		s.reportEvalError(err, ref.Pos, ref.Name)
		return types.NoOrigin
	}
	return id
}

// kindArgValue turns one application argument into an evaluator value.
func (s *Session) kindArgValue(a *ast.KindArg) (kindeval.Value, bool) {
	switch {
	case a.Type != nil:
		id := s.resolveTypeID(a.Type)
		if id == types.NoOrigin {
			return kindeval.Value{}, false
		}
		return kindeval.TypeValue(id), true

	case a.Const != nil:
		switch a.Const.Lit {
		case ast.LitBool:
			return kindeval.BoolValue(a.Const.B), true
		case ast.LitChar:
			return kindeval.CharValue(a.Const.C), true
		case ast.LitInt:
			return kindeval.IntValue(a.Const.I), true
		case ast.LitString:
			return kindeval.StringValue(a.Const.S), true
		default:
			s.report(s.error(diag.TypBadKindArgument, a.Pos,
				"float literals cannot be kind arguments"))
			return kindeval.Value{}, false
		}

	default:
		// The front end marks runtime-dependent arguments this way.
		s.report(s.error(diag.TypImpureArgument, a.Pos,
			"kind arguments must be compile-time constants"))
		return kindeval.Value{}, false
	}
}

func (s *Session) reportEvalError(err error, p ast.Pos, kindName string) {
	ev, ok := err.(*kindeval.EvalError)
	if !ok {
		s.report(s.error(diag.TypBadKindArgument, p, err.Error()))
		return
	}
	switch ev.Kind {
	case kindeval.EvalErrArity:
		s.report(s.error(diag.TypKindArityMismatch, p,
			fmt.Sprintf("%s expects %d arguments, got %d", kindName, ev.Want, ev.Got)))
	case kindeval.EvalErrImpure:
		s.report(s.error(diag.TypImpureArgument, p,
			fmt.Sprintf("argument %d of %s is not a compile-time constant", ev.ArgIndex+1, kindName)))
	case kindeval.EvalErrNonTermination:
		s.report(s.error(diag.TypKindNonTermination, p,
			fmt.Sprintf("%s exceeded the kind recursion budget of %d", kindName, ev.Budget)))
	case kindeval.EvalErrUnknownKind:
		s.report(s.error(diag.TypUnknownKind, p,
			fmt.Sprintf("unknown kind %s", kindName)))
	case kindeval.EvalErrDuplicateField:
		s.report(s.error(diag.TypDuplicateFieldName, p,
			fmt.Sprintf("%s: %s", kindName, ev.Error())))
	default:
		// EvalErrBadArgument, EvalErrBadOperand
		s.report(s.error(diag.TypBadKindArgument, p,
			fmt.Sprintf("%s: %s", kindName, ev.Detail)))
	}
}
