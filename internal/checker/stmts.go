package checker

import (
	"fmt"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/types"
)

// checkStmt types one unit-level statement against the session's value
// scope. Lets extend the scope; a failed statement binds the erroneous
// sentinel so later uses stay silent.
func (s *Session) checkStmt(st *ast.Stmt, p ast.Pos) {
	switch st.Kind {
	case ast.StmtLet:
		s.checkLet(st.Let, p)
	case ast.StmtAssign:
		s.checkAssign(st.Assign, p)
	case ast.StmtExpr:
		s.checkExpr(st.Expr, s.values)
	}
}

func (s *Session) checkLet(let *ast.LetStmt, p ast.Pos) {
	got := s.checkExpr(&let.Value, s.values)

	bound := got
	if let.Type != nil {
		declared := s.resolveType(let.Type)
		if _, err := s.Reg.Widen(got, declared); err != nil {
			s.report(s.error(diag.TypMismatch, let.Value.Pos,
				fmt.Sprintf("%s does not fit the declared type %s",
					s.describe(got), s.describe(declared))))
			bound = types.Erroneous()
		} else {
			// The binding carries the declared wide set, not the
			// initializer's narrow one.
			bound = declared
		}
	}

	s.values = s.values.Bind(let.Name, Binding{
		Type:    bound,
		Mutable: let.Mutable,
		Decl:    s.span(p),
	})
}

func (s *Session) checkAssign(as *ast.AssignStmt, p ast.Pos) {
	got := s.checkExpr(&as.Value, s.values)

	b, ok := s.values.Lookup(as.Name)
	if !ok {
		s.report(s.error(diag.TypUnresolvedName, p,
			fmt.Sprintf("unknown name %s", as.Name)))
		return
	}
	if !b.Mutable {
		s.report(s.error(diag.TypAssignImmutable, p,
			fmt.Sprintf("%s is immutable", as.Name)).
			WithNote(b.Decl, "declared without mut here"))
		return
	}
	if _, err := s.Reg.Widen(got, b.Type); err != nil {
		s.report(s.error(diag.TypMismatch, as.Value.Pos,
			fmt.Sprintf("%s does not fit %s, declared as %s",
				s.describe(got), as.Name, s.describe(b.Type))))
	}
}
