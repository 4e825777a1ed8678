package ast

// StmtKind discriminates unit-level statements.
type StmtKind uint8

const (
	StmtLet StmtKind = iota + 1
	StmtAssign
	StmtExpr
)

// Stmt is one statement. Exactly the payload named by Kind is populated.
type Stmt struct {
	Kind StmtKind
	Pos  Pos

	Let    *LetStmt
	Assign *AssignStmt
	Expr   *Expr
}

// LetStmt binds a name. A declared type, when present, becomes the
// binding's wide type; otherwise the initializer's type is used as-is.
type LetStmt struct {
	Name    string
	Mutable bool
	Type    *TypeRef // nil when inferred
	Value   Expr
}

// AssignStmt stores a new value into an existing mutable binding.
type AssignStmt struct {
	Name  string
	Value Expr
}
