package ast

// LitKind tags literal expressions and constant-literal types.
type LitKind uint8

const (
	LitBool LitKind = iota + 1
	LitChar
	LitInt
	LitString
	LitFloat
)

// ExprKind discriminates expressions.
type ExprKind uint8

const (
	ExprLit ExprKind = iota + 1
	ExprName
	ExprCall
	ExprSwitch
	ExprField
)

// Expr is one expression node. Exactly the payload named by Kind is
// populated.
type Expr struct {
	Kind ExprKind
	Pos  Pos

	Lit    *LitExpr
	Name   string      // ExprName
	Call   *CallExpr   // ExprCall
	Switch *SwitchExpr // ExprSwitch
	Field  *FieldExpr  // ExprField
}

// LitExpr is a literal value. Float literals carry their text since float
// types have no canonical constant form.
type LitExpr struct {
	Kind LitKind
	B    bool
	C    rune
	I    int64
	S    string
	F    float64
}

// CallExpr applies a named callable to its arguments.
type CallExpr struct {
	Callee string
	Args   []Expr
}

// FieldExpr projects one field out of a record value.
type FieldExpr struct {
	Base  *Expr
	Field string
}

// SwitchExpr matches a scrutinee against ordered type patterns.
type SwitchExpr struct {
	Scrutinee *Expr
	Arms      []SwitchArm
}

// SwitchArm is one arm. A wildcard arm has no pattern; a capture, when
// present, binds the narrowed value inside the body.
type SwitchArm struct {
	Pattern  *TypeRef // nil for wildcard
	Wildcard bool
	Capture  string // empty when nothing is bound
	Body     *Expr
	Pos      Pos
}
