package kindeval

// Op enumerates the pure type-builder primitives a kind body is made of.
type Op uint8

const (
	OpInvalid Op = iota
	OpArg          // reference to an application argument by index
	OpType         // a literal type id
	OpBool         // literal constants
	OpChar
	OpInt
	OpStr
	OpWithField    // with_field(recv, name, fieldType)
	OpWithoutField // without_field(recv, name)
	OpApply        // application of another kind
	OpShapeSwitch  // branch on the shape of a type argument
)

// Shape is what a shape switch inspects: the outline of a type node, not its
// identity. ShapeEmptyRecord lets bodies special-case zero-sized payloads.
type Shape uint8

const (
	ShapeAny Shape = iota
	ShapeEmptyRecord
	ShapeRecord
	ShapeSum
	ShapePrim
	ShapeConst
	ShapeFloat
)

// ShapeCase pairs a shape with the body evaluated when the scrutinee
// matches it.
type ShapeCase struct {
	Shape Shape
	Body  *Expr
}

// Expr is one node of a kind body. Bodies are data: building one performs no
// evaluation and has no side effects.
type Expr struct {
	Op Op

	Arg  int   // OpArg
	Kind KindID // OpApply

	Bool bool
	Char rune
	Int  int64
	Str  string

	Type uint32 // OpType: raw OriginIdx of a pre-registered type

	Children []*Expr     // operands, in primitive order
	Cases    []ShapeCase // OpShapeSwitch
}

// Arg references the application argument with the given index.
func Arg(i int) *Expr {
	return &Expr{Op: OpArg, Arg: i}
}

// TypeRef references an already-registered type id.
func TypeRef(id uint32) *Expr {
	return &Expr{Op: OpType, Type: id}
}

// Str builds a string literal operand.
func Str(s string) *Expr {
	return &Expr{Op: OpStr, Str: s}
}

// Int builds an int literal operand.
func Int(v int64) *Expr {
	return &Expr{Op: OpInt, Int: v}
}

// Bool builds a bool literal operand.
func Bool(v bool) *Expr {
	return &Expr{Op: OpBool, Bool: v}
}

// Char builds a char literal operand.
func Char(v rune) *Expr {
	return &Expr{Op: OpChar, Char: v}
}

// WithField builds with_field(recv, name, fieldType): a record extended by
// one trailing field.
func WithField(recv, name, fieldType *Expr) *Expr {
	return &Expr{Op: OpWithField, Children: []*Expr{recv, name, fieldType}}
}

// WithoutField builds without_field(recv, name): a record with the named
// field filtered out.
func WithoutField(recv, name *Expr) *Expr {
	return &Expr{Op: OpWithoutField, Children: []*Expr{recv, name}}
}

// Apply builds an application of another kind.
func Apply(kind KindID, args ...*Expr) *Expr {
	return &Expr{Op: OpApply, Kind: kind, Children: args}
}

// ShapeSwitch builds a branch over the shape of the scrutinee expression.
// Cases are tried in order; a ShapeAny case matches everything.
func ShapeSwitch(scrutinee *Expr, cases ...ShapeCase) *Expr {
	return &Expr{Op: OpShapeSwitch, Children: []*Expr{scrutinee}, Cases: cases}
}
