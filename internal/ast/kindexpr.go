package ast

// KindOp discriminates kind body expressions.
type KindOp uint8

const (
	// KArg references a kind parameter by index.
	KArg KindOp = iota + 1
	// KType references a type by name.
	KType
	// KConst is a scalar literal.
	KConst
	// KWithField extends a record with one field.
	KWithField
	// KWithoutField removes one field from a record.
	KWithoutField
	// KApply calls another kind.
	KApply
	// KShapeSwitch branches on the shape of a type operand.
	KShapeSwitch
)

// KindExpr is one node of a kind body. The tree is pure: every operand is
// itself a KindExpr, and evaluation can only read the registry.
type KindExpr struct {
	Op  KindOp
	Pos Pos

	Arg   uint32    // KArg
	Name  string    // KType, KApply (kind name), KWithField/KWithoutField (field name source)
	Const *ConstRef // KConst

	Operands []KindExpr  // KWithField (base, name, type), KWithoutField (base, name), KApply (args)
	Cases    []ShapeCase // KShapeSwitch; Operands[0] is the scrutinee
}

// ShapeKind classifies a type operand for shape switching.
type ShapeKind uint8

const (
	ShapeAny ShapeKind = iota + 1
	ShapeEmptyRecord
	ShapeRecord
	ShapeSum
	ShapePrim
	ShapeConst
	ShapeFloat
)

// ShapeCase is one branch of a shape switch. ShapeAny matches everything
// and must come last when present.
type ShapeCase struct {
	Shape ShapeKind
	Body  KindExpr
	Pos   Pos
}
