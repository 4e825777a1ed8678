package ast

// TypeRefKind discriminates type references.
type TypeRefKind uint8

const (
	// RefNamed: a declared or imported type, by name.
	RefNamed TypeRefKind = iota + 1
	// RefUnion: an inline union of the listed members.
	RefUnion
	// RefConst: a constant-literal type.
	RefConst
	// RefApply: a kind application producing a type.
	RefApply
)

// TypeRef is a syntactic reference to a type. Resolution to registry ids
// happens in the checker.
type TypeRef struct {
	Kind TypeRefKind
	Pos  Pos

	Name    string    // RefNamed, RefApply (kind name)
	Members []TypeRef // RefUnion
	Const   *ConstRef // RefConst
	Args    []KindArg // RefApply
}

// ConstRef is a constant-literal type: the literal's primitive tag plus
// its value.
type ConstRef struct {
	Lit LitKind
	B   bool
	C   rune
	I   int64
	S   string
}

// KindArg is one argument of a kind application. Type arguments pass a
// TypeRef; scalar arguments pass a literal.
type KindArg struct {
	Type  *TypeRef  // nil for scalar arguments
	Const *ConstRef // nil for type arguments
	Pos   Pos
}
