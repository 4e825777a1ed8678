package ast

// DeclKind discriminates top-level declarations.
type DeclKind uint8

const (
	DeclRecord DeclKind = iota + 1
	DeclAlias
	DeclSum
	DeclKindFn
)

// Decl is one top-level declaration. Exactly the payload named by Kind
// is populated.
type Decl struct {
	Kind DeclKind
	Name string
	Pos  Pos

	Record *RecordDecl
	Alias  *AliasDecl
	Sum    *SumDecl
	KindFn *KindDecl
}

// RecordDecl declares a nominal record. An empty field list is the unit
// type.
type RecordDecl struct {
	Fields []FieldDecl
}

// FieldDecl is one record field with its declared type.
type FieldDecl struct {
	Name string
	Type TypeRef
	Pos  Pos
}

// AliasDecl declares a transparent alias for its target.
type AliasDecl struct {
	Target TypeRef
}

// SumDecl declares a sum over the listed members, in source order.
// Nested unions are flattened by the checker, not here.
type SumDecl struct {
	Members []TypeRef
}

// KindDecl declares a compile-time type function: a parameter list of
// sorts and a pure body expression.
type KindDecl struct {
	Params []KindParam
	Body   KindExpr
}

// KindParam is one kind parameter. Sort values mirror the evaluator's
// argument sorts.
type KindParam struct {
	Name string
	Sort KindSort
	Pos  Pos
}

// KindSort is the compile-time sort of a kind argument.
type KindSort uint8

const (
	SortType KindSort = iota + 1
	SortBool
	SortChar
	SortInt
	SortString
)
