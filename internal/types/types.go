package types

import "fmt"

// OriginIdx uniquely identifies a type node inside the Registry.
// Identity comparisons between types compare OriginIdx values, never
// structure.
type OriginIdx uint32

// NoOrigin marks the absence of a type. It is also the id of the Invalid
// sentinel node used to annotate erroneous expressions.
const NoOrigin OriginIdx = 0

// NodeKind enumerates all supported kinds of type nodes.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeRecord
	NodeAlias
	NodeSum
	NodePrim  // a built-in unbounded primitive union (bool/char/int/string)
	NodeConst // the singleton type of one literal value
	NodeFloat // unbounded, no canonical equality; never a switch scrutinee
)

func (k NodeKind) String() string {
	switch k {
	case NodeInvalid:
		return "invalid"
	case NodeRecord:
		return "record"
	case NodeAlias:
		return "alias"
	case NodeSum:
		return "sum"
	case NodePrim:
		return "primitive"
	case NodeConst:
		return "constant"
	case NodeFloat:
		return "float"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// PrimTag names one of the four primitive unions.
type PrimTag uint8

const (
	PrimBool PrimTag = iota
	PrimChar
	PrimInt
	PrimString
)

func (p PrimTag) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimInt:
		return "int"
	case PrimString:
		return "string"
	default:
		return fmt.Sprintf("PrimTag(%d)", p)
	}
}

// Node is a compact descriptor for any type node. Record, alias, sum and
// constant nodes address their metadata through Payload slots in the
// Registry's side tables.
type Node struct {
	Kind    NodeKind
	Prim    PrimTag // for NodePrim and NodeConst
	Payload uint32
}
