package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores OriginIdx values for the types every session starts with.
type Builtins struct {
	Invalid OriginIdx
	Bool    OriginIdx
	Char    OriginIdx
	Int     OriginIdx
	String  OriginIdx
	Float   OriginIdx
}

// Registry is the append-only arena owning every type node of one checking
// session. Nodes are created during declaration or kind application and are
// never mutated or freed afterwards, so concurrent readers are safe once a
// node has been published.
type Registry struct {
	nodes    []Node
	builtins Builtins

	records []RecordInfo
	aliases []AliasInfo
	sums    []SumInfo
	consts  []ConstInfo

	constIndex map[constKey]OriginIdx
}

// NewRegistry constructs a registry seeded with the built-in primitives.
func NewRegistry() *Registry {
	r := &Registry{
		constIndex: make(map[constKey]OriginIdx, 64),
	}
	// Slot 0 of every side table is reserved as an invalid sentinel.
	r.records = append(r.records, RecordInfo{})
	r.aliases = append(r.aliases, AliasInfo{})
	r.sums = append(r.sums, SumInfo{})
	r.consts = append(r.consts, ConstInfo{})

	r.builtins.Invalid = r.internRaw(Node{Kind: NodeInvalid})
	r.builtins.Bool = r.internRaw(Node{Kind: NodePrim, Prim: PrimBool})
	r.builtins.Char = r.internRaw(Node{Kind: NodePrim, Prim: PrimChar})
	r.builtins.Int = r.internRaw(Node{Kind: NodePrim, Prim: PrimInt})
	r.builtins.String = r.internRaw(Node{Kind: NodePrim, Prim: PrimString})
	r.builtins.Float = r.internRaw(Node{Kind: NodeFloat})
	return r
}

// Builtins returns ids for the built-in types.
func (r *Registry) Builtins() Builtins {
	return r.builtins
}

// Prim returns the id of the primitive union for the given tag.
func (r *Registry) Prim(tag PrimTag) OriginIdx {
	switch tag {
	case PrimBool:
		return r.builtins.Bool
	case PrimChar:
		return r.builtins.Char
	case PrimInt:
		return r.builtins.Int
	case PrimString:
		return r.builtins.String
	default:
		return NoOrigin
	}
}

func (r *Registry) internRaw(n Node) OriginIdx {
	lenNodes, err := safecast.Conv[uint32](len(r.nodes))
	if err != nil {
		panic(fmt.Errorf("len(nodes) overflow: %w", err))
	}
	id := OriginIdx(lenNodes)
	r.nodes = append(r.nodes, n)
	return id
}

// Resolve returns the descriptor for an id issued by this registry. Ids are
// only handed out for nodes that exist, so failure means a foreign or
// corrupted id.
func (r *Registry) Resolve(id OriginIdx) (Node, bool) {
	if int(id) >= len(r.nodes) {
		return Node{}, false
	}
	return r.nodes[id], true
}

// MustResolve panics when id was not issued by this registry.
func (r *Registry) MustResolve(id OriginIdx) Node {
	n, ok := r.Resolve(id)
	if !ok {
		panic("types: invalid OriginIdx")
	}
	return n
}

// Len returns the number of nodes in the arena.
func (r *Registry) Len() int {
	return len(r.nodes)
}
