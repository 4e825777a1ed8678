package types

import (
	"fmt"

	"fortio.org/safecast"

	"tern/internal/source"
)

// ConstInfo stores the value of a constant-literal type: the singleton type
// of one literal (the type of `15`, of `"z"`, of `true`). The primitive tag
// is the bridge to the matching unbounded primitive union.
type ConstInfo struct {
	Prim PrimTag
	Bool bool
	Char rune
	Int  int64
	Str  source.StringID
}

type constKey struct {
	prim PrimTag
	num  int64
	str  source.StringID
}

func (c ConstInfo) key() constKey {
	k := constKey{prim: c.Prim}
	switch c.Prim {
	case PrimBool:
		if c.Bool {
			k.num = 1
		}
	case PrimChar:
		k.num = int64(c.Char)
	case PrimInt:
		k.num = c.Int
	case PrimString:
		k.str = c.Str
	}
	return k
}

// InternConstBool returns the constant-literal type of a bool literal.
func (r *Registry) InternConstBool(v bool) OriginIdx {
	return r.internConst(ConstInfo{Prim: PrimBool, Bool: v})
}

// InternConstChar returns the constant-literal type of a char literal.
func (r *Registry) InternConstChar(v rune) OriginIdx {
	return r.internConst(ConstInfo{Prim: PrimChar, Char: v})
}

// InternConstInt returns the constant-literal type of an int literal.
func (r *Registry) InternConstInt(v int64) OriginIdx {
	return r.internConst(ConstInfo{Prim: PrimInt, Int: v})
}

// InternConstString returns the constant-literal type of a string literal.
// The value is identified by its interned StringID.
func (r *Registry) InternConstString(v source.StringID) OriginIdx {
	return r.internConst(ConstInfo{Prim: PrimString, Str: v})
}

// internConst deduplicates structurally: the literal 15 has exactly one type
// node per session no matter how many expressions mention it.
func (r *Registry) internConst(info ConstInfo) OriginIdx {
	key := info.key()
	if id, ok := r.constIndex[key]; ok {
		return id
	}
	r.consts = append(r.consts, info)
	slot, err := safecast.Conv[uint32](len(r.consts) - 1)
	if err != nil {
		panic(fmt.Errorf("const info overflow: %w", err))
	}
	id := r.internRaw(Node{Kind: NodeConst, Prim: info.Prim, Payload: slot})
	r.constIndex[key] = id
	return id
}

// ConstInfo returns the value carried by a constant-literal id.
func (r *Registry) ConstInfo(id OriginIdx) (ConstInfo, bool) {
	if id == NoOrigin {
		return ConstInfo{}, false
	}
	n, ok := r.Resolve(id)
	if !ok || n.Kind != NodeConst {
		return ConstInfo{}, false
	}
	if n.Payload == 0 || int(n.Payload) >= len(r.consts) {
		return ConstInfo{}, false
	}
	return r.consts[n.Payload], true
}
