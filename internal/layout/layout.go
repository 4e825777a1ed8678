// Package layout lowers types to their runtime representation. Sum types
// become tagged unions: a discriminant plus a payload region sized for the
// largest member, overlapping, never concatenated. The primitive unions get
// special-cased discriminants since their member sets are unbounded.
package layout

import (
	"tern/internal/types"
)

// Discriminant selects how a lowered union identifies its active member.
type Discriminant uint8

const (
	// DiscTag: a dense integer tag assigned from declaration order.
	DiscTag Discriminant = iota
	// DiscBool: the boolean value is its own two-valued discriminant.
	DiscBool
	// DiscScalar: the value itself discriminates (int, char code point).
	DiscScalar
	// DiscStringHash: a 64-bit content hash with byte-wise fallback.
	DiscStringHash
)

func (d Discriminant) String() string {
	switch d {
	case DiscTag:
		return "tag"
	case DiscBool:
		return "bool"
	case DiscScalar:
		return "scalar"
	case DiscStringHash:
		return "string-hash"
	default:
		return "unknown"
	}
}

// TagEntry maps one sum member to its tag value.
type TagEntry struct {
	Member types.OriginIdx
	Tag    uint32
}

// SumLayout is the lowered form of a sum type or primitive union.
type SumLayout struct {
	Disc Discriminant
	Tags []TagEntry // DiscTag only; declaration order

	TagSize       int // bytes; 0 when the value discriminates itself
	TagAlign      int
	PayloadSize   int
	PayloadAlign  int
	PayloadOffset int

	Size  int
	Align int
}

// TagOf looks up a member's tag. The tag is a pure function of the member's
// position in the declaration-ordered, deduplicated member list.
func (l *SumLayout) TagOf(member types.OriginIdx) (uint32, bool) {
	for _, e := range l.Tags {
		if e.Member == member {
			return e.Tag, true
		}
	}
	return 0, false
}

// ValueLayout is the size and alignment of one value representation.
type ValueLayout struct {
	Size  int
	Align int
}

// Engine computes and caches layouts for one registry and target.
type Engine struct {
	Target Target
	Types  *types.Registry

	sums   map[types.OriginIdx]*SumLayout
	values map[types.OriginIdx]ValueLayout
	strs   *StringTable
}

// New creates a layout engine. The engine caches by OriginIdx, so
// re-lowering an identical declaration is idempotent.
func New(target Target, reg *types.Registry) *Engine {
	return &Engine{
		Target: target,
		Types:  reg,
		sums:   make(map[types.OriginIdx]*SumLayout, 16),
		values: make(map[types.OriginIdx]ValueLayout, 64),
		strs:   NewStringTable(),
	}
}

// Strings returns the engine's string tag table, shared by every
// DiscStringHash union of the session.
func (e *Engine) Strings() *StringTable {
	return e.strs
}

// tagWidth returns the smallest discriminant width holding n values.
func tagWidth(n int) int {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	default:
		return 4
	}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}
