package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"tern/internal/source"
)

// SumInfo stores metadata for a declared sum type. Member order is the
// declaration order after flattening and deduplication; lowering assigns
// tags from it.
type SumInfo struct {
	Name    source.StringID
	Decl    source.Span
	Members []OriginIdx
}

// RegisterSum allocates a sum node; members are set once the full variant
// list is known.
func (r *Registry) RegisterSum(name source.StringID, decl source.Span) OriginIdx {
	slot := r.appendSumInfo(SumInfo{Name: name, Decl: decl})
	return r.internRaw(Node{Kind: NodeSum, Payload: slot})
}

// SetSumMembers stores the flattened, deduplicated member list. Nested sums
// must be flattened by the caller (see FlattenMembers) before this point.
func (r *Registry) SetSumMembers(id OriginIdx, members []OriginIdx) {
	info := r.sumInfo(id)
	if info == nil {
		return
	}
	info.Members = slices.Clone(members)
}

// SumInfo returns metadata for the provided sum id.
func (r *Registry) SumInfo(id OriginIdx) (*SumInfo, bool) {
	info := r.sumInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// SumMembers returns a copy of the member ids in declaration order.
func (r *Registry) SumMembers(id OriginIdx) []OriginIdx {
	info := r.sumInfo(id)
	if info == nil || len(info.Members) == 0 {
		return nil
	}
	return slices.Clone(info.Members)
}

// FlattenMembers expands nested sums and drops duplicates while preserving
// first-occurrence order: A | (B | C) collapses to [A B C]. Alias links are
// chased so an alias of a sum flattens like the sum itself; the alias-chased
// id decides identity but the original id is kept in the output for
// single (non-sum) members.
func (r *Registry) FlattenMembers(members []OriginIdx) []OriginIdx {
	out := make([]OriginIdx, 0, len(members))
	seen := make(map[OriginIdx]struct{}, len(members))
	visiting := make(map[OriginIdx]struct{}, 4)
	var walk func(id OriginIdx)
	walk = func(id OriginIdx) {
		canon := r.Canonical(id)
		if n, ok := r.Resolve(canon); ok && n.Kind == NodeSum {
			// Self-referential sums terminate the walk instead of looping.
			if _, busy := visiting[canon]; busy {
				return
			}
			visiting[canon] = struct{}{}
			for _, m := range r.SumMembers(canon) {
				walk(m)
			}
			delete(visiting, canon)
			return
		}
		if _, dup := seen[canon]; dup {
			return
		}
		seen[canon] = struct{}{}
		out = append(out, id)
	}
	for _, m := range members {
		walk(m)
	}
	return out
}

func (r *Registry) sumInfo(id OriginIdx) *SumInfo {
	if id == NoOrigin {
		return nil
	}
	n, ok := r.Resolve(id)
	if !ok || n.Kind != NodeSum {
		return nil
	}
	if n.Payload == 0 || int(n.Payload) >= len(r.sums) {
		return nil
	}
	return &r.sums[n.Payload]
}

func (r *Registry) appendSumInfo(info SumInfo) uint32 {
	r.sums = append(r.sums, SumInfo{
		Name:    info.Name,
		Decl:    info.Decl,
		Members: slices.Clone(info.Members),
	})
	slot, err := safecast.Conv[uint32](len(r.sums) - 1)
	if err != nil {
		panic(fmt.Errorf("sum info overflow: %w", err))
	}
	return slot
}
