package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tern/internal/source"
)

// AliasInfo stores metadata for an alias type. Aliases are transparent for
// every check: an alias and its target are interchangeable everywhere.
type AliasInfo struct {
	Name   source.StringID
	Decl   source.Span
	Target OriginIdx
}

// AliasCycleError reports an alias chain that loops back on itself.
// Aliases must form a DAG.
type AliasCycleError struct {
	Start OriginIdx
	Cycle []OriginIdx
}

func (e *AliasCycleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("alias cycle at type#%d", e.Start)
	}
	parts := make([]string, 0, len(e.Cycle))
	for _, id := range e.Cycle {
		parts = append(parts, fmt.Sprintf("type#%d", id))
	}
	return fmt.Sprintf("alias cycle: %s", strings.Join(parts, " -> "))
}

// RegisterAlias allocates an alias node; the target is set once resolved.
func (r *Registry) RegisterAlias(name source.StringID, decl source.Span) OriginIdx {
	slot := r.appendAliasInfo(AliasInfo{Name: name, Decl: decl})
	return r.internRaw(Node{Kind: NodeAlias, Payload: slot})
}

// SetAliasTarget stores the aliased target type.
func (r *Registry) SetAliasTarget(id, target OriginIdx) {
	info := r.aliasInfo(id)
	if info == nil {
		return
	}
	info.Target = target
}

// AliasInfo returns metadata for the provided alias id.
func (r *Registry) AliasInfo(id OriginIdx) (*AliasInfo, bool) {
	info := r.aliasInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// AliasChase follows alias links until it reaches a non-alias node. The walk
// keeps a visited set bounded by registry size and fails on a cycle.
func (r *Registry) AliasChase(id OriginIdx) (OriginIdx, error) {
	seen := make(map[OriginIdx]int, 4)
	var chain []OriginIdx
	cur := id
	for {
		n, ok := r.Resolve(cur)
		if !ok || n.Kind != NodeAlias {
			return cur, nil
		}
		if at, dup := seen[cur]; dup {
			cycle := append([]OriginIdx(nil), chain[at:]...)
			cycle = append(cycle, cur)
			return NoOrigin, &AliasCycleError{Start: id, Cycle: cycle}
		}
		seen[cur] = len(chain)
		chain = append(chain, cur)
		info := r.aliasInfo(cur)
		if info == nil || info.Target == NoOrigin {
			// Unresolved alias behaves like its own node until the target
			// declaration has been checked.
			return cur, nil
		}
		cur = info.Target
	}
}

// Canonical resolves id through alias links, returning id itself when the
// chain is cyclic or unresolved. Use AliasChase when the cycle must surface.
func (r *Registry) Canonical(id OriginIdx) OriginIdx {
	out, err := r.AliasChase(id)
	if err != nil || out == NoOrigin {
		return id
	}
	return out
}

func (r *Registry) aliasInfo(id OriginIdx) *AliasInfo {
	if id == NoOrigin {
		return nil
	}
	n, ok := r.Resolve(id)
	if !ok || n.Kind != NodeAlias {
		return nil
	}
	if n.Payload == 0 || int(n.Payload) >= len(r.aliases) {
		return nil
	}
	return &r.aliases[n.Payload]
}

func (r *Registry) appendAliasInfo(info AliasInfo) uint32 {
	r.aliases = append(r.aliases, info)
	slot, err := safecast.Conv[uint32](len(r.aliases) - 1)
	if err != nil {
		panic(fmt.Errorf("alias info overflow: %w", err))
	}
	return slot
}
