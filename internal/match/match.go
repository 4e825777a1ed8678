// Package match validates and lowers the arm set of a switch expression
// against the scrutinee's TypeSet. This is the only construct with
// flow-sensitive narrowing: each arm's capture is bound to the subset the
// arm matches, and the checker proves the arms partition the scrutinee set
// exactly.
package match

import (
	"tern/internal/source"
	"tern/internal/types"
)

// Arm is one switch arm as delivered by the front end: either an explicit
// pattern set or the wildcard, plus an optional capture binding.
type Arm struct {
	Pattern  types.TypeSet
	Wildcard bool
	Capture  source.StringID
	Span     source.Span
}

// Outcome is the lowered form of one arm. Matched is the subset of the
// scrutinee the arm consumes (expressed in the scrutinee's own ids);
// Binding is the TypeSet the arm's capture is narrowed to.
type Outcome struct {
	Matched types.TypeSet
	Binding types.TypeSet
}

// Check processes arms in declaration order against scrutinee set s.
// It returns one Outcome per arm (zero-valued for arms that errored) and
// every error found; checking continues past individual bad arms so a
// single switch reports all its problems at once.
func Check(reg *types.Registry, s types.TypeSet, arms []Arm) ([]Outcome, []*Error) {
	var errs []*Error

	// Exhaustiveness over a domain without canonical equality cannot be
	// checked; reject before looking at any arm.
	for _, id := range s {
		if n, ok := reg.Resolve(reg.Canonical(id)); ok && n.Kind == types.NodeFloat {
			return nil, []*Error{{Kind: ErrUnsupportedScrutinee, Ids: types.NewSet(id)}}
		}
	}

	// canon maps the alias-chased form of every scrutinee member back to
	// the representative id used in s.
	canon := make(map[types.OriginIdx]types.OriginIdx, len(s))
	for _, id := range s {
		canon[reg.Canonical(id)] = id
	}

	outcomes := make([]Outcome, len(arms))
	remaining := s.Clone()
	covered := types.TypeSet{} // canonical ids matched by earlier explicit arms
	wildcardAt := -1

	for i, arm := range arms {
		if wildcardAt >= 0 {
			errs = append(errs, &Error{Kind: ErrUnreachableArm, Arm: i, Span: arm.Span})
			continue
		}
		if arm.Wildcard {
			// The wildcard matches exactly what is left at this point,
			// never a fixed declared set.
			outcomes[i] = Outcome{Matched: remaining.Clone(), Binding: remaining.Clone()}
			remaining = types.TypeSet{}
			wildcardAt = i
			continue
		}

		matched, unknown, bridged := resolvePattern(reg, arm.Pattern, canon)
		if len(unknown) > 0 {
			errs = append(errs, &Error{Kind: ErrUnknownVariant, Arm: i, Span: arm.Span, Ids: unknown})
			continue
		}
		if overlap := matched.Intersect(covered).Union(bridged.Intersect(covered)); !overlap.Empty() {
			errs = append(errs, &Error{Kind: ErrAmbiguousPattern, Arm: i, Span: arm.Span, Ids: overlap})
			continue
		}
		outcomes[i] = Outcome{
			Matched: mapToScrutinee(matched, canon),
			Binding: arm.Pattern.Clone(),
		}
		remaining = remaining.Diff(mapToScrutinee(matched, canon))
		covered = covered.Union(matched).Union(bridged)
	}

	if !remaining.Empty() && wildcardAt < 0 {
		errs = append(errs, &Error{Kind: ErrNonExhaustive, Missing: remaining.Clone()})
	}
	return outcomes, errs
}

// resolvePattern splits a pattern into canonical scrutinee members, ids the
// scrutinee does not contain, and constant literals admitted through the
// literal bridge (they match at runtime but consume no variant).
func resolvePattern(reg *types.Registry, pattern types.TypeSet, canon map[types.OriginIdx]types.OriginIdx) (matched, unknown, bridged types.TypeSet) {
	for _, p := range pattern {
		c := reg.Canonical(p)
		if _, ok := canon[c]; ok {
			matched = append(matched, c)
			continue
		}
		if n, ok := reg.Resolve(c); ok && n.Kind == types.NodeConst {
			parent := reg.Prim(n.Prim)
			if _, ok := canon[reg.Canonical(parent)]; ok {
				bridged = append(bridged, c)
				continue
			}
		}
		unknown = append(unknown, p)
	}
	return types.NewSet(matched...), types.NewSet(unknown...), types.NewSet(bridged...)
}

func mapToScrutinee(canonicalIds types.TypeSet, canon map[types.OriginIdx]types.OriginIdx) types.TypeSet {
	out := make(types.TypeSet, 0, len(canonicalIds))
	for _, c := range canonicalIds {
		out = append(out, canon[c])
	}
	return types.NewSet(out...)
}
