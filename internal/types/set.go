package types

import (
	"slices"
)

// TypeSet is the type of every expression and binding: a deduplicated,
// sorted collection of type node ids. One element behaves like a nominal
// type; several, like a union. The empty set is the bottom/never type.
type TypeSet []OriginIdx

// NewSet builds a normalized set from the given ids.
func NewSet(ids ...OriginIdx) TypeSet {
	s := slices.Clone(ids)
	slices.Sort(s)
	return slices.Compact(s)
}

func (s TypeSet) Len() int {
	return len(s)
}

func (s TypeSet) Empty() bool {
	return len(s) == 0
}

func (s TypeSet) Contains(id OriginIdx) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}

func (s TypeSet) Clone() TypeSet {
	return slices.Clone(s)
}

// SameIDs reports raw id-level equality. Semantic equality, with aliases
// and the literal bridge applied, is Registry.SetsEqual.
func (s TypeSet) SameIDs(other TypeSet) bool {
	return slices.Equal(s, other)
}

// Union returns the normalized union of both sets.
func (s TypeSet) Union(other TypeSet) TypeSet {
	out := make(TypeSet, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Diff returns the members of s not present in other.
func (s TypeSet) Diff(other TypeSet) TypeSet {
	out := make(TypeSet, 0, len(s))
	for _, id := range s {
		if !other.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// Intersect returns the members present in both sets.
func (s TypeSet) Intersect(other TypeSet) TypeSet {
	out := make(TypeSet, 0, min(len(s), len(other)))
	for _, id := range s {
		if other.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
