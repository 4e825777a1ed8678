package types

import (
	"fmt"
	"strings"
)

// Erroneous returns the sentinel set annotating an expression whose type
// could not be established. It widens to anything and raises no further
// diagnostics, so one error does not cascade.
func Erroneous() TypeSet {
	return TypeSet{NoOrigin}
}

// Erroneous reports whether the set carries the error sentinel.
func (s TypeSet) Erroneous() bool {
	return len(s) > 0 && s[0] == NoOrigin
}

// MismatchError reports a failed widening: found is not a subset of
// expected; missing lists the members of found with no home in expected.
type MismatchError struct {
	Found    TypeSet
	Expected TypeSet
	Missing  TypeSet
}

func (e *MismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(e.Missing))
	for _, id := range e.Missing {
		parts = append(parts, fmt.Sprintf("type#%d", id))
	}
	return fmt.Sprintf("type mismatch: %s not covered by the expected set", strings.Join(parts, ", "))
}

// IsSubset reports whether every member of a is also a member of b.
// Membership is alias-transparent, and a constant-literal member of a counts
// as present when b contains the matching primitive union (the literal
// bridge). Reflexivity and transitivity follow from the membership
// definition; the bridge preserves them because widening always yields
// exactly the target set.
func (r *Registry) IsSubset(a, b TypeSet) bool {
	return len(r.missingFrom(a, b)) == 0
}

// SetsEqual is mutual containment.
func (r *Registry) SetsEqual(a, b TypeSet) bool {
	return r.IsSubset(a, b) && r.IsSubset(b, a)
}

// Widen replaces a with the strictly larger set to, when a is known to fit
// within it. On success the result is exactly to: widening never removes
// members and never produces any other set. Erroneous operands widen
// silently to stop error cascades.
func (r *Registry) Widen(a, to TypeSet) (TypeSet, error) {
	if a.Erroneous() || to.Erroneous() {
		return to, nil
	}
	missing := r.missingFrom(a, to)
	if len(missing) > 0 {
		return nil, &MismatchError{Found: a.Clone(), Expected: to.Clone(), Missing: missing}
	}
	return to, nil
}

// missingFrom returns the members of a that have no home in b.
func (r *Registry) missingFrom(a, b TypeSet) TypeSet {
	var missing TypeSet
	for _, id := range a {
		if !r.memberOf(id, b) {
			missing = append(missing, id)
		}
	}
	return missing
}

func (r *Registry) memberOf(id OriginIdx, b TypeSet) bool {
	canon := r.Canonical(id)
	for _, bid := range b {
		if r.Canonical(bid) == canon {
			return true
		}
	}
	// The literal bridge: a constant literal is a member of any set holding
	// its parent primitive union.
	n, ok := r.Resolve(canon)
	if !ok || n.Kind != NodeConst {
		return false
	}
	parent := r.Prim(n.Prim)
	for _, bid := range b {
		if r.Canonical(bid) == parent {
			return true
		}
	}
	return false
}
