package match

import (
	"fmt"

	"tern/internal/source"
	"tern/internal/types"
)

// ErrKind enumerates switch-checking failures.
type ErrKind uint8

const (
	// ErrUnknownVariant: a pattern names an id outside the scrutinee set.
	ErrUnknownVariant ErrKind = iota + 1
	// ErrAmbiguousPattern: a pattern re-covers an id matched earlier.
	ErrAmbiguousPattern
	// ErrUnreachableArm: the arm sits after a wildcard.
	ErrUnreachableArm
	// ErrNonExhaustive: explicit arms leave part of the scrutinee unmatched.
	ErrNonExhaustive
	// ErrUnsupportedScrutinee: the scrutinee contains a type without
	// canonical equality (float); exhaustiveness cannot be checked.
	ErrUnsupportedScrutinee
)

// Error is one structured switch-checking failure.
type Error struct {
	Kind    ErrKind
	Arm     int // index of the offending arm, where applicable
	Span    source.Span
	Ids     types.TypeSet // offending pattern ids / overlap
	Missing types.TypeSet // for ErrNonExhaustive
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrUnknownVariant:
		return fmt.Sprintf("arm %d names variants outside the scrutinee type: %v", e.Arm, e.Ids)
	case ErrAmbiguousPattern:
		return fmt.Sprintf("arm %d re-covers variants matched earlier: %v", e.Arm, e.Ids)
	case ErrUnreachableArm:
		return fmt.Sprintf("arm %d is unreachable after a wildcard", e.Arm)
	case ErrNonExhaustive:
		return fmt.Sprintf("switch is not exhaustive; missing %v", e.Missing)
	case ErrUnsupportedScrutinee:
		return "switch scrutinee cannot be checked for exhaustiveness"
	default:
		return fmt.Sprintf("match error kind=%d", e.Kind)
	}
}
