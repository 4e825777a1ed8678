package layout

import (
	"fmt"
	"strings"

	"tern/internal/types"
)

// ErrKind enumerates layout failures.
type ErrKind uint8

const (
	// ErrRecursiveUnsized: a type contains itself by value.
	ErrRecursiveUnsized ErrKind = iota + 1
	// ErrNotASum: LowerSum was called on a non-sum, non-primitive id.
	ErrNotASum
)

// Error reports a failed layout computation.
type Error struct {
	Kind  ErrKind
	Type  types.OriginIdx
	Cycle []types.OriginIdx // for ErrRecursiveUnsized
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrRecursiveUnsized:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive value type has infinite size (type#%d)", e.Type)
		}
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("recursive value type has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	case ErrNotASum:
		return fmt.Sprintf("type#%d is not a sum type", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
