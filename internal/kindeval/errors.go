package kindeval

import "fmt"

// EvalErrKind enumerates the ways a kind application can fail. Every one of
// them is a static, user-visible failure, never a crash.
type EvalErrKind uint8

const (
	// EvalErrArity: wrong number of application arguments.
	EvalErrArity EvalErrKind = iota + 1
	// EvalErrImpure: an argument is not a compile-time constant.
	EvalErrImpure
	// EvalErrBadArgument: an argument's sort does not match the signature.
	EvalErrBadArgument
	// EvalErrNonTermination: the recursion budget was exhausted.
	EvalErrNonTermination
	// EvalErrBadOperand: a body primitive was applied to the wrong shape
	// (with_field on a non-record, a non-string field name, ...).
	EvalErrBadOperand
	// EvalErrDuplicateField: with_field would shadow an existing field.
	EvalErrDuplicateField
	// EvalErrUnknownKind: the applied kind id is not in the table.
	EvalErrUnknownKind
)

// EvalError is the structured failure of one kind application.
type EvalError struct {
	Kind     EvalErrKind
	KindID   KindID
	ArgIndex int    // for EvalErrImpure / EvalErrBadArgument
	Want     int    // for EvalErrArity: declared arity
	Got      int    // for EvalErrArity: provided argument count
	Budget   int    // for EvalErrNonTermination
	Detail   string // free-form context for operand errors
}

func (e *EvalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case EvalErrArity:
		return fmt.Sprintf("kind#%d expects %d arguments, got %d", e.KindID, e.Want, e.Got)
	case EvalErrImpure:
		return fmt.Sprintf("kind#%d argument %d is not a compile-time constant", e.KindID, e.ArgIndex)
	case EvalErrBadArgument:
		return fmt.Sprintf("kind#%d argument %d has the wrong sort: %s", e.KindID, e.ArgIndex, e.Detail)
	case EvalErrNonTermination:
		return fmt.Sprintf("kind#%d evaluation exceeded the recursion budget of %d", e.KindID, e.Budget)
	case EvalErrBadOperand:
		return fmt.Sprintf("kind#%d: %s", e.KindID, e.Detail)
	case EvalErrDuplicateField:
		return fmt.Sprintf("kind#%d: with_field duplicates field %s", e.KindID, e.Detail)
	case EvalErrUnknownKind:
		return fmt.Sprintf("unknown kind#%d", e.KindID)
	default:
		return fmt.Sprintf("kind eval error kind=%d", e.Kind)
	}
}
