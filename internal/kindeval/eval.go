// Package kindeval evaluates kinds: pure, memoized compile-time functions
// that synthesize new type nodes from constant arguments.
//
// Evaluation is deterministic and referentially transparent: identical
// (KindID, argument values) pairs always resolve to the identical OriginIdx.
// The memoization map is the sole mechanism behind that reference identity,
// and it doubles as the at-most-once build cache when independent units are
// checked concurrently: a computation in progress makes identical concurrent
// requests wait for, then share, the same result.
package kindeval

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"tern/internal/source"
	"tern/internal/types"
)

// DefaultBudget is the structural recursion ceiling for kind bodies.
// Exceeding it is a hard EvalErrNonTermination failure, never a timeout.
const DefaultBudget = 64

// Evaluator applies kinds against one registry. It is safe for concurrent
// use; registry mutation during body evaluation is serialized internally.
type Evaluator struct {
	reg    *types.Registry
	strs   *source.Interner
	table  *Table
	budget int

	mu    sync.Mutex // serializes registry access: writes during body evaluation, reads during fingerprinting
	memo  sync.Map   // fingerprint string -> types.OriginIdx
	group singleflight.Group
}

// New constructs an evaluator. A budget of zero or less selects
// DefaultBudget.
func New(reg *types.Registry, strs *source.Interner, table *Table, budget int) *Evaluator {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Evaluator{
		reg:    reg,
		strs:   strs,
		table:  table,
		budget: budget,
	}
}

// Table returns the kind declarations this evaluator resolves against.
func (e *Evaluator) Table() *Table {
	return e.table
}

type evalState struct {
	args  []Value
	depth int
}

// Apply evaluates kind id over the given constant arguments and returns the
// OriginIdx of the resulting type. Identical applications, from any
// goroutine, return the identical id.
func (e *Evaluator) Apply(id KindID, args []Value) (types.OriginIdx, error) {
	decl, ok := e.table.Lookup(id)
	if !ok {
		return types.NoOrigin, &EvalError{Kind: EvalErrUnknownKind, KindID: id}
	}
	if len(args) != len(decl.Params) {
		return types.NoOrigin, &EvalError{
			Kind: EvalErrArity, KindID: id,
			Want: len(decl.Params), Got: len(args),
		}
	}
	for i, arg := range args {
		if !arg.Known {
			return types.NoOrigin, &EvalError{Kind: EvalErrImpure, KindID: id, ArgIndex: i}
		}
		if arg.Sort != decl.Params[i] {
			return types.NoOrigin, &EvalError{
				Kind: EvalErrBadArgument, KindID: id, ArgIndex: i,
				Detail: "want " + decl.Params[i].String() + ", got " + arg.Sort.String(),
			}
		}
	}

	e.mu.Lock()
	key := e.fingerprint(id, args)
	e.mu.Unlock()
	if cached, ok := e.memo.Load(key); ok {
		return cached.(types.OriginIdx), nil
	}

	result, err, _ := e.group.Do(key, func() (any, error) {
		if cached, ok := e.memo.Load(key); ok {
			return cached.(types.OriginIdx), nil
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		state := &evalState{args: args}
		out, evalErr := e.applyInner(id, args, state)
		if evalErr != nil {
			return types.NoOrigin, evalErr
		}
		stored, _ := e.memo.LoadOrStore(key, out)
		return stored.(types.OriginIdx), nil
	})
	if err != nil {
		return types.NoOrigin, err
	}
	return result.(types.OriginIdx), nil
}

// applyInner runs a body. Caller holds e.mu.
func (e *Evaluator) applyInner(id KindID, args []Value, state *evalState) (types.OriginIdx, *EvalError) {
	decl, ok := e.table.Lookup(id)
	if !ok {
		return types.NoOrigin, &EvalError{Kind: EvalErrUnknownKind, KindID: id}
	}
	state.depth++
	if state.depth > e.budget {
		return types.NoOrigin, &EvalError{Kind: EvalErrNonTermination, KindID: id, Budget: e.budget}
	}
	defer func() { state.depth-- }()

	inner := &evalState{args: args, depth: state.depth}
	v, err := e.evalExpr(decl.Body, id, inner)
	if err != nil {
		return types.NoOrigin, err
	}
	if v.Sort != SortType {
		return types.NoOrigin, &EvalError{
			Kind: EvalErrBadOperand, KindID: id,
			Detail: "kind body must produce a type, got " + v.Sort.String(),
		}
	}
	return v.Type, nil
}

func (e *Evaluator) evalExpr(expr *Expr, at KindID, state *evalState) (Value, *EvalError) {
	if expr == nil {
		return Value{}, &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "empty body"}
	}
	switch expr.Op {
	case OpArg:
		if expr.Arg < 0 || expr.Arg >= len(state.args) {
			return Value{}, &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "argument index out of range"}
		}
		return state.args[expr.Arg], nil

	case OpType:
		return TypeValue(types.OriginIdx(expr.Type)), nil

	case OpBool:
		return BoolValue(expr.Bool), nil
	case OpChar:
		return CharValue(expr.Char), nil
	case OpInt:
		return IntValue(expr.Int), nil
	case OpStr:
		return StringValue(expr.Str), nil

	case OpWithField:
		return e.evalWithField(expr, at, state)

	case OpWithoutField:
		return e.evalWithoutField(expr, at, state)

	case OpApply:
		args := make([]Value, 0, len(expr.Children))
		for _, child := range expr.Children {
			v, err := e.evalExpr(child, at, state)
			if err != nil {
				return Value{}, err
			}
			args = append(args, v)
		}
		// Nested applications consult the memo directly; the top-level
		// singleflight already serializes writers.
		callee, ok := e.table.Lookup(expr.Kind)
		if !ok {
			return Value{}, &EvalError{Kind: EvalErrUnknownKind, KindID: expr.Kind}
		}
		if len(args) != len(callee.Params) {
			return Value{}, &EvalError{
				Kind: EvalErrArity, KindID: expr.Kind,
				Want: len(callee.Params), Got: len(args),
			}
		}
		for i, arg := range args {
			if arg.Sort != callee.Params[i] {
				return Value{}, &EvalError{
					Kind: EvalErrBadArgument, KindID: expr.Kind, ArgIndex: i,
					Detail: "want " + callee.Params[i].String() + ", got " + arg.Sort.String(),
				}
			}
		}
		key := e.fingerprint(expr.Kind, args)
		if cached, ok := e.memo.Load(key); ok {
			return TypeValue(cached.(types.OriginIdx)), nil
		}
		out, err := e.applyInner(expr.Kind, args, state)
		if err != nil {
			return Value{}, err
		}
		stored, _ := e.memo.LoadOrStore(key, out)
		return TypeValue(stored.(types.OriginIdx)), nil

	case OpShapeSwitch:
		return e.evalShapeSwitch(expr, at, state)

	default:
		return Value{}, &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "invalid body op"}
	}
}

func (e *Evaluator) evalWithField(expr *Expr, at KindID, state *evalState) (Value, *EvalError) {
	recv, name, err := e.recordOperands(expr, at, state)
	if err != nil {
		return Value{}, err
	}
	fieldType, evalErr := e.evalExpr(expr.Children[2], at, state)
	if evalErr != nil {
		return Value{}, evalErr
	}
	if fieldType.Sort != SortType {
		return Value{}, &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "field type operand is not a type"}
	}

	nameID := e.strs.Intern(name)
	base := e.reg.RecordFields(recv)
	for _, f := range base {
		if f.Name == nameID {
			return Value{}, &EvalError{Kind: EvalErrDuplicateField, KindID: at, Detail: name}
		}
	}
	info, _ := e.reg.RecordInfo(recv)
	out := e.reg.RegisterRecord(info.Name, info.Decl)
	fields := append(base, types.Field{Name: nameID, Type: types.NewSet(fieldType.Type)})
	e.reg.SetRecordFields(out, fields)
	return TypeValue(out), nil
}

func (e *Evaluator) evalWithoutField(expr *Expr, at KindID, state *evalState) (Value, *EvalError) {
	recv, name, err := e.recordOperands(expr, at, state)
	if err != nil {
		return Value{}, err
	}
	nameID := e.strs.Intern(name)
	base := e.reg.RecordFields(recv)
	kept := make([]types.Field, 0, len(base))
	for _, f := range base {
		if f.Name != nameID {
			kept = append(kept, f)
		}
	}
	info, _ := e.reg.RecordInfo(recv)
	out := e.reg.RegisterRecord(info.Name, info.Decl)
	e.reg.SetRecordFields(out, kept)
	return TypeValue(out), nil
}

// recordOperands evaluates the shared (recv, name) prefix of the field
// primitives and resolves recv to a record id through aliases.
func (e *Evaluator) recordOperands(expr *Expr, at KindID, state *evalState) (types.OriginIdx, string, *EvalError) {
	recv, err := e.evalExpr(expr.Children[0], at, state)
	if err != nil {
		return types.NoOrigin, "", err
	}
	if recv.Sort != SortType {
		return types.NoOrigin, "", &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "receiver is not a type"}
	}
	name, err := e.evalExpr(expr.Children[1], at, state)
	if err != nil {
		return types.NoOrigin, "", err
	}
	if name.Sort != SortString {
		return types.NoOrigin, "", &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "field name is not a string"}
	}
	canon := e.reg.Canonical(recv.Type)
	if n, ok := e.reg.Resolve(canon); !ok || n.Kind != types.NodeRecord {
		return types.NoOrigin, "", &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "receiver is not a record"}
	}
	return canon, name.Str, nil
}

func (e *Evaluator) evalShapeSwitch(expr *Expr, at KindID, state *evalState) (Value, *EvalError) {
	scrutinee, err := e.evalExpr(expr.Children[0], at, state)
	if err != nil {
		return Value{}, err
	}
	if scrutinee.Sort != SortType {
		return Value{}, &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "shape switch scrutinee is not a type"}
	}
	shape := e.shapeOf(scrutinee.Type)
	for _, c := range expr.Cases {
		if c.Shape == ShapeAny || c.Shape == shape {
			return e.evalExpr(c.Body, at, state)
		}
	}
	return Value{}, &EvalError{Kind: EvalErrBadOperand, KindID: at, Detail: "no shape case matched"}
}

func (e *Evaluator) shapeOf(id types.OriginIdx) Shape {
	canon := e.reg.Canonical(id)
	n, ok := e.reg.Resolve(canon)
	if !ok {
		return ShapeAny
	}
	switch n.Kind {
	case types.NodeRecord:
		if len(e.reg.RecordFields(canon)) == 0 {
			return ShapeEmptyRecord
		}
		return ShapeRecord
	case types.NodeSum:
		return ShapeSum
	case types.NodePrim:
		return ShapePrim
	case types.NodeConst:
		return ShapeConst
	case types.NodeFloat:
		return ShapeFloat
	default:
		return ShapeAny
	}
}

// FieldsOf is the fields_of primitive: the ordered (name, TypeSet) sequence
// of a record type, aliases chased.
func (e *Evaluator) FieldsOf(id types.OriginIdx) []types.Field {
	return e.reg.RecordFields(e.reg.Canonical(id))
}

// fingerprint builds the memo key. Type arguments are canonicalized so
// alias-equal arguments share one entry. Caller holds e.mu: canonicalizing
// reads the registry's node slice, which body evaluation appends to.
func (e *Evaluator) fingerprint(id KindID, args []Value) string {
	buf := make([]byte, 0, 16+len(args)*8)
	buf = append(buf, 'k')
	var scratch [4]byte
	scratch[0] = byte(id)
	scratch[1] = byte(id >> 8)
	scratch[2] = byte(id >> 16)
	scratch[3] = byte(id >> 24)
	buf = append(buf, scratch[:]...)
	buf = append(buf, '|')
	for _, arg := range args {
		if arg.Sort == SortType {
			arg.Type = e.reg.Canonical(arg.Type)
		}
		buf = arg.fingerprint(buf)
	}
	return string(buf)
}
