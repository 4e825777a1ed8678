package layout

import (
	"tern/internal/types"
)

// LowerSum produces the tagged-union layout for a finalized sum node or a
// primitive union. Lowering an identical id twice returns the cached,
// identical layout.
func (e *Engine) LowerSum(id types.OriginIdx) (*SumLayout, error) {
	return e.lowerSum(e.Types.Canonical(id), newComputeState())
}

func (e *Engine) lowerSum(id types.OriginIdx, state *computeState) (*SumLayout, error) {
	if cached, ok := e.sums[id]; ok {
		return cached, nil
	}
	n, ok := e.Types.Resolve(id)
	if !ok {
		return nil, &Error{Kind: ErrNotASum, Type: id}
	}

	var (
		out *SumLayout
		err error
	)
	switch n.Kind {
	case types.NodePrim:
		out = e.primUnionLayout(n.Prim)

	case types.NodeSum:
		cycle, ok := state.push(id)
		if !ok {
			return nil, &Error{Kind: ErrRecursiveUnsized, Type: id, Cycle: cycle}
		}
		out, err = e.sumUnionLayout(id, state)
		state.pop()
		if err != nil {
			return nil, err
		}

	default:
		return nil, &Error{Kind: ErrNotASum, Type: id}
	}

	e.sums[id] = out
	return out, nil
}

// sumUnionLayout computes a sum node's tagged union. The caller owns the
// node's cycle frame; pushing here again would misread the frame as a
// cycle when the value path already holds it.
func (e *Engine) sumUnionLayout(id types.OriginIdx, state *computeState) (*SumLayout, error) {
	return e.tagUnionLayout(e.Types.SumMembers(id), state)
}

// primUnionLayout special-cases the four unbounded primitive unions, whose
// members are never materialized as nodes.
func (e *Engine) primUnionLayout(tag types.PrimTag) *SumLayout {
	switch tag {
	case types.PrimBool:
		// Two tags, false and true; the value is the discriminant.
		return &SumLayout{
			Disc:  DiscBool,
			Size:  1,
			Align: 1,
		}
	case types.PrimChar:
		// The code point is the discriminant; no separate tag field.
		return &SumLayout{
			Disc:  DiscScalar,
			Size:  4,
			Align: 4,
		}
	case types.PrimInt:
		return &SumLayout{
			Disc:  DiscScalar,
			Size:  8,
			Align: 8,
		}
	case types.PrimString:
		// No finite tag exists; lookup goes through the string tag table.
		return &SumLayout{
			Disc:  DiscStringHash,
			Size:  e.Target.PtrSize,
			Align: e.Target.PtrAlign,
		}
	default:
		return &SumLayout{Disc: DiscTag, Align: 1}
	}
}
