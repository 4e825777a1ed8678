package layout

import (
	"tern/internal/types"
)

type computeState struct {
	stack []types.OriginIdx
	index map[types.OriginIdx]int
}

func newComputeState() *computeState {
	return &computeState{index: make(map[types.OriginIdx]int, 16)}
}

func (s *computeState) push(id types.OriginIdx) (cycle []types.OriginIdx, ok bool) {
	if at, busy := s.index[id]; busy {
		cycle = append(cycle, s.stack[at:]...)
		cycle = append(cycle, id)
		return cycle, false
	}
	s.index[id] = len(s.stack)
	s.stack = append(s.stack, id)
	return nil, true
}

func (s *computeState) pop() {
	last := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	delete(s.index, last)
}

// ValueLayoutOf computes the size and alignment of one type node's value
// representation.
func (e *Engine) ValueLayoutOf(id types.OriginIdx) (ValueLayout, error) {
	return e.valueLayoutOf(id, newComputeState())
}

// SetLayoutOf computes the value representation of a TypeSet: a singleton
// set lays out as its member, a wider set as an inline tagged union over
// its members.
func (e *Engine) SetLayoutOf(s types.TypeSet) (ValueLayout, error) {
	return e.setLayoutOf(s, newComputeState())
}

func (e *Engine) valueLayoutOf(id types.OriginIdx, state *computeState) (ValueLayout, error) {
	canon := e.Types.Canonical(id)
	if cached, ok := e.values[canon]; ok {
		return cached, nil
	}
	cycle, ok := state.push(canon)
	if !ok {
		return ValueLayout{Size: 0, Align: 1}, &Error{Kind: ErrRecursiveUnsized, Type: canon, Cycle: cycle}
	}
	defer state.pop()

	out, err := e.computeValueLayout(canon, state)
	if err != nil {
		return out, err
	}
	e.values[canon] = out
	return out, nil
}

func (e *Engine) computeValueLayout(id types.OriginIdx, state *computeState) (ValueLayout, error) {
	n, ok := e.Types.Resolve(id)
	if !ok {
		return ValueLayout{Size: 0, Align: 1}, nil
	}
	switch n.Kind {
	case types.NodeInvalid:
		return ValueLayout{Size: 0, Align: 1}, nil

	case types.NodePrim:
		return e.primValueLayout(n.Prim), nil

	case types.NodeConst:
		// A constant occupies its parent primitive's representation.
		return e.primValueLayout(n.Prim), nil

	case types.NodeFloat:
		return ValueLayout{Size: 8, Align: 8}, nil

	case types.NodeRecord:
		return e.recordLayout(id, state)

	case types.NodeSum:
		// valueLayoutOf already holds this id's cycle frame.
		l, ok := e.sums[id]
		if !ok {
			var err error
			l, err = e.sumUnionLayout(id, state)
			if err != nil {
				return ValueLayout{Size: 0, Align: 1}, err
			}
			e.sums[id] = l
		}
		return ValueLayout{Size: l.Size, Align: l.Align}, nil

	default:
		return ValueLayout{Size: 0, Align: 1}, nil
	}
}

func (e *Engine) primValueLayout(tag types.PrimTag) ValueLayout {
	switch tag {
	case types.PrimBool:
		return ValueLayout{Size: 1, Align: 1}
	case types.PrimChar:
		// Stored as its scalar code-point integer.
		return ValueLayout{Size: 4, Align: 4}
	case types.PrimInt:
		return ValueLayout{Size: 8, Align: 8}
	case types.PrimString:
		return ValueLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}
	default:
		return ValueLayout{Size: 0, Align: 1}
	}
}

func (e *Engine) recordLayout(id types.OriginIdx, state *computeState) (ValueLayout, error) {
	fields := e.Types.RecordFields(id)
	if len(fields) == 0 {
		// The unit type.
		return ValueLayout{Size: 0, Align: 1}, nil
	}
	size := 0
	align := 1
	for _, f := range fields {
		fl, err := e.setLayoutOf(f.Type, state)
		if err != nil {
			return ValueLayout{Size: 0, Align: 1}, err
		}
		a := max(fl.Align, 1)
		size = roundUp(size, a)
		size += fl.Size
		align = max(align, a)
	}
	size = roundUp(size, align)
	return ValueLayout{Size: size, Align: align}, nil
}

func (e *Engine) setLayoutOf(s types.TypeSet, state *computeState) (ValueLayout, error) {
	if s.Empty() || s.Erroneous() {
		return ValueLayout{Size: 0, Align: 1}, nil
	}
	if s.Len() == 1 {
		return e.valueLayoutOf(s[0], state)
	}
	// Inline union: minimal tag plus overlapping payload.
	l, err := e.tagUnionLayout(s, state)
	if err != nil {
		return ValueLayout{Size: 0, Align: 1}, err
	}
	return ValueLayout{Size: l.Size, Align: l.Align}, nil
}

// tagUnionLayout builds the discriminant+payload representation for an
// ordered member list.
func (e *Engine) tagUnionLayout(members []types.OriginIdx, state *computeState) (*SumLayout, error) {
	maxPayloadSize := 0
	payloadAlign := 1
	tags := make([]TagEntry, 0, len(members))
	for i, m := range members {
		pl, err := e.valueLayoutOf(m, state)
		if err != nil {
			return nil, err
		}
		maxPayloadSize = max(maxPayloadSize, pl.Size)
		payloadAlign = max(payloadAlign, pl.Align)
		tags = append(tags, TagEntry{Member: m, Tag: uint32(i)}) //nolint:gosec // member counts are small
	}

	tagSize := tagWidth(len(members))
	tagAlign := tagSize
	payloadOffset := roundUp(tagSize, payloadAlign)
	overallAlign := max(tagAlign, payloadAlign)
	size := roundUp(payloadOffset+maxPayloadSize, overallAlign)
	return &SumLayout{
		Disc:          DiscTag,
		Tags:          tags,
		TagSize:       tagSize,
		TagAlign:      tagAlign,
		PayloadSize:   maxPayloadSize,
		PayloadAlign:  payloadAlign,
		PayloadOffset: payloadOffset,
		Size:          size,
		Align:         overallAlign,
	}, nil
}
