package ast

// Pos is a half-open byte range inside the unit's source text. The checker
// rebinds it to a file-qualified span once the unit's source is registered.
type Pos struct {
	Start uint32
	End   uint32
}

// Cover extends the range to include other.
func (p Pos) Cover(other Pos) Pos {
	if other.Start < p.Start {
		p.Start = other.Start
	}
	if other.End > p.End {
		p.End = other.End
	}
	return p
}
