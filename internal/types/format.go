package types

import (
	"fmt"
	"strings"

	"tern/internal/source"
)

// Describe renders a type id for diagnostics. Nominal types print their
// declared name, constants print their value, builtins their keyword.
func Describe(r *Registry, strs *source.Interner, id OriginIdx) string {
	n, ok := r.Resolve(id)
	if !ok {
		return fmt.Sprintf("type#%d", id)
	}
	switch n.Kind {
	case NodeInvalid:
		return "<error>"
	case NodePrim:
		return n.Prim.String()
	case NodeFloat:
		return "float"
	case NodeConst:
		info, ok := r.ConstInfo(id)
		if !ok {
			return "constant"
		}
		switch info.Prim {
		case PrimBool:
			return fmt.Sprintf("%t", info.Bool)
		case PrimChar:
			return fmt.Sprintf("%q", info.Char)
		case PrimInt:
			return fmt.Sprintf("%d", info.Int)
		case PrimString:
			if strs != nil {
				if s, ok := strs.Lookup(info.Str); ok {
					return fmt.Sprintf("%q", s)
				}
			}
			return "string constant"
		}
	case NodeRecord:
		if info, ok := r.RecordInfo(id); ok {
			return lookupName(strs, info.Name, id)
		}
	case NodeAlias:
		if info, ok := r.AliasInfo(id); ok {
			return lookupName(strs, info.Name, id)
		}
	case NodeSum:
		if info, ok := r.SumInfo(id); ok {
			return lookupName(strs, info.Name, id)
		}
	}
	return fmt.Sprintf("type#%d", id)
}

// DescribeSet renders a TypeSet as a pipe-joined union for diagnostics.
func DescribeSet(r *Registry, strs *source.Interner, s TypeSet) string {
	if s.Empty() {
		return "never"
	}
	if s.Erroneous() {
		return "<error>"
	}
	parts := make([]string, 0, len(s))
	for _, id := range s {
		parts = append(parts, Describe(r, strs, id))
	}
	return strings.Join(parts, " | ")
}

func lookupName(strs *source.Interner, name source.StringID, id OriginIdx) string {
	if strs != nil && name != source.NoStringID {
		if s, ok := strs.Lookup(name); ok {
			return s
		}
	}
	return fmt.Sprintf("type#%d", id)
}
