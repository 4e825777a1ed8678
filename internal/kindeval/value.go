package kindeval

import (
	"fmt"
	"strconv"

	"tern/internal/types"
)

// Sort classifies a kind argument: a type, or one of the primitive literal
// sorts.
type Sort uint8

const (
	SortType Sort = iota
	SortBool
	SortChar
	SortInt
	SortString
)

func (s Sort) String() string {
	switch s {
	case SortType:
		return "type"
	case SortBool:
		return "bool"
	case SortChar:
		return "char"
	case SortInt:
		return "int"
	case SortString:
		return "string"
	default:
		return fmt.Sprintf("Sort(%d)", s)
	}
}

// Value is a compile-time constant: the only thing a kind may consume or
// produce. Known is false when the front end could not prove the argument
// constant; applying a kind to such a value is ImpureArgument.
type Value struct {
	Sort  Sort
	Known bool

	Type types.OriginIdx
	Bool bool
	Char rune
	Int  int64
	Str  string
}

func TypeValue(id types.OriginIdx) Value {
	return Value{Sort: SortType, Known: true, Type: id}
}

func BoolValue(v bool) Value {
	return Value{Sort: SortBool, Known: true, Bool: v}
}

func CharValue(v rune) Value {
	return Value{Sort: SortChar, Known: true, Char: v}
}

func IntValue(v int64) Value {
	return Value{Sort: SortInt, Known: true, Int: v}
}

func StringValue(v string) Value {
	return Value{Sort: SortString, Known: true, Str: v}
}

// Unknown marks a runtime-dependent argument of the given sort.
func Unknown(sort Sort) Value {
	return Value{Sort: sort}
}

// fingerprint appends a canonical encoding of the value, used to build memo
// keys. Type ids are canonicalized by the caller beforehand.
func (v Value) fingerprint(dst []byte) []byte {
	switch v.Sort {
	case SortType:
		dst = append(dst, 't')
		dst = strconv.AppendUint(dst, uint64(v.Type), 10)
	case SortBool:
		dst = append(dst, 'b')
		if v.Bool {
			dst = append(dst, '1')
		} else {
			dst = append(dst, '0')
		}
	case SortChar:
		dst = append(dst, 'c')
		dst = strconv.AppendInt(dst, int64(v.Char), 10)
	case SortInt:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.Int, 10)
	case SortString:
		dst = append(dst, 's')
		dst = strconv.AppendQuote(dst, v.Str)
	}
	return append(dst, '|')
}
