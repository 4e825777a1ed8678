package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Type-system errors.
	TypInfo                 Code = 3000
	TypMismatch             Code = 3001
	TypUnknownVariant       Code = 3002
	TypAmbiguousPattern     Code = 3003
	TypUnreachableArm       Code = 3004
	TypNonExhaustiveSwitch  Code = 3005
	TypUnsupportedScrutinee Code = 3006
	TypKindArityMismatch    Code = 3007
	TypImpureArgument       Code = 3008
	TypKindNonTermination   Code = 3009
	TypAliasCycle           Code = 3010
	TypDuplicateFieldName   Code = 3011
	TypDuplicateDecl        Code = 3012
	TypUnresolvedName       Code = 3013
	TypAssignImmutable      Code = 3014
	TypRecursiveValueType   Code = 3015
	TypUnknownKind          Code = 3016
	TypBadKindArgument      Code = 3017
	TypNotCallable          Code = 3018
	TypCallArity            Code = 3019
	TypDuplicateSumMember   Code = 3020
	TypNotAType             Code = 3021

	// IO errors.
	IOLoadFileError Code = 4001
	IOBadUnitFile   Code = 4002

	// Project/manifest errors.
	PrjInfo            Code = 5000
	PrjInvalidManifest Code = 5001
	PrjDuplicateUnit   Code = 5002
	PrjMissingUnit     Code = 5003
	PrjUnknownImport   Code = 5004

	// Observability.
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	TypInfo:                 "Type information",
	TypMismatch:             "type mismatch",
	TypUnknownVariant:       "pattern names a variant outside the scrutinee type",
	TypAmbiguousPattern:     "pattern re-covers a variant matched by an earlier arm",
	TypUnreachableArm:       "arm is unreachable",
	TypNonExhaustiveSwitch:  "switch does not cover every variant",
	TypUnsupportedScrutinee: "switch scrutinee type cannot be checked for exhaustiveness",
	TypKindArityMismatch:    "wrong number of arguments in kind application",
	TypImpureArgument:       "kind argument is not a compile-time constant",
	TypKindNonTermination:   "kind evaluation exceeded the recursion budget",
	TypAliasCycle:           "alias chain forms a cycle",
	TypDuplicateFieldName:   "duplicate field name in record",
	TypDuplicateDecl:        "duplicate declaration",
	TypUnresolvedName:       "unresolved name",
	TypAssignImmutable:      "assignment to immutable binding",
	TypRecursiveValueType:   "recursive value type has infinite size",
	TypUnknownKind:          "unknown kind",
	TypBadKindArgument:      "kind argument has the wrong sort",
	TypNotCallable:          "name is not callable",
	TypCallArity:            "wrong number of call arguments",
	TypDuplicateSumMember:   "duplicate member in sum type",
	TypNotAType:             "name does not refer to a type",
	IOLoadFileError:         "I/O load file error",
	IOBadUnitFile:           "malformed unit file",
	PrjInfo:                 "Project information",
	PrjInvalidManifest:      "Invalid project manifest",
	PrjDuplicateUnit:        "Duplicate unit in manifest",
	PrjMissingUnit:          "Missing unit file",
	PrjUnknownImport:        "Imported unit not in manifest",
	ObsInfo:                 "Observability information",
	ObsTimings:              "Check timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
