package ast

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func sampleUnit() *Unit {
	return &Unit{
		Name:       "colors",
		SourcePath: "colors.tern",
		Source:     []byte("type Color = Red | Green | Blue\n"),
		Decls: []Decl{
			{
				Kind: DeclSum,
				Name: "Color",
				Pos:  Pos{Start: 0, End: 31},
				Sum: &SumDecl{
					Members: []TypeRef{
						{Kind: RefNamed, Name: "Red"},
						{Kind: RefNamed, Name: "Green"},
						{Kind: RefNamed, Name: "Blue"},
					},
				},
			},
		},
		Stmts: []Stmt{
			{
				Kind: StmtLet,
				Let: &LetStmt{
					Name:  "c",
					Value: Expr{Kind: ExprName, Name: "red"},
				},
			},
		},
	}
}

func TestUnitRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeUnit(&buf, sampleUnit()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeUnit(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "colors" || len(got.Decls) != 1 || len(got.Stmts) != 1 {
		t.Fatalf("unit shape lost: %+v", got)
	}
	sum := got.Decls[0].Sum
	if sum == nil || len(sum.Members) != 3 || sum.Members[1].Name != "Green" {
		t.Fatalf("sum members lost: %+v", sum)
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	u := sampleUnit()
	u.Schema = UnitSchema + 1
	var stale bytes.Buffer
	if err := msgpack.NewEncoder(&stale).Encode(u); err != nil {
		t.Fatalf("raw encode: %v", err)
	}
	if _, err := DecodeUnit(&stale); err == nil {
		t.Fatalf("stale schema must be rejected")
	}
}
