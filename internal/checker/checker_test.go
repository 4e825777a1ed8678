package checker

import (
	"testing"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/types"
)

var nextPos uint32

// pos hands out distinct non-overlapping ranges so diagnostics stay
// distinguishable after dedup.
func pos() ast.Pos {
	nextPos += 10
	return ast.Pos{Start: nextPos, End: nextPos + 5}
}

func named(name string) ast.TypeRef {
	return ast.TypeRef{Kind: ast.RefNamed, Name: name, Pos: pos()}
}

func record(name string, fields ...ast.FieldDecl) ast.Decl {
	return ast.Decl{Kind: ast.DeclRecord, Name: name, Pos: pos(), Record: &ast.RecordDecl{Fields: fields}}
}

func field(name string, ty ast.TypeRef) ast.FieldDecl {
	return ast.FieldDecl{Name: name, Type: ty, Pos: pos()}
}

func sum(name string, members ...ast.TypeRef) ast.Decl {
	return ast.Decl{Kind: ast.DeclSum, Name: name, Pos: pos(), Sum: &ast.SumDecl{Members: members}}
}

func alias(name string, target ast.TypeRef) ast.Decl {
	return ast.Decl{Kind: ast.DeclAlias, Name: name, Pos: pos(), Alias: &ast.AliasDecl{Target: target}}
}

func let(name string, ty *ast.TypeRef, value ast.Expr) ast.Stmt {
	return ast.Stmt{Kind: ast.StmtLet, Pos: pos(), Let: &ast.LetStmt{Name: name, Type: ty, Value: value}}
}

func letMut(name string, ty *ast.TypeRef, value ast.Expr) ast.Stmt {
	return ast.Stmt{Kind: ast.StmtLet, Pos: pos(), Let: &ast.LetStmt{Name: name, Mutable: true, Type: ty, Value: value}}
}

func assign(name string, value ast.Expr) ast.Stmt {
	return ast.Stmt{Kind: ast.StmtAssign, Pos: pos(), Assign: &ast.AssignStmt{Name: name, Value: value}}
}

func exprStmt(e ast.Expr) ast.Stmt {
	return ast.Stmt{Kind: ast.StmtExpr, Pos: pos(), Expr: &e}
}

func intLit(v int64) ast.Expr {
	return ast.Expr{Kind: ast.ExprLit, Pos: pos(), Lit: &ast.LitExpr{Kind: ast.LitInt, I: v}}
}

func strLit(v string) ast.Expr {
	return ast.Expr{Kind: ast.ExprLit, Pos: pos(), Lit: &ast.LitExpr{Kind: ast.LitString, S: v}}
}

func floatLit(v float64) ast.Expr {
	return ast.Expr{Kind: ast.ExprLit, Pos: pos(), Lit: &ast.LitExpr{Kind: ast.LitFloat, F: v}}
}

func nameRef(name string) ast.Expr {
	return ast.Expr{Kind: ast.ExprName, Pos: pos(), Name: name}
}

func call(callee string, args ...ast.Expr) ast.Expr {
	return ast.Expr{Kind: ast.ExprCall, Pos: pos(), Call: &ast.CallExpr{Callee: callee, Args: args}}
}

func unit(decls []ast.Decl, stmts []ast.Stmt) *ast.Unit {
	return &ast.Unit{Name: "test", SourcePath: "test.tern", Source: make([]byte, 4096), Decls: decls, Stmts: stmts}
}

func codes(r *Result) []diag.Code {
	out := make([]diag.Code, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func wantCodes(t *testing.T, r *Result, want ...diag.Code) {
	t.Helper()
	got := codes(r)
	if len(got) != len(want) {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
	seen := make(map[diag.Code]int)
	for _, c := range got {
		seen[c]++
	}
	for _, c := range want {
		if seen[c] == 0 {
			t.Fatalf("missing %s in %v", c.ID(), got)
		}
		seen[c]--
	}
}

// colorDecls is the running three-variant scenario used across tests.
func colorDecls() []ast.Decl {
	return []ast.Decl{
		record("Red"),
		record("Blue"),
		record("Green", field("is_light", named("bool"))),
		sum("Color", named("Red"), named("Green"), named("Blue")),
	}
}

func switchOn(scrutinee ast.Expr, arms ...ast.SwitchArm) ast.Expr {
	return ast.Expr{Kind: ast.ExprSwitch, Pos: pos(), Switch: &ast.SwitchExpr{Scrutinee: &scrutinee, Arms: arms}}
}

func arm(pattern string, capture string, body ast.Expr) ast.SwitchArm {
	p := named(pattern)
	return ast.SwitchArm{Pattern: &p, Capture: capture, Body: &body, Pos: pos()}
}

func wildcard(capture string, body ast.Expr) ast.SwitchArm {
	return ast.SwitchArm{Wildcard: true, Capture: capture, Body: &body, Pos: pos()}
}

func TestCleanUnitPasses(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(colorDecls(), []ast.Stmt{
		let("c", refPtr(named("Color")), call("Red")),
	}))
	if !r.Passed {
		t.Fatalf("unexpected diagnostics: %v", r.Diagnostics)
	}
	if len(r.Sums) != 1 || r.Sums[0].Name != "Color" {
		t.Fatalf("sum artifact missing: %+v", r.Sums)
	}
	if len(r.Sums[0].Layout.Tags) != 3 {
		t.Fatalf("Color should lower to three tags, got %d", len(r.Sums[0].Layout.Tags))
	}
}

func refPtr(r ast.TypeRef) *ast.TypeRef { return &r }

func TestConstructorWidensLiterals(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(
		[]ast.Decl{record("Point", field("x", named("int")), field("y", named("int")))},
		[]ast.Stmt{exprStmt(call("Point", intLit(1), intLit(2)))},
	))
	if !r.Passed {
		t.Fatalf("literal arguments must bridge into int fields: %v", r.Diagnostics)
	}
}

func TestConstructorRejectsWrongField(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(
		[]ast.Decl{record("Point", field("x", named("int")), field("y", named("int")))},
		[]ast.Stmt{exprStmt(call("Point", intLit(1), strLit("two")))},
	))
	wantCodes(t, r, diag.TypMismatch)
}

func TestConstructorArity(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(
		[]ast.Decl{record("Point", field("x", named("int")), field("y", named("int")))},
		[]ast.Stmt{exprStmt(call("Point", intLit(1)))},
	))
	wantCodes(t, r, diag.TypCallArity)
}

func TestCallingValueIsNotCallable(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		let("f", nil, intLit(3)),
		exprStmt(call("f", intLit(1))),
	}))
	wantCodes(t, r, diag.TypNotCallable)
}

func TestSwitchNarrowsCaptureInArmBody(t *testing.T) {
	s := NewSession(Options{})
	decls := colorDecls()
	green := ast.Expr{Kind: ast.ExprField, Pos: pos(), Field: &ast.FieldExpr{
		Base: exprPtr(nameRef("g")), Field: "is_light",
	}}
	r := s.CheckUnit(unit(decls, []ast.Stmt{
		let("c", refPtr(named("Color")), call("Green", boolLit(true))),
		exprStmt(switchOn(nameRef("c"),
			arm("Red", "", intLit(0)),
			arm("Green", "g", green),
			arm("Blue", "", intLit(2)),
		)),
	}))
	if !r.Passed {
		t.Fatalf("narrowed capture must expose Green's field: %v", r.Diagnostics)
	}
}

func exprPtr(e ast.Expr) *ast.Expr { return &e }

func boolLit(v bool) ast.Expr {
	return ast.Expr{Kind: ast.ExprLit, Pos: pos(), Lit: &ast.LitExpr{Kind: ast.LitBool, B: v}}
}

func TestNonExhaustiveSwitch(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(colorDecls(), []ast.Stmt{
		let("c", refPtr(named("Color")), call("Red")),
		exprStmt(switchOn(nameRef("c"),
			arm("Red", "", intLit(0)),
			arm("Blue", "", intLit(2)),
		)),
	}))
	wantCodes(t, r, diag.TypNonExhaustiveSwitch)
}

func TestWildcardCompletesSwitch(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(colorDecls(), []ast.Stmt{
		let("c", refPtr(named("Color")), call("Red")),
		exprStmt(switchOn(nameRef("c"),
			arm("Red", "", intLit(0)),
			wildcard("rest", intLit(1)),
		)),
	}))
	if !r.Passed {
		t.Fatalf("wildcard must absorb the remaining variants: %v", r.Diagnostics)
	}
}

func TestFloatScrutineeRejected(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		let("f", nil, floatLit(1.5)),
		exprStmt(switchOn(nameRef("f"), wildcard("", intLit(0)))),
	}))
	wantCodes(t, r, diag.TypUnsupportedScrutinee)
}

func TestErroneousSentinelSuppressesCascades(t *testing.T) {
	s := NewSession(Options{})
	// One unknown name, then two further uses of the resulting value. Only
	// the root failure may be reported.
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		let("x", nil, nameRef("missing")),
		let("y", refPtr(named("int")), nameRef("x")),
		assign("y", nameRef("x")),
	}))
	wantCodes(t, r, diag.TypUnresolvedName, diag.TypAssignImmutable)
}

func TestAssignImmutable(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		let("x", refPtr(named("int")), intLit(1)),
		assign("x", intLit(2)),
	}))
	wantCodes(t, r, diag.TypAssignImmutable)
}

func TestMutableAssignWidens(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		letMut("x", refPtr(named("int")), intLit(1)),
		assign("x", intLit(2)),
		assign("x", strLit("nope")),
	}))
	wantCodes(t, r, diag.TypMismatch)
}

func TestDuplicateDeclaration(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit([]ast.Decl{record("Red"), record("Red")}, nil))
	wantCodes(t, r, diag.TypDuplicateDecl)
}

func TestAliasCycleReported(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit([]ast.Decl{
		alias("A", named("B")),
		alias("B", named("A")),
	}, nil))
	// Both declarations sit on the cycle.
	wantCodes(t, r, diag.TypAliasCycle, diag.TypAliasCycle)
}

func TestAliasIsTransparent(t *testing.T) {
	s := NewSession(Options{})
	decls := append(colorDecls(), alias("Colour", named("Color")))
	r := s.CheckUnit(unit(decls, []ast.Stmt{
		let("c", refPtr(named("Colour")), call("Red")),
		exprStmt(switchOn(nameRef("c"),
			arm("Red", "", intLit(0)),
			arm("Green", "", intLit(1)),
			arm("Blue", "", intLit(2)),
		)),
	}))
	if !r.Passed {
		t.Fatalf("alias of a sum must check like the sum: %v", r.Diagnostics)
	}
}

func TestRecursiveValueType(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit([]ast.Decl{
		record("Node", field("next", named("Node"))),
	}, nil))
	wantCodes(t, r, diag.TypRecursiveValueType)
}

func TestImportedValueIsVisible(t *testing.T) {
	s := NewSession(Options{})
	s.ImportValue("answer", types.NewSet(s.Reg.Builtins().Int))
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		let("x", refPtr(named("int")), nameRef("answer")),
	}))
	if !r.Passed {
		t.Fatalf("imported binding must resolve: %v", r.Diagnostics)
	}
}

func TestImportedTypeIsOpaque(t *testing.T) {
	s := NewSession(Options{})
	ext := s.Reg.RegisterRecord(s.Strs.Intern("Handle"), s.span(ast.Pos{}))
	s.Reg.SetRecordFields(ext, nil)
	s.ImportType("Handle", ext)
	r := s.CheckUnit(unit(nil, []ast.Stmt{
		let("h", refPtr(named("Handle")), call("Handle")),
	}))
	if !r.Passed {
		t.Fatalf("imported type must be usable: %v", r.Diagnostics)
	}
}

func TestImportDeclsInjectsOpaqueTypes(t *testing.T) {
	s := NewSession(Options{})
	s.ImportDecls([]ast.Decl{
		record("Handle", field("fd", named("int"))),
		sum("Mode", named("Handle")),
	})
	r := s.CheckUnit(unit([]ast.Decl{
		alias("H", named("Handle")),
		alias("M", named("Mode")),
	}, []ast.Stmt{
		// Imported records are opaque fieldless nominals, whatever fields
		// the declaring unit gave them.
		let("h", refPtr(named("Handle")), call("Handle")),
	}))
	if !r.Passed {
		t.Fatalf("imported declarations must resolve: %v", r.Diagnostics)
	}
}

func TestImportDeclsYieldsToLocalDeclaration(t *testing.T) {
	s := NewSession(Options{})
	s.ImportDecls([]ast.Decl{record("Point")})
	r := s.CheckUnit(unit([]ast.Decl{
		record("Point", field("x", named("int"))),
	}, []ast.Stmt{
		let("p", refPtr(named("Point")), call("Point", intLit(1))),
	}))
	if !r.Passed {
		t.Fatalf("a local declaration shadows the import: %v", r.Diagnostics)
	}
}

func TestKindApplicationThroughAlias(t *testing.T) {
	s := NewSession(Options{})
	extend := ast.Decl{
		Kind: ast.DeclKindFn, Name: "Extend", Pos: pos(),
		KindFn: &ast.KindDecl{
			Params: []ast.KindParam{
				{Name: "base", Sort: ast.SortType},
				{Name: "name", Sort: ast.SortString},
			},
			Body: ast.KindExpr{
				Op: ast.KWithField,
				Operands: []ast.KindExpr{
					{Op: ast.KArg, Arg: 0},
					{Op: ast.KArg, Arg: 1},
					{Op: ast.KType, Name: "int"},
				},
			},
		},
	}
	apply := ast.TypeRef{Kind: ast.RefApply, Name: "Extend", Pos: pos(), Args: []ast.KindArg{
		{Type: refPtr(named("Point"))},
		{Const: &ast.ConstRef{Lit: ast.LitString, S: "z"}},
	}}
	r := s.CheckUnit(unit(
		[]ast.Decl{
			record("Point", field("x", named("int")), field("y", named("int"))),
			extend,
			alias("Point3", apply),
		},
		[]ast.Stmt{
			let("p", refPtr(named("Point3")), call("Point3", intLit(1), intLit(2), intLit(3))),
		},
	))
	if !r.Passed {
		t.Fatalf("kind-generated record must be constructible: %v", r.Diagnostics)
	}
}

func TestKindArityAtUse(t *testing.T) {
	s := NewSession(Options{})
	extend := ast.Decl{
		Kind: ast.DeclKindFn, Name: "Wrap", Pos: pos(),
		KindFn: &ast.KindDecl{
			Params: []ast.KindParam{{Name: "base", Sort: ast.SortType}},
			Body:   ast.KindExpr{Op: ast.KArg, Arg: 0},
		},
	}
	apply := ast.TypeRef{Kind: ast.RefApply, Name: "Wrap", Pos: pos()}
	r := s.CheckUnit(unit([]ast.Decl{extend, alias("W", apply)}, nil))
	wantCodes(t, r, diag.TypKindArityMismatch)
}

func TestSwitchResultIsUnionOfArms(t *testing.T) {
	s := NewSession(Options{})
	r := s.CheckUnit(unit(colorDecls(), []ast.Stmt{
		let("c", refPtr(named("Color")), call("Red")),
		let("out", refPtr(ast.TypeRef{Kind: ast.RefUnion, Pos: pos(), Members: []ast.TypeRef{
			named("int"), named("string"),
		}}), switchOn(nameRef("c"),
			arm("Red", "", intLit(0)),
			arm("Green", "", strLit("green")),
			arm("Blue", "", intLit(2)),
		)),
	}))
	if !r.Passed {
		t.Fatalf("arm body union must fit int|string: %v", r.Diagnostics)
	}
}
