package checker

import (
	"fmt"

	"tern/internal/ast"
	"tern/internal/diag"
	"tern/internal/types"
)

// CheckUnit runs the whole session over one unit and returns its result.
// Checking is best-effort: every declaration and statement is visited even
// after earlier failures, and erroneous expressions carry the sentinel set
// instead of cascading.
func (s *Session) CheckUnit(u *ast.Unit) *Result {
	s.file = s.Files.AddVirtual(u.SourcePath, u.Source)

	s.declareNames(u.Decls)
	s.checkDeclBodies(u.Decls)
	s.checkAliasCycles(u.Decls)

	for i := range u.Stmts {
		s.checkStmt(&u.Stmts[i], u.Stmts[i].Pos)
	}

	sums := s.finalizeLayouts()

	s.Bag.Sort()
	s.Bag.Dedup()
	return &Result{
		Unit:        u.Name,
		Passed:      !s.Bag.HasErrors(),
		Annotations: s.annots,
		Sums:        sums,
		Diagnostics: s.Bag.Items(),
		Files:       s.Files,
	}
}

// declareNames registers every declared name before any body is resolved,
// so bodies may reference declarations in any order.
func (s *Session) declareNames(decls []ast.Decl) {
	for i := range decls {
		d := &decls[i]
		if prior, dup := s.typeSpans[d.Name]; dup {
			s.report(s.error(diag.TypDuplicateDecl, d.Pos,
				fmt.Sprintf("%s is already declared", d.Name)).
				WithNote(prior, "previous declaration is here"))
			continue
		}
		nameID := s.Strs.Intern(d.Name)
		sp := s.span(d.Pos)
		switch d.Kind {
		case ast.DeclRecord:
			s.typeNames[d.Name] = s.Reg.RegisterRecord(nameID, sp)
			s.recordNames = append(s.recordNames, d.Name)
		case ast.DeclAlias:
			s.typeNames[d.Name] = s.Reg.RegisterAlias(nameID, sp)
		case ast.DeclSum:
			s.typeNames[d.Name] = s.Reg.RegisterSum(nameID, sp)
			s.sumNames = append(s.sumNames, d.Name)
		case ast.DeclKindFn:
			s.declareKind(d, nameID, sp)
		}
		s.typeSpans[d.Name] = sp
	}
}

// checkDeclBodies resolves bodies in dependency phases so declarations may
// reference each other in any source order. Kind bodies and plain alias
// links carry single-id references and need nothing else filled in; sum
// member lists must exist before record fields can expand a sum name into
// its member set; aliases whose target is a kind application evaluate last,
// once every record the kind might extend has its fields.
func (s *Session) checkDeclBodies(decls []ast.Decl) {
	type phase uint8
	const (
		phaseKinds phase = iota
		phaseAliasLinks
		phaseSums
		phaseRecords
		phaseAliasApplies
	)
	run := func(p phase) {
		for i := range decls {
			d := &decls[i]
			if s.typeSpans[d.Name] != s.span(d.Pos) {
				continue // duplicate, first declaration wins
			}
			switch {
			case p == phaseKinds && d.Kind == ast.DeclKindFn:
				s.checkKindBody(d)
			case p == phaseAliasLinks && d.Kind == ast.DeclAlias && d.Alias.Target.Kind != ast.RefApply:
				s.checkAliasBody(d)
			case p == phaseSums && d.Kind == ast.DeclSum:
				s.checkSumBody(d)
			case p == phaseRecords && d.Kind == ast.DeclRecord:
				s.checkRecordBody(d)
			case p == phaseAliasApplies && d.Kind == ast.DeclAlias && d.Alias.Target.Kind == ast.RefApply:
				s.checkAliasBody(d)
			}
		}
	}
	for p := phaseKinds; p <= phaseAliasApplies; p++ {
		run(p)
	}
}

func (s *Session) checkRecordBody(d *ast.Decl) {
	id := s.typeNames[d.Name]
	seen := make(map[string]ast.Pos, len(d.Record.Fields))
	fields := make([]types.Field, 0, len(d.Record.Fields))
	for i := range d.Record.Fields {
		f := &d.Record.Fields[i]
		if prior, dup := seen[f.Name]; dup {
			s.report(s.error(diag.TypDuplicateFieldName, f.Pos,
				fmt.Sprintf("field %s is declared twice in %s", f.Name, d.Name)).
				WithNote(s.span(prior), "first declaration is here"))
			continue
		}
		seen[f.Name] = f.Pos
		fields = append(fields, types.Field{
			Name: s.Strs.Intern(f.Name),
			Type: s.resolveType(&f.Type),
		})
	}
	s.Reg.SetRecordFields(id, fields)
}

func (s *Session) checkAliasBody(d *ast.Decl) {
	id := s.typeNames[d.Name]
	target := s.resolveTypeID(&d.Alias.Target)
	if target == types.NoOrigin {
		return
	}
	s.Reg.SetAliasTarget(id, target)
}

func (s *Session) checkSumBody(d *ast.Decl) {
	id := s.typeNames[d.Name]
	members := make([]types.OriginIdx, 0, len(d.Sum.Members))
	seen := make(map[types.OriginIdx]int, len(d.Sum.Members))
	for i := range d.Sum.Members {
		ref := &d.Sum.Members[i]
		m := s.resolveTypeID(ref)
		if m == types.NoOrigin {
			continue
		}
		canon := s.Reg.Canonical(m)
		if at, dup := seen[canon]; dup {
			s.report(s.error(diag.TypDuplicateSumMember, ref.Pos,
				fmt.Sprintf("%s lists member %s twice", d.Name, types.Describe(s.Reg, s.Strs, m))).
				WithNote(s.span(d.Sum.Members[at].Pos), "first occurrence is here"))
			continue
		}
		seen[canon] = i
		members = append(members, m)
	}
	s.Reg.SetSumMembers(id, s.Reg.FlattenMembers(members))
}

// checkAliasCycles runs once every alias target is set; a cycle through
// later declarations is only visible then.
func (s *Session) checkAliasCycles(decls []ast.Decl) {
	for i := range decls {
		d := &decls[i]
		if d.Kind != ast.DeclAlias {
			continue
		}
		id, ok := s.typeNames[d.Name]
		if !ok {
			continue
		}
		if _, err := s.Reg.AliasChase(id); err != nil {
			s.report(s.error(diag.TypAliasCycle, d.Pos,
				fmt.Sprintf("alias %s refers back to itself", d.Name)))
		}
	}
}

func (s *Session) lookupTypeName(name string) (types.OriginIdx, bool) {
	switch name {
	case "bool":
		return s.Reg.Builtins().Bool, true
	case "char":
		return s.Reg.Builtins().Char, true
	case "int":
		return s.Reg.Builtins().Int, true
	case "string":
		return s.Reg.Builtins().String, true
	case "float":
		return s.Reg.Builtins().Float, true
	}
	id, ok := s.typeNames[name]
	return id, ok
}
