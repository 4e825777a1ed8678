// Package driver orchestrates a whole-project check: it resolves the
// manifest's units, decodes each front-end unit, runs one checker session
// per unit in parallel, and assembles the exported artifact. Sessions share
// nothing; results come back in manifest order regardless of scheduling.
package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"tern/internal/ast"
	"tern/internal/checker"
	"tern/internal/diag"
	"tern/internal/layout"
	"tern/internal/observ"
	"tern/internal/project"
	"tern/internal/source"
)

// Options tunes a project check.
type Options struct {
	// Jobs is the parallelism limit. Zero selects GOMAXPROCS.
	Jobs int
	// Observer, when set, receives unit progress events.
	Observer ProgressObserver
	// Timings appends an informational diagnostic per unit carrying its
	// wall-clock check time.
	Timings bool
}

// UnitResult is the outcome of checking one unit.
type UnitResult struct {
	Name   string
	Path   string
	Passed bool

	// Result is nil when the unit file could not be loaded or decoded;
	// Diagnostics carries the failure either way.
	Result      *checker.Result
	Diagnostics []diag.Diagnostic

	Elapsed time.Duration
}

// ProjectResult aggregates every unit of one manifest.
type ProjectResult struct {
	Package string
	Passed  bool
	Units   []UnitResult
	Timing  observ.Report
}

// CheckProject checks every unit the manifest names. Manifest-level
// problems (duplicate names, missing files) fail the project but do not
// stop the remaining units from being checked.
func CheckProject(ctx context.Context, m *project.Manifest, opts Options) (*ProjectResult, error) {
	timer := observ.NewTimer()
	total := timer.Begin("check")

	prjBag := diag.NewBag(m.Config.Check.MaxDiagnostics)
	m.Validate(prjBag)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	units := m.Config.Units
	results := make([]UnitResult, len(units))
	byName := make(map[string]project.UnitConfig, len(units))
	for _, u := range units {
		byName[u.Name] = u
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(units), 1)))

	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			opts.observe(UnitEvent{Name: u.Name, Index: i, Total: len(units), Status: UnitStart})
			start := time.Now()
			results[i] = checkOneUnit(m, u, byName)
			results[i].Elapsed = time.Since(start)
			if opts.Timings {
				results[i].Diagnostics = append(results[i].Diagnostics, diag.New(
					diag.SevInfo, diag.ObsTimings, source.Span{},
					fmt.Sprintf("unit %s checked in %s", u.Name, results[i].Elapsed.Round(time.Microsecond))))
			}
			opts.observe(UnitEvent{
				Name: u.Name, Index: i, Total: len(units),
				Status: UnitEnd, Passed: results[i].Passed, Elapsed: results[i].Elapsed,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	timer.End(total, "")

	passed := !prjBag.HasErrors()
	for i := range results {
		if !results[i].Passed {
			passed = false
		}
	}
	out := &ProjectResult{
		Package: m.Config.Package.Name,
		Passed:  passed,
		Units:   results,
		Timing:  timer.Report(),
	}
	if prjBag.Len() > 0 {
		// Manifest diagnostics ride on a synthetic unit so every renderer
		// sees them.
		out.Units = append([]UnitResult{{
			Name:        m.Config.Package.Name,
			Path:        m.Path,
			Passed:      !prjBag.HasErrors(),
			Diagnostics: prjBag.Items(),
		}}, out.Units...)
	}
	return out, nil
}

func checkOneUnit(m *project.Manifest, u project.UnitConfig, byName map[string]project.UnitConfig) UnitResult {
	path := m.UnitPath(u)
	out := UnitResult{Name: u.Name, Path: path}

	unit, diags := readUnit(path)
	if unit == nil {
		out.Diagnostics = diags
		return out
	}

	sess := checker.NewSession(checker.Options{
		KindDepth:      m.Config.Check.KindDepth,
		MaxDiagnostics: m.Config.Check.MaxDiagnostics,
		Target: layout.Target{
			Triple:   m.Config.Target.Triple,
			PtrSize:  m.Config.Target.PointerSize,
			PtrAlign: m.Config.Target.PointerAlign,
		},
	})
	injectImports(sess, m, unit, byName)
	res := sess.CheckUnit(unit)
	out.Result = res
	out.Passed = res.Passed
	out.Diagnostics = res.Diagnostics
	return out
}

// injectImports resolves the unit's declared imports against the manifest
// and injects each dependency's exports into the session. Failures land in
// the session's bag before CheckUnit runs, so they sort with the unit's
// own diagnostics and fail the unit. The zero span file is the unit's own
// source, the first file the session registers.
func injectImports(sess *checker.Session, m *project.Manifest, unit *ast.Unit, byName map[string]project.UnitConfig) {
	for _, imp := range unit.Imports {
		sp := source.Span{Start: imp.Pos.Start, End: imp.Pos.End}
		if imp.Unit == unit.Name {
			sess.Bag.Add(diag.NewError(diag.PrjUnknownImport, sp,
				fmt.Sprintf("unit %q imports itself", imp.Unit)))
			continue
		}
		dep, ok := byName[imp.Unit]
		if !ok {
			sess.Bag.Add(diag.NewError(diag.PrjUnknownImport, sp,
				fmt.Sprintf("imported unit %q is not in the manifest", imp.Unit)))
			continue
		}
		depUnit, diags := readUnit(m.UnitPath(dep))
		if depUnit == nil {
			for _, d := range diags {
				sess.Bag.Add(d)
			}
			continue
		}
		sess.ImportDecls(depUnit.Decls)
	}
}

func readUnit(path string) (*ast.Unit, []diag.Diagnostic) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioDiag(diag.IOLoadFileError, "failed to load unit file: "+err.Error())
	}
	defer f.Close()

	unit, err := ast.DecodeUnit(f)
	if err != nil {
		return nil, ioDiag(diag.IOBadUnitFile, "failed to decode unit file: "+err.Error())
	}
	return unit, nil
}

func ioDiag(code diag.Code, msg string) []diag.Diagnostic {
	return []diag.Diagnostic{diag.NewError(code, source.Span{}, msg)}
}
