package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tern/internal/ast"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new tern project",
	Long: `Initialize a new tern project by creating a project manifest (tern.toml)
and an example unit file (main.tu). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will
be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "tern-project"
	}

	manifestPath := filepath.Join(target, "tern.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	manifest := buildDefaultManifest(name)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	unitPath := filepath.Join(target, "main.tu")
	if _, err := os.Stat(unitPath); errors.Is(err, os.ErrNotExist) {
		if err := writeExampleUnit(unitPath); err != nil {
			return fmt.Errorf("failed to write main.tu: %w", err)
		}
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Printf("initialized tern project %s in %s\n", name, rel)
	fmt.Println("created tern.toml")
	fmt.Println("created main.tu")
	return nil
}

func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[[unit]]
name = "main"
path = "main.tu"

[check]
kind_depth = 64
max_diagnostics = 100

[target]
triple = "x86_64-linux-gnu"
pointer_size = 8
pointer_align = 8
`, name)
}

// writeExampleUnit encodes a small starter unit: two unit records, a sum
// over them, and a binding built with a constructor. Positions index into
// the embedded source.
func writeExampleUnit(path string) error {
	const src = "record Red()\nrecord Blue()\ntype Color = Red | Blue\nlet c: Color = Red()\n"
	u := &ast.Unit{
		Schema:     ast.UnitSchema,
		Name:       "main",
		SourcePath: "main.tern",
		Source:     []byte(src),
		Decls: []ast.Decl{
			{Kind: ast.DeclRecord, Name: "Red", Pos: ast.Pos{Start: 0, End: 12}, Record: &ast.RecordDecl{}},
			{Kind: ast.DeclRecord, Name: "Blue", Pos: ast.Pos{Start: 13, End: 26}, Record: &ast.RecordDecl{}},
			{Kind: ast.DeclSum, Name: "Color", Pos: ast.Pos{Start: 27, End: 50}, Sum: &ast.SumDecl{
				Members: []ast.TypeRef{
					{Kind: ast.RefNamed, Name: "Red", Pos: ast.Pos{Start: 40, End: 43}},
					{Kind: ast.RefNamed, Name: "Blue", Pos: ast.Pos{Start: 46, End: 50}},
				},
			}},
		},
		Stmts: []ast.Stmt{
			{Kind: ast.StmtLet, Pos: ast.Pos{Start: 51, End: 71}, Let: &ast.LetStmt{
				Name: "c",
				Type: &ast.TypeRef{Kind: ast.RefNamed, Name: "Color", Pos: ast.Pos{Start: 58, End: 63}},
				Value: ast.Expr{
					Kind: ast.ExprCall,
					Pos:  ast.Pos{Start: 66, End: 71},
					Call: &ast.CallExpr{Callee: "Red"},
				},
			}},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ast.EncodeUnit(f, u); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
