package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tern/internal/diagfmt"
	"tern/internal/driver"
	"tern/internal/project"
	"tern/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Type-check a tern project",
	Long:  "Type-check every unit listed in tern.toml and lower its sum types. The path may point at the manifest or any directory beneath it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Int("jobs", 0, "max parallel unit checks (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().String("artifact", "", "write the check artifact to this path")
	checkCmd.Flags().Bool("annotations", false, "print the inferred type of every expression")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format: %s (supported: pretty, json)", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	artifactPath, err := cmd.Flags().GetString("artifact")
	if err != nil {
		return err
	}
	showAnnotations, err := cmd.Flags().GetBool("annotations")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}
	m, err := loadManifest(startDir)
	if err != nil {
		return err
	}
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		m.Config.Check.MaxDiagnostics = maxDiagnostics
	}

	opts := driver.Options{Jobs: jobs, Timings: showTimings}
	useTUI := format == "pretty" && !quiet && shouldUseTUI(uiModeValue)

	var res *driver.ProjectResult
	if useTUI {
		res, err = runCheckWithUI(cmd.Context(), m, opts)
	} else {
		res, err = driver.CheckProject(cmd.Context(), m, opts)
	}
	if err != nil {
		return err
	}

	switch format {
	case "json":
		if err := renderCheckJSON(res, withNotes); err != nil {
			return err
		}
	default:
		renderCheckPretty(res, diagfmt.PrettyOpts{
			Color:     useColor(colorFlag),
			ShowNotes: withNotes,
		}, quiet, showAnnotations)
	}

	if showTimings {
		fmt.Fprintf(os.Stderr, "checked %d units in %.2f ms\n", len(res.Units), res.Timing.TotalMS)
	}

	if artifactPath != "" {
		if err := driver.WriteArtifact(artifactPath, driver.BuildArtifact(res)); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
		if !quiet {
			fmt.Printf("artifact written to %s\n", artifactPath)
		}
	}

	if !res.Passed {
		os.Exit(1)
	}
	return nil
}

// loadManifest resolves tern.toml from the given path, which may be the
// manifest itself or any directory beneath the project root.
func loadManifest(startDir string) (*project.Manifest, error) {
	if strings.HasSuffix(startDir, "tern.toml") {
		return project.Load(startDir)
	}
	path, found, err := project.FindTernToml(startDir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no tern.toml found in %s or any parent directory", startDir)
	}
	return project.Load(path)
}

func renderCheckPretty(res *driver.ProjectResult, opts diagfmt.PrettyOpts, quiet, showAnnotations bool) {
	for i := range res.Units {
		u := &res.Units[i]
		if !quiet {
			status := "ok"
			if !u.Passed {
				status = "failed"
			}
			fmt.Printf("unit %s: %s\n", u.Name, status)
		}
		diagfmt.Pretty(os.Stdout, u.Diagnostics, unitFiles(u), opts)
		if showAnnotations && u.Result != nil {
			for _, a := range u.Result.Annotations {
				fmt.Printf("  %d..%d: %s\n", a.Pos.Start, a.Pos.End, a.Text)
			}
		}
	}
}

type unitJSON struct {
	Name        string                   `json:"name"`
	Passed      bool                     `json:"passed"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
}

type projectJSON struct {
	Package string     `json:"package"`
	Passed  bool       `json:"passed"`
	Units   []unitJSON `json:"units"`
	TotalMS float64    `json:"total_ms"`
}

func renderCheckJSON(res *driver.ProjectResult, withNotes bool) error {
	opts := diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: withNotes}
	out := projectJSON{
		Package: res.Package,
		Passed:  res.Passed,
		Units:   make([]unitJSON, 0, len(res.Units)),
		TotalMS: res.Timing.TotalMS,
	}
	for i := range res.Units {
		u := &res.Units[i]
		out.Units = append(out.Units, unitJSON{
			Name:        u.Name,
			Passed:      u.Passed,
			Diagnostics: diagfmt.Convert(u.Diagnostics, unitFiles(u), opts),
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func unitFiles(u *driver.UnitResult) *source.FileSet {
	if u.Result == nil {
		return nil
	}
	return u.Result.Files
}
