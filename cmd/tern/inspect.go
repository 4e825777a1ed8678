package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tern/internal/driver"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <artifact.tpack>",
	Short: "Inspect a check artifact",
	Long:  "Print the sum-type layouts and expression annotations recorded in a check artifact.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	inspectCmd.Flags().Bool("annotations", false, "include expression annotations")
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	showAnnotations, err := cmd.Flags().GetBool("annotations")
	if err != nil {
		return err
	}

	a, err := driver.ReadArtifact(args[0])
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case "pretty":
		renderArtifact(a, showAnnotations)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: pretty, json)", format)
	}
}

func renderArtifact(a *driver.Artifact, showAnnotations bool) {
	status := "passed"
	if !a.Passed {
		status = "failed"
	}
	fmt.Printf("package %s: %s\n", a.Package, status)
	for _, u := range a.Units {
		fmt.Printf("\nunit %s\n", u.Name)
		for _, s := range u.Sums {
			fmt.Printf("  sum %s: disc=%s tag=%dB payload=%dB@%d size=%dB align=%d\n",
				s.Name, s.Disc, s.TagSize, s.PayloadSize, s.PayloadOffset, s.Size, s.Align)
			for _, t := range s.Tags {
				fmt.Printf("    %3d %s\n", t.Tag, t.Member)
			}
		}
		if showAnnotations {
			for _, an := range u.Annotations {
				fmt.Printf("  %d..%d: %s\n", an.Start, an.End, an.Type)
			}
		}
		for _, d := range u.Diags {
			fmt.Printf("  %s %s: %s\n", d.Severity, d.ID, d.Message)
		}
	}
}
