package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"movec/internal/diagfmt"
	"movec/internal/driver"
	"movec/internal/source"
)

var planCmd = &cobra.Command{
	Use:   "plan [flags] <file.mvu>",
	Short: "Print the release plan for a unit file",
	Long:  `Plan runs the ownership pass and prints, in execution order, where each owned value's resource is released`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	planCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runPlan(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	fileSet := source.NewFileSet()
	res := driver.CheckFile(fileSet, path, maxDiagnostics)
	if res.Err != nil {
		return fmt.Errorf("check failed: %w", res.Err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		// План валиден и при нарушениях: нарушение не отменяет релизы
		// остальных значений.
		if !res.Result.OK() {
			fmt.Fprintf(out, "warning: %d violation(s) found, plan may be partial\n", len(res.Result.Violations))
		}
		diagfmt.Plan(out, res.Result, fileSet, pathMode)
	case "json":
		jsonOpts := diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode}
		report := diagfmt.BuildUnitReport(res.Path, res.Cached, res.Result, nil, fileSet, jsonOpts)
		if err := diagfmt.RunJSON(out, []diagfmt.UnitReportJSON{report}); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !res.Result.OK() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
