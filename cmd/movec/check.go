package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"movec/internal/diagfmt"
	"movec/internal/driver"
	"movec/internal/observ"
	"movec/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.mvu|directory>",
	Short: "Check ownership and move semantics of unit files",
	Long:  `Check verifies that no value is used after being moved and reports the planned resource releases for all *.mvu unit files`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

// init registers CLI flags for the check command used by runCheck.
func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache for unit results")
	checkCmd.Flags().Bool("clear-cache", false, "drop the persistent disk cache before checking")
	checkCmd.Flags().Bool("ui", false, "render interactive progress for directory runs")
	checkCmd.Flags().Bool("plan", false, "print the release plan after diagnostics")
}

// runCheck executes the "check" command: it checks the provided path (single
// unit file or directory), formats the results in the chosen output format,
// and exits non-zero when any unit has errors.
func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	useUI, err := cmd.Flags().GetBool("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	showPlan, err := cmd.Flags().GetBool("plan")
	if err != nil {
		return fmt.Errorf("failed to get plan flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	// Манифест даёт значения по умолчанию, флаги его переопределяют.
	if manifest, ok, err := loadProjectManifest(manifestStartDir(path)); err != nil {
		return err
	} else if ok {
		if !cmd.Flags().Changed("jobs") && manifest.Config.Check.Jobs > 0 {
			jobs = manifest.Config.Check.Jobs
		}
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && manifest.Config.Check.MaxDiagnostics > 0 {
			maxDiagnostics = manifest.Config.Check.MaxDiagnostics
		}
		if !cmd.Flags().Changed("format") && manifest.Config.Check.Format != "" {
			format = manifest.Config.Check.Format
		}
	}

	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:     useColor,
		PathMode:  pathMode,
		ShowNotes: withNotes,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
	}

	var cache *driver.DiskCache
	if enableDiskCache || clearCache {
		cache, err = driver.OpenDiskCache("movec")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear disk cache: %w", err)
			}
		}
		if !enableDiskCache {
			cache = nil
		}
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var (
		fileSet *source.FileSet
		results []*driver.UnitResult
	)
	if st.IsDir() {
		opts := driver.Options{
			MaxDiagnostics: maxDiagnostics,
			Jobs:           jobs,
			Cache:          cache,
		}
		if useUI && format == "pretty" && isTerminal(os.Stdout) {
			fileSet, results, err = runCheckDirWithUI(cmd.Context(), "checking "+path, path, opts)
		} else {
			fileSet, results, err = driver.CheckDir(cmd.Context(), path, opts)
		}
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
	} else {
		fileSet = source.NewFileSet()
		results = []*driver.UnitResult{driver.CheckFile(fileSet, path, maxDiagnostics)}
	}

	exit := 0
	for _, r := range results {
		if r.Err != nil || r.Bag.HasErrors() {
			exit = 1
			break
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		for idx, r := range results {
			if idx > 0 {
				fmt.Fprintln(out)
			}
			if len(results) > 1 && !quiet {
				fmt.Fprintf(out, "== %s ==\n", displayPath(r, fileSet, fullPath))
			}
			r.Bag.Sort()
			diagfmt.Pretty(out, r.Bag, fileSet, prettyOpts)
			if r.Result != nil && r.Result.OK() && !quiet {
				fmt.Fprintln(out, "ok")
			}
			if showPlan && r.Result != nil {
				diagfmt.Plan(out, r.Result, fileSet, pathMode)
			}
			if showTimings && r.Timing != nil {
				fmt.Fprint(out, r.Timing.Summary())
			}
		}
	case "short":
		for _, r := range results {
			r.Bag.Sort()
			diagfmt.Short(out, r.Bag, fileSet, pathMode)
		}
	case "json":
		units := make([]diagfmt.UnitReportJSON, 0, len(results))
		for _, r := range results {
			var timings *observ.Report
			if showTimings {
				timings = r.Timing
			}
			units = append(units, diagfmt.BuildUnitReport(r.Path, r.Cached, r.Result, timings, fileSet, jsonOpts))
		}
		if err := diagfmt.RunJSON(out, units); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	}

	if exit != 0 {
		// Диагностики уже напечатаны, cobra usage не нужен.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// manifestStartDir picks where the movec.toml search starts for a target path.
func manifestStartDir(path string) string {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return path
	}
	return "."
}

func displayPath(r *driver.UnitResult, fs *source.FileSet, fullPath bool) string {
	if r.Bag != nil && r.Err == nil {
		file := fs.Get(r.FileID)
		mode := "auto"
		if fullPath {
			mode = "absolute"
		}
		return file.FormatPath(mode, fs.BaseDir())
	}
	return r.Path
}
