package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"gold/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [paths...]",
	Short: "Analyze gold files without running them",
	Long: `Check parses and analyzes every .gld file under the given files and
directories in parallel. Without paths it checks the project root, or the
current directory outside a project.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().IntP("jobs", "j", 0, "files analyzed in parallel (0: GOMAXPROCS)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	settings, err := readSettings(cmd, manifest)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
		if manifest != nil {
			paths = []string{manifest.Root}
		}
	}
	files, err := driver.ExpandPaths(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .gld files found in %v", paths)
	}

	opts, err := settings.driverOptions(cmd)
	if err != nil {
		return err
	}

	var results []driver.CheckResult
	if settings.format != "json" && shouldUseTUI(mode) {
		results, err = runCheckWithUI(cmd.Context(), "gold check", files, jobs, opts)
	} else {
		results, err = driver.CheckPaths(cmd.Context(), files, jobs, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
			continue
		}
		if r.Unit.HasErrors() {
			failed++
		}
		if err := printDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), r.Unit.Bag, r.Unit.FileSet, settings); err != nil {
			return err
		}
	}

	if settings.timings {
		if err := printTimings(cmd.ErrOrStderr(), opts.Timer); err != nil {
			return err
		}
	}
	if !settings.quiet && settings.format != "json" {
		fmt.Fprintln(cmd.ErrOrStderr(), checkSummary(len(results), failed))
	}
	if failed > 0 {
		return errDiagnosed
	}
	return nil
}

func checkSummary(total, failed int) string {
	noun := "files"
	if total == 1 {
		noun = "file"
	}
	if failed == 0 {
		return pterm.FgLightGreen.Sprintf("checked %d %s, no errors", total, noun)
	}
	return pterm.FgRed.Sprintf("checked %d %s, %d with errors", total, noun, failed)
}
