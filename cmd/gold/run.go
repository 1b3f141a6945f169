package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gold/internal/driver"
	"gold/internal/project"
)

const noManifestMessage = "no gold.toml found\nplease specify the file explicitly, e.g.:\n  gold run path/to/main.gld"

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.gld] [args...]",
	Short: "Analyze, compile and execute a gold program",
	Long: `Run compiles a .gld file and calls its entry function (the first one
declared, or --entry). Arguments are parsed by the parameter types and
missing ones default to zero. Without a file, [run].main from gold.toml is used.`,
	RunE: runExecution,
}

func init() {
	runCmd.Flags().String("entry", "", "function to call (default: first declared)")
	runCmd.Flags().Int("max-call-depth", 0, "call depth limit before a stack overflow trap (0: default)")
	runCmd.Flags().SetInterspersed(false)
}

// runTarget is what `gold run` executes after gold.toml defaults.
type runTarget struct {
	path  string
	args  []string
	entry string
}

func resolveRunTarget(args []string, entry string, manifest *project.Manifest) (runTarget, error) {
	if len(args) > 0 && strings.HasSuffix(args[0], project.SourceExt) {
		t := runTarget{path: args[0], args: args[1:], entry: entry}
		if t.entry == "" && manifest != nil && sameFile(manifest.MainPath(), t.path) {
			t.entry = manifest.Config.Run.Entry
		}
		return t, nil
	}
	if manifest == nil {
		return runTarget{}, errors.New(noManifestMessage)
	}
	t := runTarget{path: manifest.MainPath(), args: args, entry: entry}
	if len(t.args) == 0 {
		t.args = manifest.Config.Run.Args
	}
	if t.entry == "" {
		t.entry = manifest.Config.Run.Entry
	}
	return t, nil
}

func runExecution(cmd *cobra.Command, args []string) error {
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return fmt.Errorf("failed to get entry flag: %w", err)
	}
	depth, err := cmd.Flags().GetInt("max-call-depth")
	if err != nil {
		return fmt.Errorf("failed to get max-call-depth flag: %w", err)
	}

	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	settings, err := readSettings(cmd, manifest)
	if err != nil {
		return err
	}
	target, err := resolveRunTarget(args, entry, manifest)
	if err != nil {
		return err
	}

	opts, err := settings.driverOptions(cmd)
	if err != nil {
		return err
	}
	opts.Entry = target.entry
	opts.MaxCallDepth = depth

	res, runErr := driver.Run(cmd.Context(), target.path, target.args, opts)
	if res != nil && res.Unit != nil {
		if err := printDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), res.Unit.Bag, res.Unit.FileSet, settings); err != nil {
			return err
		}
	}
	if settings.timings {
		defer func() { _ = printTimings(cmd.ErrOrStderr(), opts.Timer) }()
	}
	if runErr != nil {
		return runErr
	}
	if res.Diagnosed() {
		return errDiagnosed
	}
	if res.Value != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Value)
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
