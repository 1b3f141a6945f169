package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gold/internal/backend/llvm"
	"gold/internal/driver"
	"gold/internal/ir"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.gld]",
	Short: "Compile a gold file and print its IR",
	Long: `Build analyzes and lowers a .gld file, then writes the lowered module as
gold IR (--emit ir) or textual LLVM IR (--emit llvm).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("emit", "", "output kind (ir|llvm, default from gold.toml or ir)")
	buildCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}

func runBuild(cmd *cobra.Command, args []string) error {
	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	settings, err := readSettings(cmd, manifest)
	if err != nil {
		return err
	}
	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case manifest != nil:
		path = manifest.MainPath()
	default:
		return errors.New("no gold.toml found\nplease specify the file explicitly, e.g.:\n  gold build path/to/main.gld")
	}
	if emit == "" {
		emit = "ir"
		if manifest != nil && manifest.Config.Build.Emit != "" {
			emit = manifest.Config.Build.Emit
		}
	}
	if emit != "ir" && emit != "llvm" {
		return fmt.Errorf("invalid --emit value %q (expected ir|llvm)", emit)
	}

	opts, err := settings.driverOptions(cmd)
	if err != nil {
		return err
	}
	u, err := driver.Compile(cmd.Context(), path, opts)
	if u != nil {
		if perr := printDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), u.Bag, u.FileSet, settings); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if u.HasErrors() {
		return errDiagnosed
	}

	text := ir.Format(u.Module)
	if emit == "llvm" {
		if text, err = llvm.Emit(u.Module); err != nil {
			return fmt.Errorf("llvm: %w", err)
		}
	}

	if settings.timings {
		if err := printTimings(cmd.ErrOrStderr(), opts.Timer); err != nil {
			return err
		}
	}
	if output == "" || output == "-" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(output, []byte(text), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if !settings.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	}
	return nil
}
