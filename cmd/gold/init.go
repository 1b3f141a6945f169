package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"gold/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new gold project",
	Long: `Initialize a new gold project by writing gold.toml and a main.gld entry
point. Without an argument the current directory is used; a missing directory
is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const defaultMain = `// main is a function.
// Params:
// Returns: Void
fn {
  println("hello, gold")
}
`

type initResult struct {
	dir         string
	createdMain bool
}

func initProject(target string) (initResult, error) {
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return initResult{}, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return initResult{}, fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return initResult{}, fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "gold-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return initResult{}, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	data, err := project.Encode(project.Default(name))
	if err != nil {
		return initResult{}, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o600); err != nil {
		return initResult{}, fmt.Errorf("failed to write manifest: %w", err)
	}

	res := initResult{dir: target}
	mainPath := filepath.Join(target, "main"+project.SourceExt)
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", mainPath, err)
		}
		res.createdMain = true
	}
	return res, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	res, err := initProject(target)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return nil
	}

	rel := res.dir
	if r, err := filepath.Rel(wd, res.dir); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack).Sprint(" Done ")+" initialized gold project in "+rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if res.createdMain {
		fmt.Fprintf(out, "  - main%s\n", project.SourceExt)
	} else {
		fmt.Fprintf(out, "  - main%s (existing)\n", project.SourceExt)
	}
	return nil
}
