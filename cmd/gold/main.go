package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gold/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "gold",
	Short:         "Gold language toolchain",
	Long:          `Gold analyzes, lowers and JIT-executes .gld programs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfiles)
		stopTrace, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTrace)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanups()
	},
}

// cleanups are registered by PersistentPreRunE and must run even when RunE
// fails, newest first.
var cleanups []func()

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	registerPersistentFlags(rootCmd)

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		var silent *exitError
		if !errors.As(err, &silent) || !silent.reported {
			fmt.Fprintf(os.Stderr, "gold: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func registerPersistentFlags(cmd *cobra.Command) {
	// Глобальные флаги
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("format", "pretty", "diagnostics format (pretty|short|json)")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "write a pipeline trace to a file, or - for stderr")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cache", "", "IR cache: on, off or a directory (default from gold.toml)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
