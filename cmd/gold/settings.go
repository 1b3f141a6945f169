package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"gold/internal/driver"
	"gold/internal/observ"
	"gold/internal/project"
)

// cliSettings are the persistent flags after gold.toml defaults were applied.
type cliSettings struct {
	color          bool
	quiet          bool
	maxDiagnostics int
	format         string
	timings        bool
	cache          string
	manifest       *project.Manifest
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
		pterm.EnableColor()
	case "off":
		color.NoColor = true
		pterm.DisableColor()
	case "auto", "":
		if !isTerminal(os.Stderr) {
			pterm.DisableColor()
		}
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// loadManifest finds gold.toml from the working directory; a missing one is
// not an error.
func loadManifest() (*project.Manifest, error) {
	m, err := project.Load(".")
	if errors.Is(err, project.ErrNoManifest) {
		return nil, nil
	}
	return m, err
}

func readSettings(cmd *cobra.Command, manifest *project.Manifest) (cliSettings, error) {
	flags := cmd.Root().PersistentFlags()
	s := cliSettings{manifest: manifest}

	colorMode, err := flags.GetString("color")
	if err != nil {
		return s, fmt.Errorf("failed to get color flag: %w", err)
	}
	s.color = colorMode == "on" || (colorMode == "auto" && isTerminal(os.Stderr))

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.format, err = flags.GetString("format"); err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.cache, err = flags.GetString("cache"); err != nil {
		return s, fmt.Errorf("failed to get cache flag: %w", err)
	}

	// флаги важнее манифеста
	if manifest != nil {
		cfg := manifest.Config
		if !flags.Changed("max-diagnostics") && manifest.IsDefined("diagnostics", "max") {
			s.maxDiagnostics = cfg.Diagnostics.Max
		}
		if !flags.Changed("format") && cfg.Diagnostics.Format != "" {
			s.format = cfg.Diagnostics.Format
		}
		if !flags.Changed("cache") && cfg.Build.Cache != "" {
			s.cache = cfg.Build.Cache
		}
	}

	switch s.format {
	case "pretty", "short", "json":
	default:
		return s, fmt.Errorf("invalid --format value %q (expected pretty|short|json)", s.format)
	}
	if s.maxDiagnostics < 0 {
		return s, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return s, nil
}

// openCache maps the cache setting to an IR cache: off and empty disable it,
// on uses the user cache directory, anything else is a directory.
func openCache(setting string) (*driver.IRCache, error) {
	switch strings.TrimSpace(setting) {
	case "", "off":
		return nil, nil
	case "on":
		return driver.OpenIRCache("")
	default:
		return driver.OpenIRCache(setting)
	}
}

func (s cliSettings) driverOptions(cmd *cobra.Command) (driver.Options, error) {
	cache, err := openCache(s.cache)
	if err != nil {
		return driver.Options{}, fmt.Errorf("open IR cache: %w", err)
	}
	opts := driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Cache:          cache,
		Stdout:         cmd.OutOrStdout(),
	}
	if s.timings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}
