package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gold/internal/diagfmt"
	"gold/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.gld",
	Short: "Dump the tokens of a gold source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("tokens", "pretty", "token output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("tokens")
	if err != nil {
		return fmt.Errorf("failed to get tokens flag: %w", err)
	}
	settings, err := readSettings(cmd, nil)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], settings.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// диагностика лексера идёт в stderr, токены всё равно печатаем
	if err := printDiagnostics(cmd.ErrOrStderr(), cmd.ErrOrStderr(), result.Bag, result.FileSet, settings); err != nil {
		return err
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown token format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnosed
	}
	return nil
}
