package main

import (
	"io"
	"os"

	"gold/internal/diag"
	"gold/internal/diagfmt"
	"gold/internal/source"
)

// printDiagnostics writes bag in the selected format. JSON goes to stdout so
// it can be piped; the human formats go to stderr.
func printDiagnostics(stdout, stderr io.Writer, bag *diag.Bag, fs *source.FileSet, s cliSettings) error {
	if bag == nil || (bag.Len() == 0 && bag.Dropped() == 0) {
		return nil
	}
	switch s.format {
	case "json":
		return diagfmt.JSON(stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			BaseDir:          workingDir(),
		})
	case "short":
		diagfmt.Short(stderr, bag, fs, true)
	default:
		diagfmt.Pretty(stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			BaseDir:   workingDir(),
			ShowNotes: true,
		})
	}
	return nil
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
