package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColored_PlainWhenColorDisabled(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	if got := Colored(); got != Version {
		t.Fatalf("Colored() = %q, want %q", got, Version)
	}
}

func TestColored_KeepsSuffix(t *testing.T) {
	prevColor, prevVersion := color.NoColor, Version
	color.NoColor = false
	Version = "1.2.3-rc1"
	t.Cleanup(func() { color.NoColor, Version = prevColor, prevVersion })

	got := Colored()
	if !strings.HasSuffix(got, "-rc1") || !strings.Contains(got, "\x1b[") {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestBanner(t *testing.T) {
	prev := [3]string{Version, GitCommit, BuildDate}
	t.Cleanup(func() { Version, GitCommit, BuildDate = prev[0], prev[1], prev[2] })

	tests := []struct {
		name            string
		commit, date    string
		wantIn, wantNot []string
	}{
		{"bare", "", "", []string{"gold 9.9.9 ("}, []string{"commit:", "built:"}},
		{"full", "abc123", "2026-01-01", []string{"commit: abc123", "built:  2026-01-01"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit, BuildDate = "9.9.9", tt.commit, tt.date
			got := Banner(false)
			for _, s := range tt.wantIn {
				if !strings.Contains(got, s) {
					t.Errorf("Banner missing %q:\n%s", s, got)
				}
			}
			for _, s := range tt.wantNot {
				if strings.Contains(got, s) {
					t.Errorf("Banner unexpectedly has %q:\n%s", s, got)
				}
			}
		})
	}
}
