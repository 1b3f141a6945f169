package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gold/internal/jit"
	"gold/internal/lower"
	"gold/internal/observ"
	"gold/internal/project"
)

const testdata = "../../internal/driver/testdata/"

// execute runs sub under a fresh root so persistent flags start from their
// defaults every time.
func execute(t *testing.T, sub *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	root := &cobra.Command{
		Use:               "gold",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rootCmd.PersistentPreRunE,
	}
	registerPersistentFlags(root)
	sub.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	root.AddCommand(sub)
	t.Cleanup(func() { root.RemoveCommand(sub) })

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{sub.Name()}, args...))
	err := root.ExecuteContext(context.Background())
	runCleanups()
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"diagnosed", errDiagnosed, exitDiagnostics},
		{"usage", errors.New("bad flag"), exitDiagnostics},
		{"trap", fmt.Errorf("exec: %w", &jit.Trap{Code: jit.TrapDivByZero, Func: "div"}), exitTrap},
		{"internal", &lower.InternalError{Fn: "f", Msg: "broken"}, exitInternal},
		{"explicit", &exitError{code: 7}, 7},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Error("explicit modes must win over terminal detection")
	}
}

func TestResolveRunTarget(t *testing.T) {
	dir := t.TempDir()
	m := &project.Manifest{
		Root: dir,
		Config: project.Config{
			Package: project.PackageConfig{Name: "demo"},
			Run:     project.RunConfig{Main: "src/main.gld", Entry: "start", Args: []string{"1", "2"}},
		},
	}

	got, err := resolveRunTarget(nil, "", m)
	if err != nil {
		t.Fatal(err)
	}
	if got.path != filepath.Join(dir, "src", "main.gld") || got.entry != "start" || strings.Join(got.args, ",") != "1,2" {
		t.Errorf("manifest target = %+v", got)
	}

	got, _ = resolveRunTarget([]string{"9"}, "other", m)
	if got.entry != "other" || strings.Join(got.args, ",") != "9" {
		t.Errorf("flags should win over the manifest: %+v", got)
	}

	got, _ = resolveRunTarget([]string{"x.gld", "5"}, "", m)
	if got.path != "x.gld" || got.entry != "" || strings.Join(got.args, ",") != "5" {
		t.Errorf("explicit file target = %+v", got)
	}

	if _, err := resolveRunTarget([]string{"5"}, "", nil); err == nil || !strings.Contains(err.Error(), "no gold.toml") {
		t.Errorf("expected missing manifest error, got %v", err)
	}
}

func TestInitProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")
	res, err := initProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !res.createdMain {
		t.Error("main.gld should be created")
	}
	m, err := project.LoadFile(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("written manifest does not load: %v", err)
	}
	if m.Config.Package.Name != "hello" || m.Config.Run.Main != "main.gld" {
		t.Errorf("manifest = %+v", m.Config)
	}
	if _, err := initProject(dir); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second init: %v", err)
	}

	out, _, err := execute(t, runCmd, filepath.Join(dir, "main.gld"))
	if err != nil {
		t.Fatalf("generated program does not run: %v", err)
	}
	if out != "hello, gold\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdout   string
		stderr   string
		exitCode int
	}{
		{"add", []string{"--entry", "add", testdata + "add.gld", "3", "4"}, "7\n", "", exitOK},
		{"float", []string{"--entry", "half", testdata + "div.gld", "5"}, "2.5\n", "", exitOK},
		{"unbound", []string{"--entry", "add", testdata + "unbound.gld"}, "", "SEM3001", exitDiagnostics},
		{"trap", []string{"--entry", "div", testdata + "div.gld", "1", "0"}, "", "", exitTrap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, runCmd, tt.args...)
			if got := exitCode(err); got != tt.exitCode {
				t.Fatalf("exit code = %d (%v), want %d", got, err, tt.exitCode)
			}
			if stdout != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.stdout)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.stderr)
			}
		})
	}
}

func TestBuildCommand(t *testing.T) {
	out, _, err := execute(t, buildCmd, "--emit", "llvm", testdata+"add.gld")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "define i64 @add(") {
		t.Errorf("llvm output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "add.ir")
	if _, _, err := execute(t, buildCmd, "--emit", "ir", "-o", path, testdata+"add.gld"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "module add\n") {
		t.Errorf("ir output:\n%s", data)
	}
}

func TestCheckCommand(t *testing.T) {
	_, stderr, err := execute(t, checkCmd, "--ui", "off", "--format", "short", "--color", "off", testdata+"pkg")
	if exitCode(err) != exitDiagnostics {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{"SEM3001", "checked 3 files, 2 with errors"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestPrintTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.Track("parse")("")
	var buf bytes.Buffer
	if err := printTimings(&buf, timer); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"phase", "parse", "total"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("timings missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := printTimings(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("nil timer printed %q, %v", buf.String(), err)
	}
}
