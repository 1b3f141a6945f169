package prof_test

import (
	"os"
	"path/filepath"
	"testing"

	"gold/internal/prof"
)

func TestSession_WritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := prof.Config{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	if !cfg.Enabled() {
		t.Fatal("config with paths should be enabled")
	}
	s, err := prof.Start(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sum := 0
	for i := range 100000 {
		sum += i
	}
	_ = sum
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{cfg.CPU, cfg.Mem, cfg.Trace} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestSession_BadPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "cpu.pprof")
	if _, err := prof.Start(prof.Config{CPU: missing}); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
	// a failed start leaves nothing running, so a new session can begin
	s, err := prof.Start(prof.Config{CPU: filepath.Join(t.TempDir(), "cpu.pprof")})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	var nilSession *prof.Session
	if err := nilSession.Stop(); err != nil {
		t.Fatal(err)
	}
	if (prof.Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
}
