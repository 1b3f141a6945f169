package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gold/internal/driver"
)

func TestProgressModel_Events(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check", []string{"a.gld", "b.gld"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.gld", Stage: driver.StageAnalyze, Status: driver.StatusWorking})
	m.Update(eventMsg{File: "b.gld", Stage: driver.StageParse, Status: driver.StatusError, Err: errors.New("boom")})
	m.Update(eventMsg{File: "zzz.gld", Stage: driver.StageParse, Status: driver.StatusDone})

	if got := m.items[0].status; got != "analyzing" {
		t.Errorf("a.gld status = %q, want analyzing", got)
	}
	if got := m.items[1].status; got != "error" {
		t.Errorf("b.gld status = %q, want error", got)
	}
	if m.failed != 1 {
		t.Errorf("failed = %d, want 1", m.failed)
	}
	if p := m.percent(); math.Abs(p-0.7) > 1e-9 {
		t.Errorf("percent = %v, want 0.7", p)
	}

	view := m.View()
	for _, want := range []string{"check, 1 failed", "analyzing", "a.gld", "b.gld: boom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !m.done || !strings.Contains(m.View(), "done: check") {
		t.Errorf("expected finished view, got:\n%s", m.View())
	}
}

func TestProgressModel_CommandLevelEvent(t *testing.T) {
	m := NewProgressModel("run", []string{"a.gld"}, nil).(*progressModel)
	m.applyEvent(driver.Event{Stage: driver.StageJIT, Status: driver.StatusWorking})
	if m.stageLabel != "compiling" {
		t.Fatalf("stageLabel = %q", m.stageLabel)
	}
}

func TestListenForEvent_ClosedChannel(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("check", []string{"a.gld"}, events).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel should produce doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 3, "abc"},
		{"日本語ファイル", 7, "日本..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
