package driver_test

import (
	"context"
	"sync"
	"testing"

	"gold/internal/diag"
	"gold/internal/driver"
)

func TestExpandPaths(t *testing.T) {
	got, err := driver.ExpandPaths([]string{"testdata/pkg", "testdata/add.gld", "testdata/pkg/a.gld"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"testdata/add.gld", "testdata/pkg/a.gld", "testdata/pkg/sub/b.gld", "testdata/pkg/sub/broken.gld"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if _, err := driver.ExpandPaths([]string{"testdata/missing"}); err == nil {
		t.Fatal("missing path accepted")
	}
}

func TestCheckPaths(t *testing.T) {
	var mu sync.Mutex
	final := map[string]driver.Status{}
	sink := driver.SinkFunc(func(ev driver.Event) {
		if ev.Stage != driver.StageAnalyze {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		final[ev.File] = ev.Status
	})

	results, err := driver.CheckPaths(context.Background(), []string{"testdata/pkg"}, 2, driver.Options{Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %+v", results)
	}
	wantCodes := map[string]diag.Code{
		"testdata/pkg/sub/b.gld":      diag.SemaUnboundVariable,
		"testdata/pkg/sub/broken.gld": diag.SynMissingHeader,
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Path, r.Err)
		}
		want, bad := wantCodes[r.Path]
		items := r.Unit.Bag.Items()
		switch {
		case !bad && len(items) != 0:
			t.Errorf("%s: unexpected diagnostics %+v", r.Path, items)
		case bad && (len(items) != 1 || items[0].Code != want):
			t.Errorf("%s: diagnostics %+v, want %s", r.Path, items, want)
		}
		wantStatus := driver.StatusDone
		if bad {
			wantStatus = driver.StatusError
		}
		if final[r.Path] != wantStatus {
			t.Errorf("%s: progress status %s, want %s", r.Path, final[r.Path], wantStatus)
		}
	}
}

func TestCheckPaths_NoFiles(t *testing.T) {
	if _, err := driver.CheckPaths(context.Background(), []string{t.TempDir()}, 0, driver.Options{}); err == nil {
		t.Fatal("empty directory accepted")
	}
}
