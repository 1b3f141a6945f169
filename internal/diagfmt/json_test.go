package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"gold/internal/diag"
	"gold/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := unboundBag(t)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "error" || d.Code != "SEM3001" || d.Title != "Unbound variable" {
		t.Errorf("unexpected header: %+v", d)
	}
	if d.Location.File != "add.gld" || d.Location.StartLine != 2 || d.Location.StartCol != 9 {
		t.Errorf("unexpected location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Errorf("unexpected notes: %+v", d.Notes)
	}
}

func TestJSON_MaxAndPayload(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.gld", []byte("fn f() Int {\n1 + \"a\"\n}\n"))
	bag := diag.NewBag(10)
	for range 3 {
		d := diag.NewError(diag.SemaOperandTypeMismatch, source.Span{File: id, Start: 13, End: 20}, "operands differ")
		d.Payload = &diag.Payload{Expected: "Number", Actual: "String"}
		bag.Add(d)
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d, want 2 and 1", out.Count, out.Dropped)
	}
	p := out.Diagnostics[0].Payload
	if p == nil || p.Expected != "Number" || p.Actual != "String" {
		t.Errorf("payload = %+v", p)
	}
	// без IncludePositions строки не заполняются
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Errorf("positions leaked: %+v", out.Diagnostics[0].Location)
	}
}

func TestJSON_EmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(1), source.NewFileSet(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"diagnostics\": [],\n  \"count\": 0\n}\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
