package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_ResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.gld", []byte("fn {\n  a + b\n}\n"))

	tests := []struct {
		name  string
		off   uint32
		line  uint32
		col   uint32
	}{
		{"first byte", 0, 1, 1},
		{"newline belongs to its line", 4, 1, 5},
		{"second line start", 5, 2, 1},
		{"inside second line", 7, 2, 3},
		{"last line", 13, 3, 1},
		{"end of file", 15, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start.Line != tt.line || start.Col != tt.col {
				t.Fatalf("offset %d: got %d:%d, want %d:%d", tt.off, start.Line, start.Col, tt.line, tt.col)
			}
		})
	}
}

func TestFile_Line(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.gld", []byte("one\ntwo\nthree")))

	want := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for n, w := range want {
		if got := f.Line(n); got != w {
			t.Errorf("Line(%d) = %q, want %q", n, got, w)
		}
	}
	if got := f.LineCount(); got != 3 {
		t.Errorf("LineCount = %d, want 3", got)
	}
}

func TestFileSet_LoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.gld")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if got, ok := fs.Lookup(path); !ok || got.ID != id {
		t.Fatalf("Lookup(%q) = %v, %v", path, got, ok)
	}
}

func TestFile_TextClamps(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.gld", []byte("hello")))
	if got := f.Text(Span{Start: 1, End: 3}); got != "el" {
		t.Fatalf("Text = %q", got)
	}
	if got := f.Text(Span{Start: 3, End: 99}); got != "lo" {
		t.Fatalf("Text past end = %q", got)
	}
}
