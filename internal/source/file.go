package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// Text returns the bytes covered by span, clamped to the file bounds.
func (f *File) Text(span Span) string {
	n := uint32(len(f.Content)) // #nosec G115 -- content length checked in FileSet.Add
	start, end := span.Start, span.End
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return string(f.Content[start:end])
}

// Line returns line lineNum (1-based) without its trailing newline.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	count := uint32(len(f.LineIdx)) // #nosec G115 -- bounded by content length
	size := uint32(len(f.Content))  // #nosec G115 -- content length checked in FileSet.Add

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < count:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < count {
		end = f.LineIdx[lineNum-1]
	} else {
		end = size
	}
	if start > size {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCount returns the number of lines in the file (an empty file has one).
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by content length
}
