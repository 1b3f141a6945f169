package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"gold/internal/project"
)

const maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса

var inlineSeeds = []string{
	"",
	"fn { 1 }",
	"// f is a function.\n// Params:\n// Returns: Int\nfn {\n  1 + 2 * 3 ^ 2\n}\n",
	"// f is a function.\n// Params:\n// 'x' is of type Float.\n// Returns: Bool\nfn {\n  if x > 1.5 { true } elif x is 0.0 { false } else { not true }\n}\n",
	"// f is a function.\n// Params:\n// Returns: Void\nfn {\n  let xs = [1, 2, 3]\n  let s = \"a\" + \"b\"\n  while 0 > 1 { println(s) }\n}\n",
	"// f is a function.\n// Params:\n// Returns: Int\nfn {\n  \"unterminated\n}\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every .gld file from the driver fixtures.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "driver", "testdata")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != project.SourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
