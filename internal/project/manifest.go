// Package project locates and decodes gold.toml.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ManifestName = "gold.toml"
	SourceExt    = ".gld"
)

// ErrNoManifest reports that no gold.toml exists above the start directory.
var ErrNoManifest = errors.New("no gold.toml found")

type Config struct {
	Package     PackageConfig     `toml:"package"`
	Run         RunConfig         `toml:"run"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics,omitempty"`
	Build       BuildConfig       `toml:"build,omitempty"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type RunConfig struct {
	Main  string   `toml:"main"`
	Entry string   `toml:"entry,omitempty"`
	Args  []string `toml:"args,omitempty"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max,omitempty"`
	Format string `toml:"format,omitempty"`
}

type BuildConfig struct {
	Emit  string `toml:"emit,omitempty"`
	Cache string `toml:"cache,omitempty"`
}

// Manifest is a decoded gold.toml and where it lives.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	meta   toml.MetaData
}

// IsDefined reports whether the key path was present in the file, e.g.
// IsDefined("diagnostics", "max").
func (m *Manifest) IsDefined(key ...string) bool {
	return m != nil && m.meta.IsDefined(key...)
}

// MainPath resolves [run].main against the project root.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Run.Main)))
}

// Find walks up from startDir to the nearest gold.toml.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		_, err := os.Stat(candidate)
		switch {
		case err == nil:
			return candidate, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoManifest
		}
		dir = parent
	}
}

// Load finds and decodes the manifest governing startDir.
func Load(startDir string) (*Manifest, error) {
	path, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	m := &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg, meta: meta}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	switch {
	case !m.IsDefined("package", "name") || strings.TrimSpace(m.Config.Package.Name) == "":
		return errors.New("missing [package].name")
	case !m.IsDefined("run", "main") || strings.TrimSpace(m.Config.Run.Main) == "":
		return errors.New("missing [run].main")
	case filepath.Ext(m.Config.Run.Main) != SourceExt:
		return fmt.Errorf("[run].main must name a %s file", SourceExt)
	}
	if m.IsDefined("diagnostics", "max") && m.Config.Diagnostics.Max < 0 {
		return errors.New("[diagnostics].max must not be negative")
	}
	if m.IsDefined("diagnostics", "format") {
		switch m.Config.Diagnostics.Format {
		case "pretty", "short", "json":
		default:
			return fmt.Errorf("[diagnostics].format %q is not one of pretty|short|json", m.Config.Diagnostics.Format)
		}
	}
	if m.IsDefined("build", "emit") {
		switch m.Config.Build.Emit {
		case "ir", "llvm":
		default:
			return fmt.Errorf("[build].emit %q is not one of ir|llvm", m.Config.Build.Emit)
		}
	}
	return nil
}

// Encode renders cfg as gold.toml text.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Default is the manifest written by `gold init`.
func Default(name string) Config {
	return Config{
		Package: PackageConfig{Name: name},
		Run:     RunConfig{Main: "main" + SourceExt},
	}
}
