package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"gold/internal/ir"
	"gold/internal/source"
	"gold/internal/version"
)

// Bump when the payload or the ir structs change shape.
const irCacheSchema uint16 = 1

// IRCache keeps lowered modules on disk, keyed by source content. A nil
// *IRCache is a valid, always-missing cache.
type IRCache struct {
	mu  sync.RWMutex
	dir string
}

type irPayload struct {
	Schema  uint16
	Version string
	Key     string
	Path    string
	Module  *ir.Module
}

// OpenIRCache uses dir, or $XDG_CACHE_HOME/gold (~/.cache/gold) when dir is
// empty.
func OpenIRCache(dir string) (*IRCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "gold")
	}
	if err := os.MkdirAll(filepath.Join(dir, "ir"), 0o755); err != nil {
		return nil, fmt.Errorf("ir cache: %w", err)
	}
	return &IRCache{dir: dir}, nil
}

func (c *IRCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key derives the cache key of a source file. The compiler version takes
// part so a new build never reads stale IR.
func (c *IRCache) Key(f *source.File) string {
	if c == nil || f == nil {
		return ""
	}
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], irCacheSchema)
	h.Write(schema[:])
	h.Write([]byte(version.Version))
	h.Write(f.Hash[:])
	return hex.EncodeToString(h.Sum(nil))
}

func (c *IRCache) pathFor(key string) string {
	return filepath.Join(c.dir, "ir", key+".mp")
}

// Get returns the module stored under key. Corrupt or outdated entries read
// as misses.
func (c *IRCache) Get(key string) (*ir.Module, bool, error) {
	if c == nil || key == "" {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var p irPayload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, false, nil
	}
	if p.Schema != irCacheSchema || p.Version != version.Version || p.Key != key || p.Module == nil {
		return nil, false, nil
	}
	return p.Module, true, nil
}

// Put stores mod atomically: write to a temp file, then rename.
func (c *IRCache) Put(key, path string, mod *ir.Module) (err error) {
	if c == nil || key == "" || mod == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(target), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(&irPayload{Schema: irCacheSchema, Version: version.Version, Key: key, Path: path, Module: mod}); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), target)
}

// DropAll removes every cached module.
func (c *IRCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "ir")); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(c.dir, "ir"), 0o755)
}
