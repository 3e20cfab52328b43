// Package cache persists per-file lint results between runs. An entry is
// reused only when both the file content and the rule set are unchanged.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dejo1307/jsxlint/internal/diag"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// FileName is the cache file inside the cache directory.
const FileName = "results.mp"

// Entry is the cached result for one file.
type Entry struct {
	Hash        string            `msgpack:"hash"`
	Diagnostics []diag.Diagnostic `msgpack:"diagnostics"`
}

type payload struct {
	Schema      uint16           `msgpack:"schema"`
	Fingerprint string           `msgpack:"fingerprint"`
	Files       map[string]Entry `msgpack:"files"`
}

// Cache maps relative file paths to their last results. It is safe for
// concurrent use.
type Cache struct {
	mu          sync.RWMutex
	path        string
	fingerprint string
	files       map[string]Entry
	dirty       bool
}

// Open loads the cache stored in dir. A missing, unreadable or stale cache
// (other schema or fingerprint) yields an empty cache rather than an error;
// only I/O failures other than absence are returned.
func Open(dir, fingerprint string) (*Cache, error) {
	c := &Cache{
		path:        filepath.Join(dir, FileName),
		fingerprint: fingerprint,
		files:       make(map[string]Entry),
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache %s: %w", c.path, err)
	}

	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		// Corrupt caches are rebuilt from scratch.
		c.dirty = true
		return c, nil
	}
	if p.Schema != schemaVersion || p.Fingerprint != fingerprint {
		c.dirty = true
		return c, nil
	}
	if p.Files != nil {
		c.files = p.Files
	}
	return c, nil
}

// Lookup returns the diagnostics cached for path when its content hash
// still matches.
func (c *Cache) Lookup(path, hash string) ([]diag.Diagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.files[path]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return e.Diagnostics, true
}

// Store records the diagnostics produced for path at the given content hash.
func (c *Cache) Store(path, hash string, diags []diag.Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files[path] = Entry{Hash: hash, Diagnostics: diags}
	c.dirty = true
}

// Retain drops every entry whose path is not in keep, so deleted files do
// not accumulate.
func (c *Cache) Retain(keep []string) {
	if c == nil {
		return
	}
	set := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		set[p] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.files {
		if _, ok := set[p]; !ok {
			delete(c.files, p)
			c.dirty = true
		}
	}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// Save writes the cache atomically when it changed since Open.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(&payload{
		Schema:      schemaVersion,
		Fingerprint: c.fingerprint,
		Files:       c.files,
	})
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replacing cache: %w", err)
	}
	c.dirty = false
	return nil
}

// HashContent returns the hex SHA-256 of src.
func HashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
