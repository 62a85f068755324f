// Package fsstore provides the durable file-backed repositories. Each
// collection is one JSON snapshot file; every mutation loads the full
// collection, mutates it in memory, and atomically replaces the file.
// Readers therefore always observe either the pre- or post-mutation
// snapshot, never an intermediate state.
//
// The full rewrite is an explicit trade-off: it keeps the durability story
// trivial at the cost of O(collection) writes, which is acceptable at this
// system's scale.
package fsstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load decodes the JSON snapshot at path into dst. A missing file is not an
// error: dst is left untouched so the caller sees an empty collection.
func Load(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return nil
}

// Replace atomically rewrites the snapshot at path: encode to a temp file in
// the same directory, fsync, then rename over the previous file. If any step
// fails the prior snapshot remains untouched.
func Replace(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() {
		// No-ops once the rename succeeded.
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}

// Init writes an empty snapshot at path unless one already exists. The
// repositories call it on construction so a fresh deployment starts from an
// empty collection instead of a missing file.
func Init(path string, empty any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat snapshot %s: %w", path, err)
	}
	return Replace(path, empty)
}
