// Package snapshot caches resolved schemas on disk, zstd-compressed and keyed
// by the identity of the pages they were built from.
package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jcdickinson/doxyschema/internal/schema"
	"github.com/klauspost/compress/zstd"
)

// formatVersion is mixed into every key so that changes to the snapshot
// layout or the extraction rules never reuse stale files.
const formatVersion = "doxyschema-snapshot-v1"

// Key hashes the name, path, size and modification time of every entry.
func Key(entries []schema.Entry) (string, error) {
	h := sha256.New()
	fmt.Fprintln(h, formatVersion)
	for _, e := range entries {
		info, err := os.Stat(e.Path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", e.Path, err)
		}
		fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d\n", e.Name, e.Path, info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// path returns the sharded file path for a key: snapshots/<first2>/<rest>.json.zst
func path(dir, key string) string {
	return filepath.Join(dir, "snapshots", key[:2], key[2:]+".json.zst")
}

// Save compresses and writes snap under key.
func Save(dir, key string, snap *schema.Snapshot) error {
	p := path(dir, key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	w, err := zstd.NewWriter(tmp)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		w.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("installing snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot stored under key. A missing snapshot yields an
// error wrapping fs.ErrNotExist.
func Load(dir, key string) (*schema.Snapshot, error) {
	f, err := os.Open(path(dir, key))
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	var snap schema.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

