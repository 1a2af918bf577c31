// Package state persists the sync cache and the published snapshot as
// sealed blobs, replacing files atomically.
package state

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/vmunix/arrsnap/internal/library"
	"github.com/vmunix/arrsnap/internal/vault"
)

const (
	DefaultCacheFile    = "cache.enc"
	DefaultSnapshotFile = "library.enc"
)

// ErrCacheUnreadable means a cache file exists but could not be opened or
// decoded. Callers rebuild from scratch.
var ErrCacheUnreadable = errors.New("cache unreadable")

// Encoding is how the sealed snapshot is written.
type Encoding string

const (
	EncodingBase64 Encoding = "base64" // text-safe, default
	EncodingRaw    Encoding = "raw"
)

// ParseEncoding validates an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingBase64:
		return EncodingBase64, nil
	case EncodingRaw:
		return EncodingRaw, nil
	}
	return "", fmt.Errorf("unknown snapshot encoding %q (want base64 or raw)", s)
}

// Options configures a Store.
type Options struct {
	Dir          string
	CacheFile    string
	SnapshotFile string
	Encoding     Encoding
	Password     string
	Vault        *vault.Vault // nil uses the default iteration count
}

// Store reads and writes sealed state files.
type Store struct {
	fs           afero.Fs
	cachePath    string
	snapshotPath string
	encoding     Encoding
	password     string
	vault        *vault.Vault
}

// New creates a Store on fs.
func New(fs afero.Fs, opts Options) *Store {
	if opts.CacheFile == "" {
		opts.CacheFile = DefaultCacheFile
	}
	if opts.SnapshotFile == "" {
		opts.SnapshotFile = DefaultSnapshotFile
	}
	if opts.Encoding == "" {
		opts.Encoding = EncodingBase64
	}
	if opts.Vault == nil {
		opts.Vault = vault.New()
	}
	return &Store{
		fs:           fs,
		cachePath:    filepath.Join(opts.Dir, opts.CacheFile),
		snapshotPath: filepath.Join(opts.Dir, opts.SnapshotFile),
		encoding:     opts.Encoding,
		password:     opts.Password,
		vault:        opts.Vault,
	}
}

// CachePath returns the cache file location.
func (s *Store) CachePath() string { return s.cachePath }

// SnapshotPath returns the snapshot file location.
func (s *Store) SnapshotPath() string { return s.snapshotPath }

// LoadCache reads the previous cache. A missing file yields an empty cache.
func (s *Store) LoadCache() (*library.Cache, error) {
	blob, err := afero.ReadFile(s.fs, s.cachePath)
	if errors.Is(err, os.ErrNotExist) {
		return library.NewCache(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	plaintext, err := s.vault.Open(blob, s.password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheUnreadable, err)
	}

	var c library.Cache
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCacheUnreadable, err)
	}
	c.Init()
	return &c, nil
}

// SaveCache seals and writes the cache.
func (s *Store) SaveCache(c *library.Cache) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	blob, err := s.vault.Seal(data, s.password)
	if err != nil {
		return fmt.Errorf("seal cache: %w", err)
	}
	if err := writeAtomic(s.fs, s.cachePath, blob, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// SaveSnapshot seals and writes the snapshot in the configured encoding.
// It returns the plaintext and sealed sizes.
func (s *Store) SaveSnapshot(snap *library.Snapshot) (plain, sealed int, err error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, 0, fmt.Errorf("encode snapshot: %w", err)
	}
	blob, err := s.vault.Seal(data, s.password)
	if err != nil {
		return 0, 0, fmt.Errorf("seal snapshot: %w", err)
	}

	out := blob
	if s.encoding == EncodingBase64 {
		out = []byte(base64.StdEncoding.EncodeToString(blob))
	}
	if err := writeAtomic(s.fs, s.snapshotPath, out, 0o644); err != nil {
		return 0, 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(data), len(blob), nil
}

// LoadSnapshot reads and opens the published snapshot.
func (s *Store) LoadSnapshot() (*library.Snapshot, error) {
	raw, err := afero.ReadFile(s.fs, s.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	blob := raw
	if s.encoding == EncodingBase64 {
		blob, err = base64.StdEncoding.DecodeString(string(bytes.TrimSpace(raw)))
		if err != nil {
			return nil, fmt.Errorf("decode snapshot base64: %w", err)
		}
	}

	plaintext, err := s.vault.Open(blob, s.password)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}

	var snap library.Snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// writeAtomic writes data to a temp file next to path, syncs it and renames
// it over path. On failure path is left as it was.
func writeAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() { _ = fs.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
