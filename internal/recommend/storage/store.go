// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const fileSuffix = ".gob.gz"

var (
	// ErrNotFound is returned when no artifact exists for a name or version.
	ErrNotFound = errors.New("artifact not found")

	// ErrChecksumMismatch is returned when a stored payload fails verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// ArtifactMetadata describes one stored artifact version.
type ArtifactMetadata struct {
	// Name is the artifact name (e.g., "price_model").
	Name string `json:"name"`

	// Version is monotonically increasing per name.
	Version int `json:"version"`

	// TrainedAt is when the artifact was fitted.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// TrainingRows is the number of labeled rows used for fitting.
	TrainingRows int `json:"training_rows"`

	// Locations is the encoder vocabulary size.
	Locations int `json:"locations"`

	// Fingerprint identifies the catalog the artifact was trained on.
	Fingerprint string `json:"fingerprint"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long fitting took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store is a versioned, checksummed file store. Writes go to a temporary
// file in the same directory and are renamed into place, so a reader sees
// either the previous version or the complete new one.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per name
	versions map[string]int
}

// NewStore creates a store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	s.removeStaleTemp()

	return s, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes data under name and version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data interface{}, meta ArtifactMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.Contains(name, string(filepath.Separator)) {
		return fmt.Errorf("invalid artifact name %q", name)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(data); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(s.path(name, version), storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}); err != nil {
		return err
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}
	return nil
}

func (s *Store) writeAtomic(target string, sf storedFile) error { //nolint:gocritic // written once
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()        //nolint:errcheck // already failing
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		return fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("publish artifact file: %w", err)
	}
	committed = true
	return nil
}

// Load reads name at version into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}

	sf, err := s.readFile(s.path(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	return &sf.Metadata, nil
}

// LatestVersion returns the newest version stored under name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// List returns metadata for the latest version of every name.
func (s *Store) List(ctx context.Context) ([]ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ArtifactMetadata, 0, len(s.versions))
	for name, version := range s.versions {
		sf, err := s.readFile(s.path(name, version))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Prune keeps the newest keep versions of name and removes the rest.
func (s *Store) Prune(ctx context.Context, name string, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.versionsOf(name)
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	for _, v := range versions[min(keep, len(versions)):] {
		_ = os.Remove(s.path(name, v)) //nolint:errcheck // best-effort cleanup of old versions
	}
	return nil
}

func (s *Store) readFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from a validated name
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return &sf, nil
}

func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name, version, ok := parseFilename(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

func (s *Store) versionsOf(name string) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		n, v, ok := parseFilename(entry.Name())
		if !entry.IsDir() && ok && n == name {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// removeStaleTemp deletes temp files left by a crash mid-write.
func (s *Store) removeStaleTemp() {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, ".tmp-*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m) //nolint:errcheck // best-effort cleanup
	}
}

func (s *Store) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}

// parseFilename splits "price_model_v3.gob.gz" into ("price_model", 3).
func parseFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, fileSuffix)
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx < 1 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:idx], version, true
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(ArtifactMetadata{})
	gob.Register(storedFile{})
}
