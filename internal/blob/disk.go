package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DiskStore implements Store on top of a local directory tree.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a disk-backed blob store rooted at baseDir,
// creating the directory if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// NewKey returns a fresh opaque blob key. Keys are UUID-based so they
// never collide and never leak the uploaded file name.
func NewKey() string {
	return "uploads/" + uuid.NewString()
}

// Put writes the contents of r under key.
func (s *DiskStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create blob subdirectory: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		return n, fmt.Errorf("failed to write blob: %w", err)
	}

	log.Debug().
		Str("key", key).
		Int64("size", n).
		Msg("Stored blob")

	return n, nil
}

// Open opens the bytes stored under key for reading.
func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return f, nil
}

// Delete removes the bytes stored under key.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}

// resolve maps a key to a path under baseDir, rejecting traversal.
func (s *DiskStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(key)), nil
}
