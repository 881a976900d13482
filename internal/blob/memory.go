package blob

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore implements Store using an in-memory map.
// This implementation is for testing only - data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates a new empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Put writes the contents of r under key.
func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = data

	return int64(len(data)), nil
}

// Open opens the bytes stored under key for reading.
func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.blobs[key]
	if !exists {
		return nil, ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the bytes stored under key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blobs[key]; !exists {
		return ErrBlobNotFound
	}

	delete(s.blobs, key)

	return nil
}
