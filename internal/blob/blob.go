package blob

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound indicates the bytes referenced by a key are missing
// from storage. This is a data-integrity failure, distinct from a
// missing file record in the catalog.
var ErrBlobNotFound = errors.New("blob not found in storage")

// Store is the opaque byte storage collaborator. File bytes live here,
// keyed by the opaque path recorded on the file row; the catalog never
// interprets the key.
type Store interface {
	// Put writes the contents of r under key and returns the number of
	// bytes written.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open opens the bytes stored under key for reading.
	// Returns ErrBlobNotFound if no bytes exist for the key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the bytes stored under key.
	// Returns ErrBlobNotFound if no bytes exist for the key.
	Delete(ctx context.Context, key string) error
}
