package models

import (
	"time"

	"github.com/google/uuid"
)

// File represents an uploaded file record. The underlying bytes live in
// the blob store under BlobKey; this row only carries metadata.
//
// (OrgID, Name) is unique: no two files in the same organization may
// share a name.
type File struct {
	FileID     uuid.UUID // UUIDv7
	OrgID      uuid.UUID // FK to organizations, cascade-delete
	UploadedBy uuid.UUID // FK to users, cascade-delete
	Name       string
	BlobKey    string // Opaque path into the blob store

	Size        *int64  // Bytes, nil if unknown
	ContentType *string // Free-form MIME string, nil if unknown

	UploadedAt time.Time // Set once on creation, immutable
}
