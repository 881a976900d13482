package models

import (
	"time"

	"github.com/google/uuid"
)

// Download records a single download event. Rows are append-only: they
// are never updated and are only removed when the parent file or user
// is cascade-deleted.
type Download struct {
	DownloadID   uuid.UUID // UUIDv7
	FileID       uuid.UUID // FK to files, cascade-delete
	UserID       uuid.UUID // FK to users, cascade-delete
	DownloadedAt time.Time // Set once on creation, immutable
}
