package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
)

// FileDownload is a download row annotated with the downloading user's
// details, as served by the per-file download history.
type FileDownload struct {
	models.Download

	Username string
	Email    string
}

// UserDownload is a download row annotated with the downloaded file's
// detail, as served by the per-user download history.
type UserDownload struct {
	models.Download

	File FileDetail
}

// DownloadStore records download events and serves history queries.
// Download rows are append-only and monotonically accumulate; they are
// only ever removed via cascade deletion of the parent file or user.
type DownloadStore interface {
	// Create inserts a new download row. Every successful download inserts
	// a fresh row; downloads are never deduplicated.
	// Returns ErrFileNotFound or ErrUserNotFound if the referenced parent
	// row is missing.
	Create(ctx context.Context, download *models.Download) error

	// ListByFile returns all download rows referencing a file, annotated
	// with the downloading user's details, ordered by download ID
	// ascending (UUIDv7, so insertion order).
	// Returns ErrFileNotFound if the file doesn't exist.
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*FileDownload, error)

	// ListByUser returns all download rows made by a user, annotated with
	// the downloaded file's detail, ordered by download ID ascending.
	// Returns ErrUserNotFound if the user doesn't exist.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserDownload, error)

	// CountByFile returns the number of download rows referencing a file.
	CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error)
}
