package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
)

// Sentinel errors for file store operations
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileAlreadyExists = errors.New("file already exists in organization")
)

// FileDetail is a file annotated with denormalized display fields and its
// live download count.
type FileDetail struct {
	models.File

	OrganizationName   string
	UploadedByUsername string
	DownloadCount      int64
}

// FileStore defines the interface for file metadata storage operations.
// File bytes live in the blob store; these rows only carry metadata.
type FileStore interface {
	// Create persists a new file record.
	// Returns ErrFileAlreadyExists if a file with the same name already
	// exists in the same organization, and ErrOrganizationNotFound or
	// ErrUserNotFound if a referenced parent row is missing.
	Create(ctx context.Context, file *models.File) error

	// Get retrieves a file by ID.
	// Returns ErrFileNotFound if the file doesn't exist.
	Get(ctx context.Context, fileID uuid.UUID) (*models.File, error)

	// ListByOrg returns all files belonging to an organization, newest
	// first by upload time. An unknown organization ID yields an empty
	// list, not an error.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.File, error)

	// ListAllWithCounts returns every file across all organizations,
	// annotated with its organization name, uploader username and live
	// download count, newest first by upload time.
	ListAllWithCounts(ctx context.Context) ([]*FileDetail, error)

	// Delete deletes a file by ID, cascade-deleting its download rows.
	// Returns ErrFileNotFound if the file doesn't exist.
	Delete(ctx context.Context, fileID uuid.UUID) error
}
