// Package catalog implements the file catalog operations: listing
// organizations and their files, uploading files, and serving downloads
// with per-download accounting.
package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/blob"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
	"github.com/wolfeidau/filedepot/internal/telemetry"
)

// Service implements the catalog operations on top of the entity stores
// and blob storage. All operations require an authenticated actor; only
// uploads additionally require membership of the target organization.
type Service struct {
	organizations store.OrganizationStore
	users         store.UserStore
	files         store.FileStore
	downloads     store.DownloadStore
	blobs         blob.Store
}

// NewService creates a catalog service.
func NewService(
	organizations store.OrganizationStore,
	users store.UserStore,
	files store.FileStore,
	downloads store.DownloadStore,
	blobs blob.Store,
) *Service {
	return &Service{
		organizations: organizations,
		users:         users,
		files:         files,
		downloads:     downloads,
		blobs:         blobs,
	}
}

// ListOrganizations returns all organizations with their aggregate
// download totals, ordered by name. Any authenticated actor may call
// this, regardless of membership.
func (s *Service) ListOrganizations(ctx context.Context) ([]*store.OrganizationDownloads, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}

	return s.organizations.ListWithDownloadTotals(ctx)
}

// ListFiles returns the files belonging to an organization, newest
// first. An organization with no files, or an organization ID that does
// not exist, both yield an empty list.
func (s *Service) ListFiles(ctx context.Context, orgID uuid.UUID) ([]*models.File, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}

	return s.files.ListByOrg(ctx, orgID)
}

// ListAllFiles returns every file across all organizations with
// denormalized organization and uploader details plus download counts.
func (s *Service) ListAllFiles(ctx context.Context) ([]*store.FileDetail, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}

	return s.files.ListAllWithCounts(ctx)
}

// Upload describes an incoming file upload.
type Upload struct {
	Name        string
	Body        io.Reader
	ContentType *string // Nil when the client did not declare one
}

// CreateFile uploads a file into an organization. The target
// organization must exist (checked before the membership test, so a
// missing organization reports not-found rather than forbidden) and the
// actor must belong to it. File names are unique within an
// organization; a duplicate name fails with
// store.ErrFileAlreadyExists and leaves no orphan blob behind.
func (s *Service) CreateFile(ctx context.Context, orgID uuid.UUID, up *Upload) (*models.File, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.organizations.Get(ctx, orgID); err != nil {
		return nil, err
	}

	if err := auth.RequireUploadTo(actor, orgID); err != nil {
		return nil, err
	}

	start := time.Now()
	m := telemetry.GetMetrics()

	key := blob.NewKey()
	size, err := s.blobs.Put(ctx, key, up.Body)
	if err != nil {
		m.UploadErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to write blob: %w", err)
	}

	fileID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate file ID: %w", err)
	}

	file := &models.File{
		FileID:      fileID,
		OrgID:       orgID,
		UploadedBy:  actor.UserID,
		Name:        up.Name,
		BlobKey:     key,
		Size:        &size,
		ContentType: up.ContentType,
		UploadedAt:  time.Now(),
	}

	if err := s.files.Create(ctx, file); err != nil {
		m.UploadErrorsTotal.Add(ctx, 1)
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			log.Warn().Err(derr).Str("blob_key", key).Msg("Failed to clean up blob after create failure")
		}
		return nil, err
	}

	m.FilesUploadedTotal.Add(ctx, 1)
	m.UploadBytesTotal.Add(ctx, size)
	m.UploadDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

	log.Debug().
		Str("file_id", file.FileID.String()).
		Str("org_id", orgID.String()).
		Str("name", file.Name).
		Int64("size", size).
		Msg("Uploaded file")

	return file, nil
}

// Content is a downloadable file body with the metadata needed to serve
// it. The caller owns Body and must close it.
type Content struct {
	Body        io.ReadCloser
	Name        string
	Size        *int64
	ContentType string
}

// Download records a download event for the file and returns its
// content. The event is recorded before the blob is opened, so the
// count reflects download attempts: if the blob has gone missing from
// storage the recorded event is kept and blob.ErrBlobNotFound is
// returned. Any authenticated actor may download any file.
func (s *Service) Download(ctx context.Context, fileID uuid.UUID) (*Content, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	m := telemetry.GetMetrics()

	downloadID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate download ID: %w", err)
	}

	download := &models.Download{
		DownloadID:   downloadID,
		FileID:       file.FileID,
		UserID:       actor.UserID,
		DownloadedAt: time.Now(),
	}

	if err := s.downloads.Create(ctx, download); err != nil {
		return nil, err
	}

	m.DownloadsRecordedTotal.Add(ctx, 1)

	body, err := s.blobs.Open(ctx, file.BlobKey)
	if err != nil {
		m.MissingBlobsTotal.Add(ctx, 1)
		log.Warn().
			Str("file_id", file.FileID.String()).
			Str("blob_key", file.BlobKey).
			Msg("Blob missing for recorded download")
		return nil, err
	}

	contentType := "application/octet-stream"
	if file.ContentType != nil && *file.ContentType != "" {
		contentType = *file.ContentType
	}

	if file.Size != nil {
		m.DownloadBytesTotal.Add(ctx, *file.Size)
	}
	m.DownloadDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

	log.Debug().
		Str("file_id", file.FileID.String()).
		Str("user_id", actor.UserID.String()).
		Msg("Serving download")

	return &Content{
		Body:        body,
		Name:        file.Name,
		Size:        file.Size,
		ContentType: contentType,
	}, nil
}

// FileDownloadHistory returns the download events for a file in the
// order they were recorded, with the downloading user denormalized onto
// each event. The file must exist.
func (s *Service) FileDownloadHistory(ctx context.Context, fileID uuid.UUID) ([]*store.FileDownload, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}

	return s.downloads.ListByFile(ctx, fileID)
}

// UserDownloadHistory returns the download events recorded for a user
// in the order they were recorded, with full file details denormalized
// onto each event. The user must exist.
func (s *Service) UserDownloadHistory(ctx context.Context, userID uuid.UUID) ([]*store.UserDownload, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}

	return s.downloads.ListByUser(ctx, userID)
}
