package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

// DownloadStore implements store.DownloadStore using PostgreSQL.
type DownloadStore struct {
	pool *pgxpool.Pool
}

// NewDownloadStore creates a new PostgreSQL-backed download store.
// It shares the connection pool with other stores.
func NewDownloadStore(pool *pgxpool.Pool) *DownloadStore {
	return &DownloadStore{
		pool: pool,
	}
}

// Create inserts a new download row. Every successful download inserts a
// fresh row; rows are never deduplicated or updated.
func (s *DownloadStore) Create(ctx context.Context, download *models.Download) error {
	query := `
		INSERT INTO downloads (
			download_id, file_id, user_id, downloaded_at
		) VALUES (
			$1, $2, $3, $4
		)
	`

	_, err := s.pool.Exec(ctx, query,
		download.DownloadID,
		download.FileID,
		download.UserID,
		download.DownloadedAt,
	)

	if err != nil {
		switch foreignKeyConstraint(err) {
		case "downloads_file_id_fkey":
			return store.ErrFileNotFound
		case "downloads_user_id_fkey":
			return store.ErrUserNotFound
		}
		return fmt.Errorf("failed to create download: %w", err)
	}

	log.Debug().
		Str("download_id", download.DownloadID.String()).
		Str("file_id", download.FileID.String()).
		Str("user_id", download.UserID.String()).
		Msg("Recorded download")

	return nil
}

// ListByFile returns all download rows referencing a file, annotated with
// the downloading user's details, ordered by download ID ascending
// (UUIDv7, so insertion order).
func (s *DownloadStore) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*store.FileDownload, error) {
	if err := s.checkExists(ctx, `SELECT EXISTS(SELECT 1 FROM files WHERE file_id = $1)`, fileID, store.ErrFileNotFound); err != nil {
		return nil, err
	}

	query := `
		SELECT d.download_id, d.file_id, d.user_id, d.downloaded_at, u.username, u.email
		FROM downloads d
		JOIN users u ON u.user_id = d.user_id
		WHERE d.file_id = $1
		ORDER BY d.download_id ASC
	`

	rows, err := s.pool.Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads for file: %w", err)
	}
	defer rows.Close()

	downloads := make([]*store.FileDownload, 0)
	for rows.Next() {
		var dl store.FileDownload
		err := rows.Scan(
			&dl.DownloadID,
			&dl.FileID,
			&dl.UserID,
			&dl.DownloadedAt,
			&dl.Username,
			&dl.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		downloads = append(downloads, &dl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating downloads: %w", err)
	}

	return downloads, nil
}

// ListByUser returns all download rows made by a user, annotated with the
// downloaded file's detail, ordered by download ID ascending.
func (s *DownloadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*store.UserDownload, error) {
	if err := s.checkExists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID, store.ErrUserNotFound); err != nil {
		return nil, err
	}

	query := `
		SELECT
			d.download_id, d.file_id, d.user_id, d.downloaded_at,
			f.file_id, f.org_id, f.uploaded_by, f.name, f.blob_key,
			f.size, f.content_type, f.uploaded_at,
			o.name, uploader.username,
			(SELECT COUNT(*) FROM downloads dc WHERE dc.file_id = f.file_id) AS download_count
		FROM downloads d
		JOIN files f ON f.file_id = d.file_id
		JOIN organizations o ON o.org_id = f.org_id
		JOIN users uploader ON uploader.user_id = f.uploaded_by
		WHERE d.user_id = $1
		ORDER BY d.download_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads for user: %w", err)
	}
	defer rows.Close()

	downloads := make([]*store.UserDownload, 0)
	for rows.Next() {
		var dl store.UserDownload
		err := rows.Scan(
			&dl.DownloadID,
			&dl.Download.FileID,
			&dl.UserID,
			&dl.DownloadedAt,
			&dl.File.FileID,
			&dl.File.OrgID,
			&dl.File.UploadedBy,
			&dl.File.Name,
			&dl.File.BlobKey,
			&dl.File.Size,
			&dl.File.ContentType,
			&dl.File.UploadedAt,
			&dl.File.OrganizationName,
			&dl.File.UploadedByUsername,
			&dl.File.DownloadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user download: %w", err)
		}
		downloads = append(downloads, &dl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user downloads: %w", err)
	}

	return downloads, nil
}

// CountByFile returns the number of download rows referencing a file.
func (s *DownloadStore) CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM downloads WHERE file_id = $1`, fileID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count downloads: %w", err)
	}

	return count, nil
}

// checkExists verifies a parent row exists before a history query, so a
// missing parent surfaces as the matching NotFound sentinel rather than
// an empty list.
func (s *DownloadStore) checkExists(ctx context.Context, query string, id uuid.UUID, notFound error) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed existence check: %w", err)
	}
	if !exists {
		return notFound
	}
	return nil
}
