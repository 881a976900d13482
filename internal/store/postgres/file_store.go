package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

// FileStore implements store.FileStore using PostgreSQL.
type FileStore struct {
	pool *pgxpool.Pool
}

// NewFileStore creates a new PostgreSQL-backed file store.
// It shares the connection pool with other stores.
func NewFileStore(pool *pgxpool.Pool) *FileStore {
	return &FileStore{
		pool: pool,
	}
}

// Create persists a new file record.
// The files_org_id_name_key constraint enforces per-organization name
// uniqueness; a violation maps to ErrFileAlreadyExists.
func (s *FileStore) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (
			file_id, org_id, uploaded_by, name, blob_key, size, content_type, uploaded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := s.pool.Exec(ctx, query,
		file.FileID,
		file.OrgID,
		file.UploadedBy,
		file.Name,
		file.BlobKey,
		file.Size,
		file.ContentType,
		file.UploadedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrFileAlreadyExists
		}
		switch foreignKeyConstraint(err) {
		case "files_org_id_fkey":
			return store.ErrOrganizationNotFound
		case "files_uploaded_by_fkey":
			return store.ErrUserNotFound
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	log.Debug().
		Str("file_id", file.FileID.String()).
		Str("org_id", file.OrgID.String()).
		Str("name", file.Name).
		Msg("Created file")

	return nil
}

// Get retrieves a file by ID.
func (s *FileStore) Get(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	query := `
		SELECT file_id, org_id, uploaded_by, name, blob_key, size, content_type, uploaded_at
		FROM files
		WHERE file_id = $1
	`

	var file models.File
	err := s.pool.QueryRow(ctx, query, fileID).Scan(
		&file.FileID,
		&file.OrgID,
		&file.UploadedBy,
		&file.Name,
		&file.BlobKey,
		&file.Size,
		&file.ContentType,
		&file.UploadedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

// ListByOrg returns all files belonging to an organization, newest first.
// An unknown organization ID yields an empty list, not an error.
func (s *FileStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.File, error) {
	query := `
		SELECT file_id, org_id, uploaded_by, name, blob_key, size, content_type, uploaded_at
		FROM files
		WHERE org_id = $1
		ORDER BY uploaded_at DESC, file_id DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := make([]*models.File, 0)
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.FileID,
			&file.OrgID,
			&file.UploadedBy,
			&file.Name,
			&file.BlobKey,
			&file.Size,
			&file.ContentType,
			&file.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, &file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

// ListAllWithCounts returns every file annotated with its organization
// name, uploader username and live download count, newest first.
func (s *FileStore) ListAllWithCounts(ctx context.Context) ([]*store.FileDetail, error) {
	query := `
		SELECT
			f.file_id, f.org_id, f.uploaded_by, f.name, f.blob_key,
			f.size, f.content_type, f.uploaded_at,
			o.name, u.username,
			(SELECT COUNT(*) FROM downloads d WHERE d.file_id = f.file_id) AS download_count
		FROM files f
		JOIN organizations o ON o.org_id = f.org_id
		JOIN users u ON u.user_id = f.uploaded_by
		ORDER BY f.uploaded_at DESC, f.file_id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list files with counts: %w", err)
	}
	defer rows.Close()

	details := make([]*store.FileDetail, 0)
	for rows.Next() {
		var detail store.FileDetail
		err := rows.Scan(
			&detail.FileID,
			&detail.OrgID,
			&detail.UploadedBy,
			&detail.Name,
			&detail.BlobKey,
			&detail.Size,
			&detail.ContentType,
			&detail.UploadedAt,
			&detail.OrganizationName,
			&detail.UploadedByUsername,
			&detail.DownloadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file detail: %w", err)
		}
		details = append(details, &detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file details: %w", err)
	}

	return details, nil
}

// Delete deletes a file by ID, cascade-deleting its download rows via
// ON DELETE CASCADE.
func (s *FileStore) Delete(ctx context.Context, fileID uuid.UUID) error {
	query := `DELETE FROM files WHERE file_id = $1`

	result, err := s.pool.Exec(ctx, query, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrFileNotFound
	}

	log.Info().
		Str("file_id", fileID.String()).
		Msg("Deleted file (cascade-deleted its downloads)")

	return nil
}
