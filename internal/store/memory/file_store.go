package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

var _ store.FileStore = (*FileStore)(nil)

// FileStore implements store.FileStore as a view over the shared in-memory
// state.
type FileStore struct {
	s *Store
}

// Create persists a new file record.
func (f *FileStore) Create(ctx context.Context, file *models.File) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, exists := f.s.organizations[file.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}
	if _, exists := f.s.users[file.UploadedBy]; !exists {
		return store.ErrUserNotFound
	}

	if _, exists := f.s.files[file.FileID]; exists {
		return store.ErrFileAlreadyExists
	}
	for _, existing := range f.s.files {
		if existing.OrgID == file.OrgID && existing.Name == file.Name {
			return store.ErrFileAlreadyExists
		}
	}

	// Clone to avoid external modifications
	clone := *file
	f.s.files[file.FileID] = &clone

	return nil
}

// Get retrieves a file by ID.
func (f *FileStore) Get(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	file, exists := f.s.files[fileID]
	if !exists {
		return nil, store.ErrFileNotFound
	}

	clone := *file
	return &clone, nil
}

// ListByOrg returns all files belonging to an organization, newest first.
// An unknown organization ID yields an empty list, not an error.
func (f *FileStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.File, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	result := make([]*models.File, 0)
	for _, file := range f.s.files {
		if file.OrgID == orgID {
			clone := *file
			result = append(result, &clone)
		}
	}

	sortFilesNewestFirst(result)

	return result, nil
}

// ListAllWithCounts returns every file annotated with its organization
// name, uploader username and live download count, newest first.
func (f *FileStore) ListAllWithCounts(ctx context.Context) ([]*store.FileDetail, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	counts := make(map[uuid.UUID]int64, len(f.s.files))
	for _, dl := range f.s.downloads {
		counts[dl.FileID]++
	}

	result := make([]*store.FileDetail, 0, len(f.s.files))
	for _, file := range f.s.files {
		result = append(result, f.s.fileDetailLocked(file, counts[file.FileID]))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return compareIDs(result[i].FileID, result[j].FileID) > 0
	})

	return result, nil
}

// Delete deletes a file by ID, cascade-deleting its download rows.
func (f *FileStore) Delete(ctx context.Context, fileID uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, exists := f.s.files[fileID]; !exists {
		return store.ErrFileNotFound
	}

	f.s.deleteFileDownloadsLocked(fileID)
	delete(f.s.files, fileID)

	return nil
}

// fileDetailLocked builds the annotated detail for a file.
// Callers must hold at least the read lock.
func (s *Store) fileDetailLocked(file *models.File, downloadCount int64) *store.FileDetail {
	detail := &store.FileDetail{
		File:          *file,
		DownloadCount: downloadCount,
	}
	if org, ok := s.organizations[file.OrgID]; ok {
		detail.OrganizationName = org.Name
	}
	if user, ok := s.users[file.UploadedBy]; ok {
		detail.UploadedByUsername = user.Username
	}
	return detail
}

func sortFilesNewestFirst(files []*models.File) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].UploadedAt.Equal(files[j].UploadedAt) {
			return files[i].UploadedAt.After(files[j].UploadedAt)
		}
		return compareIDs(files[i].FileID, files[j].FileID) > 0
	})
}
