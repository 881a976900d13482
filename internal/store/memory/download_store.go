package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

var _ store.DownloadStore = (*DownloadStore)(nil)

// DownloadStore implements store.DownloadStore as a view over the shared
// in-memory state.
type DownloadStore struct {
	s *Store
}

// Create inserts a new download row. Rows are never deduplicated.
func (d *DownloadStore) Create(ctx context.Context, download *models.Download) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if _, exists := d.s.files[download.FileID]; !exists {
		return store.ErrFileNotFound
	}
	if _, exists := d.s.users[download.UserID]; !exists {
		return store.ErrUserNotFound
	}

	// Clone to avoid external modifications
	clone := *download
	d.s.downloads[download.DownloadID] = &clone

	return nil
}

// ListByFile returns all download rows referencing a file, annotated with
// the downloading user's details, ordered by download ID ascending.
func (d *DownloadStore) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*store.FileDownload, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	if _, exists := d.s.files[fileID]; !exists {
		return nil, store.ErrFileNotFound
	}

	result := make([]*store.FileDownload, 0)
	for _, dl := range d.s.downloads {
		if dl.FileID != fileID {
			continue
		}
		row := &store.FileDownload{Download: *dl}
		if user, ok := d.s.users[dl.UserID]; ok {
			row.Username = user.Username
			row.Email = user.Email
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		return compareIDs(result[i].DownloadID, result[j].DownloadID) < 0
	})

	return result, nil
}

// ListByUser returns all download rows made by a user, annotated with the
// downloaded file's detail, ordered by download ID ascending.
func (d *DownloadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*store.UserDownload, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	if _, exists := d.s.users[userID]; !exists {
		return nil, store.ErrUserNotFound
	}

	counts := make(map[uuid.UUID]int64)
	for _, dl := range d.s.downloads {
		counts[dl.FileID]++
	}

	result := make([]*store.UserDownload, 0)
	for _, dl := range d.s.downloads {
		if dl.UserID != userID {
			continue
		}
		row := &store.UserDownload{Download: *dl}
		if file, ok := d.s.files[dl.FileID]; ok {
			row.File = *d.s.fileDetailLocked(file, counts[file.FileID])
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		return compareIDs(result[i].DownloadID, result[j].DownloadID) < 0
	})

	return result, nil
}

// CountByFile returns the number of download rows referencing a file.
func (d *DownloadStore) CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	var count int64
	for _, dl := range d.s.downloads {
		if dl.FileID == fileID {
			count++
		}
	}

	return count, nil
}
