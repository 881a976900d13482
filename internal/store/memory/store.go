package memory

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
)

// Store holds all in-memory state. This implementation is for testing and
// development only - data is lost on restart.
//
// A single struct backs every entity because cascade deletes and the
// aggregation queries cross entity boundaries, which separate per-entity
// stores cannot express without sharing state anyway. The per-entity
// store interfaces are exposed as views over this shared state, all
// guarded by one RWMutex.
type Store struct {
	mu sync.RWMutex

	organizations map[uuid.UUID]*models.Organization
	users         map[uuid.UUID]*models.User
	files         map[uuid.UUID]*models.File
	downloads     map[uuid.UUID]*models.Download
	sessions      map[uuid.UUID]*models.Session
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{
		organizations: make(map[uuid.UUID]*models.Organization),
		users:         make(map[uuid.UUID]*models.User),
		files:         make(map[uuid.UUID]*models.File),
		downloads:     make(map[uuid.UUID]*models.Download),
		sessions:      make(map[uuid.UUID]*models.Session),
	}
}

// Organizations returns the organization store view.
func (s *Store) Organizations() *OrganizationStore {
	return &OrganizationStore{s: s}
}

// Users returns the user store view.
func (s *Store) Users() *UserStore {
	return &UserStore{s: s}
}

// Files returns the file store view.
func (s *Store) Files() *FileStore {
	return &FileStore{s: s}
}

// Downloads returns the download store view.
func (s *Store) Downloads() *DownloadStore {
	return &DownloadStore{s: s}
}

// Sessions returns the session store view.
func (s *Store) Sessions() *SessionStore {
	return &SessionStore{s: s}
}

// compareIDs orders UUIDv7 values byte-wise, which is creation order.
func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// deleteFileDownloadsLocked removes all download rows referencing a file.
// Callers must hold the write lock.
func (s *Store) deleteFileDownloadsLocked(fileID uuid.UUID) {
	for downloadID, dl := range s.downloads {
		if dl.FileID == fileID {
			delete(s.downloads, downloadID)
		}
	}
}
