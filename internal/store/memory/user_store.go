package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

var _ store.UserStore = (*UserStore)(nil)

// UserStore implements store.UserStore as a view over the shared in-memory
// state.
type UserStore struct {
	s *Store
}

// Create creates a new user in memory.
func (u *UserStore) Create(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, exists := u.s.users[user.UserID]; exists {
		return store.ErrUserAlreadyExists
	}
	for _, existing := range u.s.users {
		if existing.Username == user.Username {
			return store.ErrUserAlreadyExists
		}
	}

	// Clone to avoid external modifications
	clone := *user
	u.s.users[user.UserID] = &clone

	return nil
}

// Get retrieves a user by ID.
func (u *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, exists := u.s.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByUsername retrieves a user by their unique username.
func (u *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// Update updates an existing user.
func (u *UserStore) Update(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, exists := u.s.users[user.UserID]; !exists {
		return store.ErrUserNotFound
	}

	user.UpdatedAt = time.Now()

	clone := *user
	u.s.users[user.UserID] = &clone

	return nil
}

// Delete deletes a user by ID, cascading to the user's files (and those
// files' downloads), the user's own download rows, and their sessions.
func (u *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, exists := u.s.users[userID]; !exists {
		return store.ErrUserNotFound
	}

	for fileID, file := range u.s.files {
		if file.UploadedBy == userID {
			u.s.deleteFileDownloadsLocked(fileID)
			delete(u.s.files, fileID)
		}
	}

	for downloadID, dl := range u.s.downloads {
		if dl.UserID == userID {
			delete(u.s.downloads, downloadID)
		}
	}

	for sessionID, session := range u.s.sessions {
		if session.UserID == userID {
			delete(u.s.sessions, sessionID)
		}
	}

	delete(u.s.users, userID)

	return nil
}
