package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

var _ store.SessionStore = (*SessionStore)(nil)

// SessionStore implements store.SessionStore as a view over the shared
// in-memory state.
type SessionStore struct {
	s *Store
}

// Create creates a new session in memory.
func (st *SessionStore) Create(ctx context.Context, session *models.Session) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	clone := *session
	st.s.sessions[session.SessionID] = &clone

	return nil
}

// Get retrieves a session by ID.
func (st *SessionStore) Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	session, exists := st.s.sessions[sessionID]
	if !exists {
		return nil, store.ErrSessionNotFound
	}

	if session.IsExpired() {
		return nil, store.ErrSessionExpired
	}

	clone := *session
	return &clone, nil
}

// UpdateLastUsed updates the last_used_at timestamp for a session.
func (st *SessionStore) UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	session, exists := st.s.sessions[sessionID]
	if !exists {
		return store.ErrSessionNotFound
	}

	session.LastUsedAt = time.Now()

	return nil
}

// Delete deletes a session by ID (logout).
func (st *SessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, exists := st.s.sessions[sessionID]; !exists {
		return store.ErrSessionNotFound
	}

	delete(st.s.sessions, sessionID)

	return nil
}

// DeleteByUser deletes all sessions for a user (logout everywhere).
func (st *SessionStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	count := 0
	for sessionID, session := range st.s.sessions {
		if session.UserID == userID {
			delete(st.s.sessions, sessionID)
			count++
		}
	}

	return count, nil
}

// DeleteExpired deletes all expired sessions.
func (st *SessionStore) DeleteExpired(ctx context.Context) (int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	count := 0
	for sessionID, session := range st.s.sessions {
		if session.IsExpired() {
			delete(st.s.sessions, sessionID)
			count++
		}
	}

	return count, nil
}
