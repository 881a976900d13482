package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
)

// Sentinel errors for session store operations
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionStore defines the interface for server-side session storage.
type SessionStore interface {
	// Create creates a new session in the store.
	Create(ctx context.Context, session *models.Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session doesn't exist and
	// ErrSessionExpired if it exists but has expired.
	Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, error)

	// UpdateLastUsed updates the last_used_at timestamp for a session.
	UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error

	// Delete deletes a session by ID (logout).
	Delete(ctx context.Context, sessionID uuid.UUID) error

	// DeleteByUser deletes all sessions for a user (logout everywhere).
	// Returns the number of sessions removed.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteExpired deletes all expired sessions.
	// Returns the number of sessions removed.
	DeleteExpired(ctx context.Context) (int, error)
}
