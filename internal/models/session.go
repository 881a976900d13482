package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a user's authenticated session.
// The session ID is stored in an opaque cookie, while all session data lives server-side.
type Session struct {
	SessionID uuid.UUID  // UUIDv7 - this is the only value stored in the cookie
	UserID    uuid.UUID  // Who is logged in
	OrgID     *uuid.UUID // Denormalized from the user, nullable

	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastUsedAt time.Time

	// Optional audit metadata
	UserAgent string
	IPAddress string
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
