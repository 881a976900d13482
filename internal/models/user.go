package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an identity that can upload and download files.
// Users optionally belong to a single organization; the link is cleared
// (not the user deleted) when the organization is removed.
type User struct {
	UserID   uuid.UUID  // UUIDv7
	Username string     // Unique across all users
	Email    string
	OrgID    *uuid.UUID // FK to organizations, nullable

	// PasswordHash is the bcrypt hash used for session login.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
