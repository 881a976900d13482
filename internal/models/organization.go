package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Each organization owns
// zero or more files and has zero or more member users.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string    // Unique across all organizations
	CreatedAt time.Time
	UpdatedAt time.Time
}
