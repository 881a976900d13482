package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// Create creates a new user in the store.
	// Returns ErrUserAlreadyExists if a user with the same ID or username
	// already exists.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByUsername retrieves a user by their unique username.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Update updates an existing user.
	// Returns ErrUserNotFound if the user doesn't exist.
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user by ID.
	// Deletion cascades: the user's uploaded files (and those files'
	// downloads), the user's own download rows, and the user's sessions
	// are all removed.
	// Returns ErrUserNotFound if the user doesn't exist.
	Delete(ctx context.Context, userID uuid.UUID) error
}
