package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL-backed user store.
// It shares the connection pool with other stores.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool: pool,
	}
}

// Create creates a new user in the database.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			user_id, username, email, org_id, password_hash, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.Email,
		user.OrgID,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserAlreadyExists
		}
		if foreignKeyConstraint(err) != "" {
			return store.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Str("username", user.Username).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT user_id, username, email, org_id, password_hash, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.OrgID,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves a user by their unique username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT user_id, username, email, org_id, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.OrgID,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

// Update updates an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET
			username = $2,
			email = $3,
			org_id = $4,
			password_hash = $5,
			updated_at = $6
		WHERE user_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.Email,
		user.OrgID,
		user.PasswordHash,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Updated user")

	return nil
}

// Delete deletes a user by ID.
// The schema cascades: the user's files (and those files' downloads), the
// user's own download rows, and their sessions are removed via
// ON DELETE CASCADE.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM users WHERE user_id = $1`

	result, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	log.Info().
		Str("user_id", userID.String()).
		Msg("Deleted user (cascade-deleted their files, downloads and sessions)")

	return nil
}
