package login

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
	"github.com/wolfeidau/filedepot/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	signer, err := auth.NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	s := memory.NewStore()
	return NewService(s.Users(), s.Sessions(), signer, time.Hour), s
}

func createTestUser(t *testing.T, s *memory.Store, username, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	userID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		UserID:       userID,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().Create(context.Background(), user))

	return user
}

func TestService_Login(t *testing.T) {
	t.Run("valid credentials create a session and token", func(t *testing.T) {
		svc, s := newTestService(t)
		ctx := context.Background()

		user := createTestUser(t, s, "alice", "s3cret")

		result, err := svc.Login(ctx, "alice", "s3cret", "test-agent", "203.0.113.1")
		require.NoError(t, err)
		require.Equal(t, user.UserID, result.User.UserID)
		require.NotEmpty(t, result.Token)

		session, err := s.Sessions().Get(ctx, result.Session.SessionID)
		require.NoError(t, err)
		require.Equal(t, user.UserID, session.UserID)
		require.Equal(t, "test-agent", session.UserAgent)
		require.Equal(t, "203.0.113.1", session.IPAddress)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		svc, s := newTestService(t)

		createTestUser(t, s, "alice", "s3cret")

		_, err := svc.Login(context.Background(), "alice", "wrong", "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user is indistinguishable from wrong password", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Login(context.Background(), "nobody", "s3cret", "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Logout(t *testing.T) {
	t.Run("logout revokes the session", func(t *testing.T) {
		svc, s := newTestService(t)
		ctx := context.Background()

		createTestUser(t, s, "alice", "s3cret")

		result, err := svc.Login(ctx, "alice", "s3cret", "", "")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, result.Session.SessionID))

		_, err = s.Sessions().Get(ctx, result.Session.SessionID)
		require.ErrorIs(t, err, store.ErrSessionNotFound)
	})

	t.Run("logout of unknown session is not an error", func(t *testing.T) {
		svc, _ := newTestService(t)

		sessionID, err := uuid.NewV7()
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), sessionID))
	})
}
