package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store/memory"
)

func newTestSigner(t *testing.T) *TokenSigner {
	t.Helper()

	signer, err := NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	return signer
}

func seedUser(t *testing.T, s *memory.Store, username string) *models.User {
	t.Helper()

	userID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		UserID:       userID,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().Create(context.Background(), user))
	return user
}

func seedSession(t *testing.T, s *memory.Store, userID uuid.UUID, expiresAt time.Time) *models.Session {
	t.Helper()

	sessionID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	session := &models.Session{
		SessionID:  sessionID,
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
		LastUsedAt: now,
	}
	require.NoError(t, s.Sessions().Create(context.Background(), session))
	return session
}

func TestMiddleware(t *testing.T) {
	signer := newTestSigner(t)

	makeHandler := func(s *memory.Store) (http.Handler, *Actor) {
		captured := &Actor{}
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor := ActorFromContext(r.Context()); actor != nil {
				*captured = *actor
			}
			w.WriteHeader(http.StatusOK)
		})
		return Middleware(signer, s.Sessions(), s.Users())(inner), captured
	}

	t.Run("valid bearer token sets the actor", func(t *testing.T) {
		s := memory.NewStore()
		user := seedUser(t, s, "alice")
		handler, captured := makeHandler(s)

		token, err := signer.Sign(&Actor{UserID: user.UserID, Username: user.Username})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, user.UserID, captured.UserID)
	})

	t.Run("invalid bearer token is rejected without session fallback", func(t *testing.T) {
		s := memory.NewStore()
		user := seedUser(t, s, "alice")
		session := seedSession(t, s, user.UserID, time.Now().Add(time.Hour))
		handler, _ := makeHandler(s)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer garbage")
		// A valid session cookie must not rescue a bad token.
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.SessionID.String()})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid session cookie sets the actor", func(t *testing.T) {
		s := memory.NewStore()
		user := seedUser(t, s, "alice")
		session := seedSession(t, s, user.UserID, time.Now().Add(time.Hour))
		handler, captured := makeHandler(s)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.SessionID.String()})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, user.UserID, captured.UserID)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		s := memory.NewStore()
		user := seedUser(t, s, "alice")
		session := seedSession(t, s, user.UserID, time.Now().Add(-time.Minute))
		handler, _ := makeHandler(s)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.SessionID.String()})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no credentials pass through without an actor", func(t *testing.T) {
		s := memory.NewStore()
		handler, captured := makeHandler(s)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		// The request reaches the handler; the policy layer decides.
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, uuid.UUID{}, captured.UserID)
	})
}
