// Package login implements password authentication backed by
// server-side sessions. Successful logins create a session row and hand
// the opaque session ID to the client in a cookie; logout revokes the
// session row so the cookie is dead immediately.
package login

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
	"github.com/wolfeidau/filedepot/internal/telemetry"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles login and logout against the user and session stores.
type Service struct {
	users      store.UserStore
	sessions   store.SessionStore
	signer     *auth.TokenSigner
	sessionTTL time.Duration
}

// NewService creates a login service. The signer is used to mint bearer
// tokens alongside the session so programmatic clients can use the same
// login endpoint.
func NewService(users store.UserStore, sessions store.SessionStore, signer *auth.TokenSigner, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		signer:     signer,
		sessionTTL: sessionTTL,
	}
}

// Result is a successful login: the created session plus a bearer token
// for clients that prefer Authorization headers over cookies.
type Result struct {
	Session *models.Session
	User    *models.User
	Token   string
}

// Login verifies the username and password and creates a session.
// userAgent and ipAddress are recorded on the session for audit.
func (s *Service) Login(ctx context.Context, username, password, userAgent, ipAddress string) (*Result, error) {
	m := telemetry.GetMetrics()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			m.LoginFailedTotal.Add(ctx, 1)
			log.Debug().Str("username", username).Msg("Login failed: unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		m.LoginFailedTotal.Add(ctx, 1)
		log.Debug().Str("username", username).Msg("Login failed: bad password")
		return nil, ErrInvalidCredentials
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		SessionID:  sessionID,
		UserID:     user.UserID,
		OrgID:      user.OrgID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.sessionTTL),
		LastUsedAt: now,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.signer.Sign(&auth.Actor{
		UserID:   user.UserID,
		OrgID:    user.OrgID,
		Username: user.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	m.LoginsTotal.Add(ctx, 1)

	log.Info().
		Str("username", user.Username).
		Str("session_id", session.SessionID.String()).
		Msg("User logged in")

	return &Result{Session: session, User: user, Token: token}, nil
}

// Logout revokes the session. Revoking an unknown or already-revoked
// session is not an error.
func (s *Service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	telemetry.GetMetrics().SessionsRevokedTotal.Add(ctx, 1)

	log.Debug().Str("session_id", sessionID.String()).Msg("Session revoked")
	return nil
}

// SessionTTL returns the configured session lifetime, used by the HTTP
// layer to set the cookie max age.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}
