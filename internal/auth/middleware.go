package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/filedepot/internal/store"
)

// SessionCookieName is the cookie holding the opaque session ID.
const SessionCookieName = "filedepot_session"

// Middleware creates an HTTP middleware that supports both JWT and session
// authentication. It tries JWT first (from the Authorization header), then
// falls back to the session cookie. This allows both programmatic access
// (bearer tokens) and browser access (session cookies).
//
// Requests without credentials pass through without an actor; the policy
// layer rejects them with a distinct unauthenticated verdict. A presented
// but invalid credential is rejected here and never falls back.
func Middleware(
	signer *TokenSigner,
	sessions store.SessionStore,
	users store.UserStore,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Check for Authorization header first (JWT auth)
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				actor, err := signer.Verify(strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					log.Debug().Err(err).Msg("Auth: JWT verification failed")
					// Don't fall back to session if a JWT was provided but invalid
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}

				log.Debug().
					Str("user_id", actor.UserID.String()).
					Msg("Auth: JWT authenticated")

				next.ServeHTTP(w, r.WithContext(WithActor(ctx, actor)))
				return
			}

			// No JWT provided, try session authentication
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				// No credentials at all - let the policy layer report
				// the unauthenticated verdict.
				next.ServeHTTP(w, r)
				return
			}

			actor, err := actorFromSession(ctx, cookie.Value, sessions, users)
			if err != nil {
				log.Debug().Err(err).Msg("Auth: session authentication failed")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			log.Debug().
				Str("user_id", actor.UserID.String()).
				Msg("Auth: session authenticated")

			next.ServeHTTP(w, r.WithContext(WithActor(ctx, actor)))
		})
	}
}

// actorFromSession resolves a session cookie value to an actor, reading
// the organization link from the live user row rather than the session's
// denormalized copy so an org deletion takes effect immediately.
func actorFromSession(ctx context.Context, cookieValue string, sessions store.SessionStore, users store.UserStore) (*Actor, error) {
	sessionID, err := uuid.Parse(cookieValue)
	if err != nil {
		return nil, err
	}

	session, err := sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := users.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if err := sessions.UpdateLastUsed(ctx, session.SessionID); err != nil {
		log.Warn().Err(err).Msg("Failed to update session last_used_at")
	}

	return &Actor{
		UserID:   user.UserID,
		OrgID:    user.OrgID,
		Username: user.Username,
	}, nil
}
