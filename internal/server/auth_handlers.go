package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/wolfeidau/filedepot/internal/auth"
	internalhttp "github.com/wolfeidau/filedepot/internal/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	result, err := s.login.Login(
		r.Context(),
		req.Username,
		req.Password,
		r.UserAgent(),
		internalhttp.ClientIPFromContext(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    result.Session.SessionID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.login.SessionTTL().Seconds()),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User:  newUserResponse(result.User),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		if sessionID, err := uuid.Parse(cookie.Value); err == nil {
			if err := s.login.Logout(r.Context(), sessionID); err != nil {
				writeError(w, err)
				return
			}
		}
	}

	// Clear the cookie whether or not a session existed.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}
