// Package server exposes the catalog and login services over a JSON
// REST API. Handlers are deliberately thin: decode, call the service,
// map the verdict to a status code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/blob"
	"github.com/wolfeidau/filedepot/internal/catalog"
	"github.com/wolfeidau/filedepot/internal/login"
	"github.com/wolfeidau/filedepot/internal/store"
	"github.com/wolfeidau/filedepot/internal/telemetry"
)

// Server holds the services behind the HTTP API.
type Server struct {
	catalog *catalog.Service
	login   *login.Service
}

// New creates the API server.
func New(catalogSvc *catalog.Service, loginSvc *login.Service) *Server {
	return &Server{
		catalog: catalogSvc,
		login:   loginSvc,
	}
}

// Routes returns the API mux. Authentication, CORS and logging
// middleware are layered on by the caller.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/organizations/{$}", s.handleListOrganizations)
	mux.HandleFunc("GET /api/v1/organizations/{org_id}/files/{$}", s.handleListFiles)
	mux.HandleFunc("POST /api/v1/organizations/{org_id}/files/{$}", s.handleCreateFile)
	mux.HandleFunc("GET /api/v1/files/{$}", s.handleListAllFiles)
	mux.HandleFunc("GET /api/v1/files/{file_id}/download/{$}", s.handleDownload)
	mux.HandleFunc("GET /api/v1/files/{file_id}/downloads/{$}", s.handleFileDownloadHistory)
	mux.HandleFunc("GET /api/v1/users/{user_id}/downloads/{$}", s.handleUserDownloadHistory)
	mux.HandleFunc("POST /api/v1/auth/login/{$}", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout/{$}", s.handleLogout)

	return mux
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors to HTTP status codes. Forbidden is
// never downgraded to not-found; unauthenticated and forbidden stay
// distinct.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, login.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrOrganizationNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrFileNotFound),
		errors.Is(err, blob.ErrBlobNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrFileAlreadyExists),
		errors.Is(err, store.ErrOrganizationAlreadyExists),
		errors.Is(err, store.ErrUserAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		telemetry.GetMetrics().StoreErrorsTotal.Add(context.Background(), 1)
		log.Error().Err(err).Msg("Internal server error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
