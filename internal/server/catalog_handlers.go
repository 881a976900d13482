package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/filedepot/internal/catalog"
)

// maxUploadMemory bounds how much of a multipart upload is buffered in
// memory before spilling to disk.
const maxUploadMemory = 32 << 20 // 32 MiB

func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.catalog.ListOrganizations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]organizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, organizationResponse{
			OrgID:          org.OrgID,
			Name:           org.Name,
			TotalDownloads: org.TotalDownloads,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.PathValue("org_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid org_id"})
		return
	}

	files, err := s.catalog.ListFiles(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, newFileResponse(f))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.PathValue("org_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid org_id"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	name := r.FormValue("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file is required"})
		return
	}
	defer part.Close()

	var contentType *string
	if ct := header.Header.Get("Content-Type"); ct != "" {
		contentType = &ct
	}

	file, err := s.catalog.CreateFile(r.Context(), orgID, &catalog.Upload{
		Name:        name,
		Body:        part,
		ContentType: contentType,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newFileResponse(file))
}

func (s *Server) handleListAllFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.catalog.ListAllFiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]fileDetailResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, newFileDetailResponse(f))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid file_id"})
		return
	}

	content, err := s.catalog.Download(r.Context(), fileID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer content.Body.Close()

	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", content.Name))
	if content.Size != nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", *content.Size))
	}

	if _, err := io.Copy(w, content.Body); err != nil {
		// Headers are already written, all we can do is log.
		log.Warn().Err(err).Str("file_id", fileID.String()).Msg("Download stream interrupted")
	}
}

func (s *Server) handleFileDownloadHistory(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid file_id"})
		return
	}

	downloads, err := s.catalog.FileDownloadHistory(r.Context(), fileID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]fileDownloadResponse, 0, len(downloads))
	for _, d := range downloads {
		resp = append(resp, fileDownloadResponse{
			DownloadID:   d.DownloadID,
			FileID:       d.FileID,
			UserID:       d.UserID,
			Username:     d.Username,
			Email:        d.Email,
			DownloadedAt: d.DownloadedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserDownloadHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
		return
	}

	downloads, err := s.catalog.UserDownloadHistory(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]userDownloadResponse, 0, len(downloads))
	for _, d := range downloads {
		resp = append(resp, userDownloadResponse{
			DownloadID:   d.DownloadID,
			DownloadedAt: d.DownloadedAt,
			File:         newFileDetailResponse(&d.File),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
