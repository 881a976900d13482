package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

type organizationResponse struct {
	OrgID          uuid.UUID `json:"org_id"`
	Name           string    `json:"name"`
	TotalDownloads int64     `json:"total_downloads"`
}

type fileResponse struct {
	FileID      uuid.UUID `json:"file_id"`
	OrgID       uuid.UUID `json:"org_id"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	Name        string    `json:"name"`
	Size        *int64    `json:"size"`
	ContentType *string   `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type fileDetailResponse struct {
	fileResponse
	OrganizationName   string `json:"organization_name"`
	UploadedByUsername string `json:"uploaded_by_username"`
	DownloadCount      int64  `json:"download_count"`
}

type fileDownloadResponse struct {
	DownloadID   uuid.UUID `json:"download_id"`
	FileID       uuid.UUID `json:"file_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

type userDownloadResponse struct {
	DownloadID   uuid.UUID          `json:"download_id"`
	DownloadedAt time.Time          `json:"downloaded_at"`
	File         fileDetailResponse `json:"file"`
}

type userResponse struct {
	UserID   uuid.UUID  `json:"user_id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	OrgID    *uuid.UUID `json:"org_id"`
}

func newFileResponse(f *models.File) fileResponse {
	return fileResponse{
		FileID:      f.FileID,
		OrgID:       f.OrgID,
		UploadedBy:  f.UploadedBy,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		UploadedAt:  f.UploadedAt,
	}
}

func newFileDetailResponse(d *store.FileDetail) fileDetailResponse {
	return fileDetailResponse{
		fileResponse:       newFileResponse(&d.File),
		OrganizationName:   d.OrganizationName,
		UploadedByUsername: d.UploadedByUsername,
		DownloadCount:      d.DownloadCount,
	}
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		OrgID:    u.OrgID,
	}
}
