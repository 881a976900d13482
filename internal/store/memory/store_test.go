package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/filedepot/internal/models"
)

func newTestOrg(t *testing.T, s *Store, name string) *models.Organization {
	t.Helper()

	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	org := &models.Organization{
		OrgID:     orgID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Organizations().Create(context.Background(), org))

	return org
}

func newTestUser(t *testing.T, s *Store, username string, orgID *uuid.UUID) *models.User {
	t.Helper()

	userID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		UserID:       userID,
		Username:     username,
		Email:        username + "@example.com",
		OrgID:        orgID,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().Create(context.Background(), user))

	return user
}

func newTestFile(t *testing.T, s *Store, org *models.Organization, uploader *models.User, name string, uploadedAt time.Time) *models.File {
	t.Helper()

	fileID, err := uuid.NewV7()
	require.NoError(t, err)

	size := int64(42)
	file := &models.File{
		FileID:     fileID,
		OrgID:      org.OrgID,
		UploadedBy: uploader.UserID,
		Name:       name,
		BlobKey:    "uploads/" + fileID.String(),
		Size:       &size,
		UploadedAt: uploadedAt,
	}
	require.NoError(t, s.Files().Create(context.Background(), file))

	return file
}

func newTestDownload(t *testing.T, s *Store, file *models.File, user *models.User) *models.Download {
	t.Helper()

	downloadID, err := uuid.NewV7()
	require.NoError(t, err)

	download := &models.Download{
		DownloadID:   downloadID,
		FileID:       file.FileID,
		UserID:       user.UserID,
		DownloadedAt: time.Now(),
	}
	require.NoError(t, s.Downloads().Create(context.Background(), download))

	return download
}
