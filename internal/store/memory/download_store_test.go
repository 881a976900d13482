package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

func TestDownloadStore_Create(t *testing.T) {
	t.Run("repeated downloads insert fresh rows", func(t *testing.T) {
		s := NewStore()
		ctx := context.Background()

		org := newTestOrg(t, s, "acme")
		alice := newTestUser(t, s, "alice", &org.OrgID)
		file := newTestFile(t, s, org, alice, "report.pdf", time.Now())

		for range 3 {
			newTestDownload(t, s, file, alice)
		}

		count, err := s.Downloads().CountByFile(ctx, file.FileID)
		require.NoError(t, err)
		require.Equal(t, int64(3), count)
	})

	t.Run("missing file returns error", func(t *testing.T) {
		s := NewStore()
		ctx := context.Background()

		alice := newTestUser(t, s, "alice", nil)

		downloadID, err := uuid.NewV7()
		require.NoError(t, err)
		fileID, err := uuid.NewV7()
		require.NoError(t, err)

		err = s.Downloads().Create(ctx, &models.Download{
			DownloadID:   downloadID,
			FileID:       fileID,
			UserID:       alice.UserID,
			DownloadedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrFileNotFound)
	})

	t.Run("missing user returns error", func(t *testing.T) {
		s := NewStore()
		ctx := context.Background()

		org := newTestOrg(t, s, "acme")
		alice := newTestUser(t, s, "alice", &org.OrgID)
		file := newTestFile(t, s, org, alice, "report.pdf", time.Now())

		downloadID, err := uuid.NewV7()
		require.NoError(t, err)
		userID, err := uuid.NewV7()
		require.NoError(t, err)

		err = s.Downloads().Create(ctx, &models.Download{
			DownloadID:   downloadID,
			FileID:       file.FileID,
			UserID:       userID,
			DownloadedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestDownloadStore_ListByFile(t *testing.T) {
	t.Run("returns rows in insertion order with user details", func(t *testing.T) {
		s := NewStore()
		ctx := context.Background()

		org := newTestOrg(t, s, "acme")
		alice := newTestUser(t, s, "alice", &org.OrgID)
		bob := newTestUser(t, s, "bob", &org.OrgID)
		file := newTestFile(t, s, org, alice, "report.pdf", time.Now())

		first := newTestDownload(t, s, file, alice)
		second := newTestDownload(t, s, file, bob)

		downloads, err := s.Downloads().ListByFile(ctx, file.FileID)
		require.NoError(t, err)
		require.Len(t, downloads, 2)

		require.Equal(t, first.DownloadID, downloads[0].DownloadID)
		require.Equal(t, "alice", downloads[0].Username)
		require.Equal(t, "alice@example.com", downloads[0].Email)

		require.Equal(t, second.DownloadID, downloads[1].DownloadID)
		require.Equal(t, "bob", downloads[1].Username)
	})

	t.Run("unknown file returns error", func(t *testing.T) {
		s := NewStore()

		fileID, err := uuid.NewV7()
		require.NoError(t, err)

		_, err = s.Downloads().ListByFile(context.Background(), fileID)
		require.ErrorIs(t, err, store.ErrFileNotFound)
	})
}

func TestDownloadStore_ListByUser(t *testing.T) {
	t.Run("returns rows with file detail", func(t *testing.T) {
		s := NewStore()
		ctx := context.Background()

		org := newTestOrg(t, s, "acme")
		alice := newTestUser(t, s, "alice", &org.OrgID)
		bob := newTestUser(t, s, "bob", &org.OrgID)
		file := newTestFile(t, s, org, alice, "report.pdf", time.Now())

		newTestDownload(t, s, file, alice)
		newTestDownload(t, s, file, bob)
		newTestDownload(t, s, file, alice)

		downloads, err := s.Downloads().ListByUser(ctx, alice.UserID)
		require.NoError(t, err)
		require.Len(t, downloads, 2)

		// File detail carries the live count across all users.
		require.Equal(t, "report.pdf", downloads[0].File.Name)
		require.Equal(t, "acme", downloads[0].File.OrganizationName)
		require.Equal(t, int64(3), downloads[0].File.DownloadCount)
	})

	t.Run("unknown user returns error", func(t *testing.T) {
		s := NewStore()

		userID, err := uuid.NewV7()
		require.NoError(t, err)

		_, err = s.Downloads().ListByUser(context.Background(), userID)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("user with no downloads yields empty list", func(t *testing.T) {
		s := NewStore()

		alice := newTestUser(t, s, "alice", nil)

		downloads, err := s.Downloads().ListByUser(context.Background(), alice.UserID)
		require.NoError(t, err)
		require.Empty(t, downloads)
	})
}
