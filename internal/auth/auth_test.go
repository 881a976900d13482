package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequireActor(t *testing.T) {
	t.Run("no actor returns unauthenticated", func(t *testing.T) {
		_, err := RequireActor(context.Background())
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("actor is returned from context", func(t *testing.T) {
		userID, err := uuid.NewV7()
		require.NoError(t, err)

		ctx := WithActor(context.Background(), &Actor{UserID: userID, Username: "alice"})

		actor, err := RequireActor(ctx)
		require.NoError(t, err)
		require.Equal(t, userID, actor.UserID)
	})
}

func TestRequireUploadTo(t *testing.T) {
	orgID, err := uuid.NewV7()
	require.NoError(t, err)
	otherOrgID, err := uuid.NewV7()
	require.NoError(t, err)
	userID, err := uuid.NewV7()
	require.NoError(t, err)

	t.Run("member of target organization", func(t *testing.T) {
		actor := &Actor{UserID: userID, OrgID: &orgID}
		require.NoError(t, RequireUploadTo(actor, orgID))
	})

	t.Run("member of another organization is forbidden", func(t *testing.T) {
		actor := &Actor{UserID: userID, OrgID: &otherOrgID}
		require.ErrorIs(t, RequireUploadTo(actor, orgID), ErrForbidden)
	})

	t.Run("actor without organization is forbidden", func(t *testing.T) {
		actor := &Actor{UserID: userID}
		require.ErrorIs(t, RequireUploadTo(actor, orgID), ErrForbidden)
	})

	t.Run("nil actor is unauthenticated", func(t *testing.T) {
		require.ErrorIs(t, RequireUploadTo(nil, orgID), ErrUnauthenticated)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, VerifyPassword(hash, "s3cret"))
	require.False(t, VerifyPassword(hash, "wrong"))
}

func TestTokenSigner(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	t.Run("short secret is rejected", func(t *testing.T) {
		_, err := NewTokenSigner([]byte("too short"), time.Hour)
		require.Error(t, err)
	})

	t.Run("sign and verify roundtrip", func(t *testing.T) {
		signer, err := NewTokenSigner(secret, time.Hour)
		require.NoError(t, err)

		userID, err := uuid.NewV7()
		require.NoError(t, err)
		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		token, err := signer.Sign(&Actor{UserID: userID, OrgID: &orgID, Username: "alice"})
		require.NoError(t, err)

		actor, err := signer.Verify(token)
		require.NoError(t, err)
		require.Equal(t, userID, actor.UserID)
		require.Equal(t, "alice", actor.Username)
		require.NotNil(t, actor.OrgID)
		require.Equal(t, orgID, *actor.OrgID)
	})

	t.Run("actor without organization roundtrips", func(t *testing.T) {
		signer, err := NewTokenSigner(secret, time.Hour)
		require.NoError(t, err)

		userID, err := uuid.NewV7()
		require.NoError(t, err)

		token, err := signer.Sign(&Actor{UserID: userID, Username: "drifter"})
		require.NoError(t, err)

		actor, err := signer.Verify(token)
		require.NoError(t, err)
		require.Nil(t, actor.OrgID)
	})

	t.Run("wrong secret fails verification", func(t *testing.T) {
		signer, err := NewTokenSigner(secret, time.Hour)
		require.NoError(t, err)

		other, err := NewTokenSigner([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
		require.NoError(t, err)

		userID, err := uuid.NewV7()
		require.NoError(t, err)

		token, err := signer.Sign(&Actor{UserID: userID, Username: "alice"})
		require.NoError(t, err)

		_, err = other.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token fails verification", func(t *testing.T) {
		signer, err := NewTokenSigner(secret, -time.Minute)
		require.NoError(t, err)

		userID, err := uuid.NewV7()
		require.NoError(t, err)

		token, err := signer.Sign(&Actor{UserID: userID, Username: "alice"})
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token fails verification", func(t *testing.T) {
		signer, err := NewTokenSigner(secret, time.Hour)
		require.NoError(t, err)

		_, err = signer.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
