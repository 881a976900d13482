package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors for authorization verdicts. The boundary layer maps
// ErrUnauthenticated and ErrForbidden to distinct client-visible
// rejections; a forbidden verdict is never downgraded to not-found.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("permission denied")
)

// RequireActor returns the authenticated actor from the context.
// Returns ErrUnauthenticated if no actor is present. Listing, download
// and history operations deliberately require nothing beyond this - any
// authenticated identity may read any organization's catalog and
// download any file.
func RequireActor(ctx context.Context) (*Actor, error) {
	actor := ActorFromContext(ctx)
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return actor, nil
}

// RequireUploadTo checks that the actor may upload into the target
// organization: the actor's own organization must equal the target
// exactly. There is no cross-organization upload and no admin override.
//
// Target existence is the caller's concern and must be checked first, so
// a missing organization surfaces as not-found rather than forbidden.
func RequireUploadTo(actor *Actor, orgID uuid.UUID) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.OrgID == nil || *actor.OrgID != orgID {
		return ErrForbidden
	}
	return nil
}
