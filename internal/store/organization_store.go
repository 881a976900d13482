package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationDownloads is an organization annotated with the total number
// of download events recorded against its files.
type OrganizationDownloads struct {
	OrgID          uuid.UUID
	Name           string
	TotalDownloads int64
}

// OrganizationStore defines the interface for organization storage operations.
// Organizations represent tenants in the system; each owns files and has member users.
type OrganizationStore interface {
	// Create creates a new organization in the store.
	// Returns ErrOrganizationAlreadyExists if an organization with the same
	// ID or name already exists.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// GetByName retrieves an organization by its unique name.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	GetByName(ctx context.Context, name string) (*models.Organization, error)

	// List returns all organizations ordered by name ascending.
	List(ctx context.Context) ([]*models.Organization, error)

	// ListWithDownloadTotals returns every organization annotated with the
	// count of download rows recorded against its files, ordered by name
	// ascending. Organizations with no files or no downloads report a total
	// of zero; they are never omitted.
	ListWithDownloadTotals(ctx context.Context) ([]*OrganizationDownloads, error)

	// Delete deletes an organization by ID.
	// Deletion cascades: all of the organization's files (and their
	// downloads) are removed, and member users have their organization
	// link cleared, not deleted.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Delete(ctx context.Context, orgID uuid.UUID) error
}
