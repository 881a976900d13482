package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

var _ store.OrganizationStore = (*OrganizationStore)(nil)

// OrganizationStore implements store.OrganizationStore as a view over the
// shared in-memory state.
type OrganizationStore struct {
	s *Store
}

// Create creates a new organization in memory.
func (o *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if _, exists := o.s.organizations[org.OrgID]; exists {
		return store.ErrOrganizationAlreadyExists
	}
	for _, existing := range o.s.organizations {
		if existing.Name == org.Name {
			return store.ErrOrganizationAlreadyExists
		}
	}

	// Clone to avoid external modifications
	clone := *org
	o.s.organizations[org.OrgID] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (o *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	org, exists := o.s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// GetByName retrieves an organization by its unique name.
func (o *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	for _, org := range o.s.organizations {
		if org.Name == name {
			clone := *org
			return &clone, nil
		}
	}

	return nil, store.ErrOrganizationNotFound
}

// List returns all organizations ordered by name ascending.
func (o *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	result := make([]*models.Organization, 0, len(o.s.organizations))
	for _, org := range o.s.organizations {
		clone := *org
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// ListWithDownloadTotals returns every organization annotated with the
// count of downloads of its files, ordered by name ascending.
// Organizations with no files or no downloads report zero.
func (o *OrganizationStore) ListWithDownloadTotals(ctx context.Context) ([]*store.OrganizationDownloads, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	totals := make(map[uuid.UUID]int64, len(o.s.organizations))
	for _, dl := range o.s.downloads {
		if file, ok := o.s.files[dl.FileID]; ok {
			totals[file.OrgID]++
		}
	}

	result := make([]*store.OrganizationDownloads, 0, len(o.s.organizations))
	for _, org := range o.s.organizations {
		result = append(result, &store.OrganizationDownloads{
			OrgID:          org.OrgID,
			Name:           org.Name,
			TotalDownloads: totals[org.OrgID],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Delete deletes an organization by ID, cascading to its files and their
// downloads. Member users have their organization link cleared.
func (o *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if _, exists := o.s.organizations[orgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	for fileID, file := range o.s.files {
		if file.OrgID == orgID {
			o.s.deleteFileDownloadsLocked(fileID)
			delete(o.s.files, fileID)
		}
	}

	for _, user := range o.s.users {
		if user.OrgID != nil && *user.OrgID == orgID {
			user.OrgID = nil
		}
	}

	delete(o.s.organizations, orgID)

	return nil
}
