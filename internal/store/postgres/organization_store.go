package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

// Create creates a new organization in the database.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			org_id, name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4
		)
	`

	_, err := s.pool.Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at
		FROM organizations
		WHERE org_id = $1
	`

	var org models.Organization
	err := s.pool.QueryRow(ctx, query, orgID).Scan(
		&org.OrgID,
		&org.Name,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at
		FROM organizations
		WHERE name = $1
	`

	var org models.Organization
	err := s.pool.QueryRow(ctx, query, name).Scan(
		&org.OrgID,
		&org.Name,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization by name: %w", err)
	}

	return &org, nil
}

// List returns all organizations ordered by name ascending.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at
		FROM organizations
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		err := rows.Scan(
			&org.OrgID,
			&org.Name,
			&org.CreatedAt,
			&org.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

// ListWithDownloadTotals returns every organization annotated with the
// count of download rows recorded against its files, ordered by name
// ascending. The LEFT JOINs keep organizations with no files or no
// downloads in the result with a total of zero.
func (s *OrganizationStore) ListWithDownloadTotals(ctx context.Context) ([]*store.OrganizationDownloads, error) {
	query := `
		SELECT o.org_id, o.name, COUNT(d.download_id) AS total_downloads
		FROM organizations o
		LEFT JOIN files f ON f.org_id = o.org_id
		LEFT JOIN downloads d ON d.file_id = f.file_id
		GROUP BY o.org_id, o.name
		ORDER BY o.name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization download totals: %w", err)
	}
	defer rows.Close()

	var result []*store.OrganizationDownloads
	for rows.Next() {
		var od store.OrganizationDownloads
		err := rows.Scan(
			&od.OrgID,
			&od.Name,
			&od.TotalDownloads,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization download totals: %w", err)
		}
		result = append(result, &od)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organization download totals: %w", err)
	}

	return result, nil
}

// Delete deletes an organization by ID.
// The schema cascades: the organization's files and their downloads are
// removed via ON DELETE CASCADE, and users' org link is cleared via
// ON DELETE SET NULL.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	query := `DELETE FROM organizations WHERE org_id = $1`

	result, err := s.pool.Exec(ctx, query, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Info().
		Str("org_id", orgID.String()).
		Msg("Deleted organization (cascade-deleted its files and downloads, cleared user links)")

	return nil
}
