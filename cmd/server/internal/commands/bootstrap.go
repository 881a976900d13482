package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/logger"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store"
)

// BootstrapCmd creates an organization and a member user. This is the
// administrative flow the API deliberately does not expose; it is how a
// new deployment gets its first accounts.
type BootstrapCmd struct {
	OrgName  string `help:"organization name (created if missing)" required:""`
	Username string `help:"username for the new user" required:""`
	Email    string `help:"email for the new user" required:""`
	Password string `help:"password for the new user" required:"" env:"FILEDEPOT_BOOTSTRAP_PASSWORD"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"postgres" env:"FILEDEPOT_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *BootstrapCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	stores, cleanup, err := buildStores(ctx, c.StoreType, c.PostgresStore)
	if err != nil {
		return err
	}
	defer cleanup()

	org, err := c.ensureOrganization(ctx, stores.Organizations)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(c.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate user ID: %w", err)
	}

	now := time.Now()
	user := &models.User{
		UserID:       userID,
		Username:     c.Username,
		Email:        c.Email,
		OrgID:        &org.OrgID,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := stores.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("org_id", org.OrgID.String()).
		Str("org_name", org.Name).
		Str("user_id", user.UserID.String()).
		Str("username", user.Username).
		Msg("Bootstrap complete")

	return nil
}

func (c *BootstrapCmd) ensureOrganization(ctx context.Context, orgs store.OrganizationStore) (*models.Organization, error) {
	org, err := orgs.GetByName(ctx, c.OrgName)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, store.ErrOrganizationNotFound) {
		return nil, err
	}

	orgID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization ID: %w", err)
	}

	now := time.Now()
	org = &models.Organization{
		OrgID:     orgID,
		Name:      c.OrgName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}
