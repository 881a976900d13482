package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfeidau/filedepot/internal/store"
	memorystore "github.com/wolfeidau/filedepot/internal/store/memory"
	postgresstore "github.com/wolfeidau/filedepot/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

// Stores bundles the entity stores behind a single wiring point so
// commands can swap the backing implementation.
type Stores struct {
	Organizations store.OrganizationStore
	Users         store.UserStore
	Files         store.FileStore
	Downloads     store.DownloadStore
	Sessions      store.SessionStore
}

// PostgresStoreFlags configures the shared PostgreSQL connection pool.
type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"FILEDEPOT_POSTGRES_AUTO_MIGRATE"`
}

// buildStores creates the entity stores for the selected store type.
// The returned cleanup closes the connection pool when one was created.
func buildStores(ctx context.Context, storeType string, flags PostgresStoreFlags) (*Stores, func(), error) {
	switch storeType {
	case "postgres":
		if flags.ConnString == "" {
			return nil, nil, errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
		}

		pool, err := newPool(ctx, flags)
		if err != nil {
			return nil, nil, err
		}

		if flags.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		return &Stores{
			Organizations: postgresstore.NewOrganizationStore(pool),
			Users:         postgresstore.NewUserStore(pool),
			Files:         postgresstore.NewFileStore(pool),
			Downloads:     postgresstore.NewDownloadStore(pool),
			Sessions:      postgresstore.NewSessionStore(pool),
		}, pool.Close, nil

	default:
		mem := memorystore.NewStore()
		return &Stores{
			Organizations: mem.Organizations(),
			Users:         mem.Users(),
			Files:         mem.Files(),
			Downloads:     mem.Downloads(),
			Sessions:      mem.Sessions(),
		}, func() {}, nil
	}
}

func newPool(ctx context.Context, flags PostgresStoreFlags) (*pgxpool.Pool, error) {
	pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
		ConnString:      flags.ConnString,
		MaxConns:        flags.MaxConns,
		MinConns:        flags.MinConns,
		MaxConnLifetime: flags.MaxConnLifetime,
		MaxConnIdleTime: flags.MaxConnIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return pool, nil
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	// Create HTTP server
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
