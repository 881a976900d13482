package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wolfeidau/filedepot/cmd/cli/internal/credentials"
	"github.com/wolfeidau/filedepot/internal/client"
)

type Globals struct {
	Debug   bool
	Version string
}

// newClient builds an API client from stored credentials. Commands that
// need authentication call this; a missing login surfaces as
// credentials.ErrNotLoggedIn.
func newClient(serverOverride string) (*client.Client, *credentials.Credentials, error) {
	store, err := credentials.NewStore()
	if err != nil {
		return nil, nil, err
	}

	creds, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	serverURL := creds.ServerURL
	if serverOverride != "" {
		serverURL = serverOverride
	}

	c := client.New(client.Config{
		ServerURL: serverURL,
		Token:     creds.Token,
		Timeout:   5 * time.Minute,
		CacheDir:  cacheDir(),
	})

	return c, creds, nil
}

// cacheDir returns the HTTP response cache location, or empty to fall
// back to in-memory caching.
func cacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".filedepot", "cache")
}

// formatSize renders a nullable byte count for display.
func formatSize(size *int64) string {
	if size == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *size)
}
