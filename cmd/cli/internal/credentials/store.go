// Package credentials persists the CLI's login state: the server URL
// and the bearer token obtained from the login endpoint.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotLoggedIn is returned when no stored credentials exist.
var ErrNotLoggedIn = errors.New("not logged in")

const (
	configDirName  = ".filedepot"
	configFileName = "credentials.json"
)

// Credentials is the stored login state.
type Credentials struct {
	ServerURL string    `json:"server_url"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	UserID    string    `json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store reads and writes credentials under the user's home directory.
type Store struct {
	path string
}

// NewStore creates a credentials store at the default location
// (~/.filedepot/credentials.json).
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &Store{path: filepath.Join(home, configDirName, configFileName)}, nil
}

// NewStoreAt creates a credentials store at an explicit path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored credentials.
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	if creds.Token == "" {
		return nil, ErrNotLoggedIn
	}

	return &creds, nil
}

// Save writes the credentials with owner-only permissions.
func (s *Store) Save(creds *Credentials) error {
	creds.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}

// Clear removes the stored credentials. Clearing when not logged in is
// not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
