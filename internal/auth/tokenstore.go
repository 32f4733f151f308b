package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the single opaque bearer token. It is the only durable
// client-side state besides the TTS audio cache.
type TokenStore struct {
	path string
}

// DefaultTokenPath returns the token location under the XDG state directory.
func DefaultTokenPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", "telugo", "token")
}

// NewTokenStore creates a token store at the given path. An empty path uses
// the default location.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &TokenStore{path: path}
}

// Load reads the stored token. A missing file is not an error; it simply
// means no token is stored.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, creating the state directory if needed. The file is
// readable by the owner only.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Delete removes the stored token. Deleting an absent token is a no-op.
func (s *TokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
