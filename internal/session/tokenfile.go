package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the auth token between process runs. An absent file
// means unauthenticated at next start.
type TokenFile struct {
	path string
}

// NewTokenFile creates a token file handle at path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Load reads the persisted token. Returns "" with no error when the file
// does not exist.
func (t *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token atomically.
func (t *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Missing file is not an error.
func (t *TokenFile) Clear() error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
