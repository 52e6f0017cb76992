// Package tokenstore persists the single bearer credential across
// process restarts. Stores do not validate token shape; absence of a
// credential means logged out.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

// FileStore keeps the credential in a mode-0600 file. Clear removes
// the file and treats an already-absent file as success.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, credential string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(credential), 0o600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	credential := strings.TrimSpace(string(raw))
	if credential == "" {
		return "", domain.ErrNoCredential
	}
	return credential, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}
