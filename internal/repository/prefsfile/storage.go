// Package prefsfile persists the preference snapshot as a JSON file, the
// storage backend used when no MongoDB is configured.
package prefsfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/herdboard/herdboard/internal/prefs"
)

// Storage implements prefs.Storage on top of a single file.
type Storage struct {
	path string
}

// New builds a file-backed storage at the given path.
func New(path string) *Storage {
	return &Storage{path: path}
}

// Read returns the stored payload, or prefs.ErrNotFound before first write.
func (s *Storage) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, prefs.ErrNotFound
		}
		return nil, fmt.Errorf("read preferences file %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the stored payload.
func (s *Storage) Write(_ context.Context, data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preferences dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write preferences file %s: %w", s.path, err)
	}
	return nil
}
