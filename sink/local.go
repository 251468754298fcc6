package sink

import (
	"context"
	"os"
	"path/filepath"
)

// LocalStore implements Store using the local file system.
// The zero value resolves names relative to the working directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Create opens the file in truncating binary write mode.
// Missing parent directories are not created.
func (s *LocalStore) Create(_ context.Context, name string) (Sink, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	path := name
	if s != nil && s.root != "" {
		path = filepath.Join(s.root, name)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // G304: path is configurable
	if err != nil {
		return nil, err
	}
	return f, nil
}
