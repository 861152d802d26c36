package expense

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage keeps uploaded document originals so the pipeline has a local
// path to encode and the UI can re-fetch the image later.
type Storage interface {
	// Save writes data under filename and returns the full path.
	Save(filename string, data []byte) (string, error)

	// Remove deletes a previously saved file.
	Remove(path string) error
}

// LocalStorage implements the Storage interface on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes a file and returns its full path.
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}

// Remove deletes a file previously returned by Save.
func (l *LocalStorage) Remove(path string) error {
	if filepath.Dir(path) != filepath.Clean(l.basePath) {
		return fmt.Errorf("path %q is outside storage", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
