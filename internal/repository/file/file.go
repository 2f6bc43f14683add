package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Repository stores the blob as a single JSON file
type Repository struct {
	mu   sync.Mutex
	path string
}

// New creates a file repository at path. The file is created on first save.
func New(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	return &Repository{path: path}, nil
}

// Path returns the backing file path
func (r *Repository) Path() string {
	return r.path
}

// Load returns the file contents, or nil if the file does not exist
func (r *Repository) Load(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return data, nil
}

// Save writes data to a temporary file and renames it into place
func (r *Repository) Save(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// LastSaved returns the file's modification time, or nil if it does not exist
func (r *Repository) LastSaved(_ context.Context) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", r.path, err)
	}
	modified := info.ModTime().UTC()
	return &modified, nil
}

// Close is a no-op; it exists so file and SQLite repositories share a shape
func (r *Repository) Close() error {
	return nil
}
