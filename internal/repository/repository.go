package repository

import (
	"context"
	"fmt"
	"time"

	"inspectnet/internal/repository/file"
	"inspectnet/internal/repository/sqlite"
	"inspectnet/internal/store"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Repository is a blob store that owns resources
type Repository interface {
	store.BlobStore

	// LastSaved returns when the blob was last written, or nil if never
	LastSaved(ctx context.Context) (*time.Time, error)

	// Close releases resources
	Close() error
}

// Open returns the repository for driver at path
func Open(driver, path string) (Repository, error) {
	switch driver {
	case DriverSQLite, "":
		return sqlite.New(path)
	case DriverFile:
		return file.New(path)
	default:
		return nil, fmt.Errorf("unknown repository driver %q", driver)
	}
}
