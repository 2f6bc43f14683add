package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultKey names the row holding the inspection settings blob
const DefaultKey = "inspection"

// Repository stores blobs in SQLite, one row per key
type Repository struct {
	db  *sql.DB
	key string
}

// New opens (or creates) the database at dbPath and migrates its schema
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if !strings.HasPrefix(dbPath, ":memory:") {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, key: DefaultKey}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		value JSON NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Load returns the stored blob, or nil if none has been saved
func (r *Repository) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query blob %s: %w", r.key, err)
	}
	return value, nil
}

// Save upserts the blob and records the save time
func (r *Repository) Save(ctx context.Context, data []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO blobs (key, value, size, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, size = excluded.size, updated_at = CURRENT_TIMESTAMP
	`, r.key, string(data), len(data)); err != nil {
		return fmt.Errorf("failed to store blob %s: %w", r.key, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, "last_save:"+r.key, fmt.Sprintf(`"%s"`, time.Now().UTC().Format(time.RFC3339))); err != nil {
		return fmt.Errorf("failed to store save timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LastSaved returns when the blob was last written, or nil if never
func (r *Repository) LastSaved(ctx context.Context) (*time.Time, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, "last_save:"+r.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query save timestamp: %w", err)
	}
	return parseTimestamp(raw)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
