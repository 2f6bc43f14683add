// Package store loads and saves inspection settings through a blob
// persistence backend, always persisting the normalized database.
//
// A blob tagged with the current schema version is used as is. Anything
// else (no blob, or the legacy bare settings object) is defaulted,
// normalized, and written back immediately so later loads see the current
// schema.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"inspectnet/internal/domain"
	"inspectnet/internal/normalize"
)

// BlobStore persists a single opaque document. Load returns nil bytes when
// nothing has been stored yet.
type BlobStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Observer is notified of persistence activity
type Observer interface {
	Saved(bytes int)
	Migrated()
}

// StoredData is the persisted envelope
type StoredData struct {
	SchemaVersion int              `json:"schemaVersion"`
	Database      *domain.Database `json:"database"`
}

// Store keeps the current settings tree and its normalized database in sync
// with the blob store
type Store struct {
	blobs    BlobStore
	observer Observer
	settings domain.Settings
	database *domain.Database
}

// New creates a store over the given blob store
func New(blobs BlobStore) *Store {
	return &Store{
		blobs:    blobs,
		settings: domain.DefaultSettings(),
		database: domain.NewDatabase(),
	}
}

// SetObserver registers an observer for saves and migrations
func (s *Store) SetObserver(o Observer) {
	s.observer = o
}

// Settings returns the current settings tree
func (s *Store) Settings() domain.Settings {
	return s.settings
}

// Database returns the current normalized database
func (s *Store) Database() *domain.Database {
	return s.database
}

// Load reads the blob and rebuilds the settings tree, migrating legacy or
// absent data to the current schema. Only blob store errors are returned.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.blobs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load blob: %w", err)
	}

	if db, ok := decodeCurrent(raw); ok {
		s.database = db
		s.settings = normalize.ToSettings(db)
		return nil
	}

	s.settings = decodeLegacy(raw)
	s.database = normalize.ToDatabase(s.settings)
	log.Printf("Migrating stored settings to schema v%d (%d item types, %d collections)",
		domain.SchemaVersion,
		len(s.settings.InspectedItemTypes)+len(s.settings.NonInspectedItemTypes),
		len(s.settings.Collections))

	if err := s.save(ctx); err != nil {
		return fmt.Errorf("save migrated blob: %w", err)
	}
	if s.observer != nil {
		s.observer.Migrated()
	}
	return nil
}

// SaveFromSettings normalizes settings and persists the result. Settings
// are saved whether or not they validate.
func (s *Store) SaveFromSettings(ctx context.Context, settings domain.Settings) error {
	s.settings = settings
	s.database = normalize.ToDatabase(settings)
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	data, err := json.Marshal(StoredData{
		SchemaVersion: domain.SchemaVersion,
		Database:      s.database,
	})
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}

	if err := s.blobs.Save(ctx, data); err != nil {
		return fmt.Errorf("save blob: %w", err)
	}
	if s.observer != nil {
		s.observer.Saved(len(data))
	}
	return nil
}

// decodeCurrent accepts only blobs tagged with the current schema version
// whose database is an object
func decodeCurrent(raw []byte) (*domain.Database, bool) {
	var probe struct {
		SchemaVersion int             `json:"schemaVersion"`
		Database      json.RawMessage `json:"database"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &probe) != nil {
		return nil, false
	}
	if probe.SchemaVersion != domain.SchemaVersion {
		return nil, false
	}
	trimmed := bytes.TrimSpace(probe.Database)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	db := domain.NewDatabase()
	if err := json.Unmarshal(trimmed, db); err != nil {
		return nil, false
	}
	return db, true
}

// decodeLegacy reads a pre-normalization settings object, defaulting
// anything missing. Undecodable input is treated as absent.
func decodeLegacy(raw []byte) domain.Settings {
	settings := domain.DefaultSettings()
	if len(raw) == 0 {
		return settings
	}

	var legacy legacySettings
	if err := json.Unmarshal(raw, &legacy); err != nil {
		log.Printf("Ignoring unreadable stored settings: %v", err)
		return settings
	}

	for _, t := range legacy.InspectedItemTypes {
		itemType := domain.ItemType{
			ID:         t.ID,
			Name:       t.Name,
			Kind:       domain.ParseItemKind(t.Kind),
			Components: make([]domain.Component, 0, len(t.Components)),
		}
		itemType.Components = append(itemType.Components, t.Components...)
		settings.InspectedItemTypes = append(settings.InspectedItemTypes, itemType)
	}

	for _, t := range legacy.NonInspectedItemTypes {
		settings.NonInspectedItemTypes = append(settings.NonInspectedItemTypes, domain.NonInspectedItemType{
			ID:   t.ID,
			Name: t.Name,
			Kind: domain.ParseItemKind(t.Kind),
		})
	}

	for _, c := range legacy.Collections {
		collection := domain.Collection{
			ID:    c.ID,
			Name:  c.Name,
			Items: make([]domain.Item, 0, len(c.Items)),
		}
		collection.Items = append(collection.Items, c.Items...)
		settings.Collections = append(settings.Collections, collection)
	}

	return settings
}

// legacySettings mirrors the bare settings object written before the
// normalized schema existed. Fields are optional.
type legacySettings struct {
	InspectedItemTypes []struct {
		ID         string             `json:"id"`
		Name       string             `json:"name"`
		Kind       string             `json:"kind"`
		Components []domain.Component `json:"components"`
	} `json:"inspectedItemTypes"`
	NonInspectedItemTypes []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Kind string `json:"kind"`
	} `json:"nonInspectedItemTypes"`
	Collections []struct {
		ID    string        `json:"id"`
		Name  string        `json:"name"`
		Items []domain.Item `json:"items"`
	} `json:"collections"`
}
