package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"inspectnet/internal/codec"
	"inspectnet/internal/domain"
	"inspectnet/internal/store"
	"inspectnet/internal/validation"
)

var (
	// ErrNotFound is returned when an id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrItemTypeLimit is returned when a group already holds MaxItemTypes
	ErrItemTypeLimit = fmt.Errorf("item type limit of %d reached", domain.MaxItemTypes)
	// ErrInvalidDocument is returned when an import cannot be read
	ErrInvalidDocument = errors.New("invalid document")
)

// DiagnosticsRecorder receives the diagnostic count after each change
type DiagnosticsRecorder interface {
	Diagnostics(count int)
}

// SettingsService performs the edits a settings UI makes. Every change is
// persisted immediately; invalid settings are saved all the same.
type SettingsService struct {
	mu       sync.Mutex
	store    *store.Store
	eventBus *EventBus
	recorder DiagnosticsRecorder
	newID    func() string
}

// NewSettingsService creates a new settings service
func NewSettingsService(st *store.Store, eventBus *EventBus) *SettingsService {
	return &SettingsService{
		store:    st,
		eventBus: eventBus,
		newID:    uuid.NewString,
	}
}

// SetIDGenerator replaces the id generator
func (s *SettingsService) SetIDGenerator(fn func() string) {
	s.newID = fn
}

// SetRecorder sets the diagnostics recorder
func (s *SettingsService) SetRecorder(r DiagnosticsRecorder) {
	s.recorder = r
}

// Load reads persisted settings, migrating them if needed
func (s *SettingsService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return err
	}
	s.notify(EventSettingsLoaded, "load", "", s.store.Settings())
	return nil
}

// Settings returns a copy of the current settings tree
func (s *SettingsService) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Settings().Clone()
}

// Database returns the current normalized database
func (s *SettingsService) Database() *domain.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Database()
}

// Validate runs the validator over the current settings
func (s *SettingsService) Validate() validation.Report {
	return validation.Run(s.Settings())
}

// Replace saves a whole settings tree
func (s *SettingsService) Replace(ctx context.Context, settings domain.Settings) error {
	settings = settings.Clone()
	settings.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveFromSettings(ctx, settings.Clone()); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.notify(EventSettingsReplaced, "replace", "", settings)
	return nil
}

// Import parses a document in the given format and replaces the settings
func (s *SettingsService) Import(ctx context.Context, format string, r io.Reader) error {
	c, err := codec.Lookup(format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	settings, err := c.Parse(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return s.Replace(ctx, settings)
}

// Export writes the current settings in the given format
func (s *SettingsService) Export(format string, w io.Writer) error {
	c, err := codec.Lookup(format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.Export(s.Settings(), &buf); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// mutate applies fn to a copy of the settings and persists the result
func (s *SettingsService) mutate(ctx context.Context, action, targetID string, fn func(*domain.Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.store.Settings().Clone()
	if err := fn(&settings); err != nil {
		return err
	}

	if err := s.store.SaveFromSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.notify(EventSettingsUpdated, action, targetID, settings)
	return nil
}

func (s *SettingsService) notify(eventType EventType, action, targetID string, settings domain.Settings) {
	report := validation.Run(settings)
	if s.recorder != nil {
		s.recorder.Diagnostics(report.Count())
	}
	if s.eventBus != nil {
		s.eventBus.Publish(Event{
			Type:    eventType,
			Payload: SettingsChange{Action: action, TargetID: targetID, Diagnostics: report.Count()},
		})
	}
	if !report.Valid() {
		log.Printf("Settings %s saved with %d diagnostics", action, report.Count())
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
