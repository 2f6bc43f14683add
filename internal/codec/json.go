package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"inspectnet/internal/domain"
	"inspectnet/internal/normalize"
)

// JSONCodec handles JSON import/export of the settings tree. Parse also
// accepts a persisted schema v1 envelope.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports settings from JSON
func (c *JSONCodec) Parse(r io.Reader) (domain.Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to read JSON: %w", err)
	}

	var envelope struct {
		SchemaVersion int              `json:"schemaVersion"`
		Database      *domain.Database `json:"database"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if envelope.SchemaVersion == domain.SchemaVersion && envelope.Database != nil {
		return normalize.ToSettings(envelope.Database), nil
	}

	var settings domain.Settings
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&settings); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	settings.ApplyDefaults()

	return settings, nil
}

// Export exports settings to JSON
func (c *JSONCodec) Export(settings domain.Settings, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(settings); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
