package codec

import (
	"errors"
	"fmt"
	"io"

	"inspectnet/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export of the settings tree
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument is the settings tree with a version header
type yamlDocument struct {
	Version         int `yaml:"version"`
	domain.Settings `yaml:",inline"`
}

// Parse imports settings from YAML. An empty document yields empty settings.
func (c *YAMLCodec) Parse(r io.Reader) (domain.Settings, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return domain.Settings{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Version > domain.SchemaVersion {
		return domain.Settings{}, fmt.Errorf("unsupported document version %d", doc.Version)
	}

	settings := doc.Settings
	settings.ApplyDefaults()
	return settings, nil
}

// Export exports settings to YAML
func (c *YAMLCodec) Export(settings domain.Settings, w io.Writer) error {
	doc := yamlDocument{Version: domain.SchemaVersion, Settings: settings}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
