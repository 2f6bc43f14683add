package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"inspectnet/internal/domain"
)

// Importer reads a settings tree from an external document
type Importer interface {
	Parse(r io.Reader) (domain.Settings, error)
	Format() string
}

// Exporter writes a settings tree as an external document
type Exporter interface {
	Export(settings domain.Settings, w io.Writer) error
	Format() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// Lookup returns the codec for a format name
func Lookup(format string) (Codec, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// FormatForPath derives the format name from a file extension
func FormatForPath(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, err := Lookup(format); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return format, nil
}
