package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
	"github.com/tidwall/pretty"
)

// DefaultOutputName is used when a title has no sluggable characters.
const DefaultOutputName = "itinerary"

// OutputWriter encodes values in the configured format.
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
	pretty bool
}

// NewOutputWriter creates a new output writer. Pretty only affects JSON.
func NewOutputWriter(writer io.Writer, format OutputFormat, pretty bool) *OutputWriter {
	return &OutputWriter{writer: writer, format: format, pretty: pretty}
}

// Encode renders data without writing it.
func (ow *OutputWriter) Encode(data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	switch ow.format {
	case OutputFormatYAML:
		out, err := yaml.JSONToYAML(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to encode output as YAML: %w", err)
		}
		return out, nil
	case OutputFormatJSON, "":
		if ow.pretty {
			return pretty.Pretty(raw), nil
		}
		return append(pretty.Ugly(raw), '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", ow.format)
	}
}

// WriteData writes data in the configured format.
func (ow *OutputWriter) WriteData(data any) error {
	out, err := ow.Encode(data)
	if err != nil {
		return err
	}
	if _, err := ow.writer.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile encodes data into path, creating parent directories.
func (ow *OutputWriter) WriteFile(path string, data any) error {
	out, err := ow.Encode(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// OutputPath names the file a document titled title is written to in dir.
func OutputPath(dir, title string, format OutputFormat) string {
	name := slug.Make(title)
	if name == "" {
		name = DefaultOutputName
	}
	return filepath.Join(dir, name+format.Extension())
}
