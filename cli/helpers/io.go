package helpers

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

// ReadInput returns the contents of path, or of stdin when path is StdinPath.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// IsYAML reports whether input should be decoded as YAML. The file extension
// decides when present; otherwise anything not starting with '{' or '[' is
// treated as YAML.
func IsYAML(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '['
}

// ToJSON converts YAML input to JSON and passes JSON through.
func ToJSON(path string, data []byte) ([]byte, error) {
	if !IsYAML(path, data) {
		return data, nil
	}
	out, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to JSON: %w", displayName(path), err)
	}
	return out, nil
}

// ReadDocument reads and tolerantly decodes an itinerary document.
func ReadDocument(path string, stdin io.Reader) (*legacy.Document, error) {
	data, err := ReadInput(path, stdin)
	if err != nil {
		return nil, err
	}
	var doc *legacy.Document
	if IsYAML(path, data) {
		doc, err = legacy.ParseYAML(data)
	} else {
		doc, err = legacy.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(path), err)
	}
	return doc, nil
}

func displayName(path string) string {
	if path == StdinPath {
		return "stdin"
	}
	return path
}
