package helpers

// OutputFormat represents the supported output encodings.
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// StdinPath selects standard input where a file path is expected.
const StdinPath = "-"

// Extension returns the file extension for f, including the dot.
func (f OutputFormat) Extension() string {
	if f == OutputFormatYAML {
		return ".yaml"
	}
	return ".json"
}
