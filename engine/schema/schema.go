package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// -----------------------------------------------------------------------------
// Schema
// -----------------------------------------------------------------------------

// Schema is a JSON Schema document in map form.
type Schema map[string]any
type Result = jsonschema.EvaluationResult

func (s *Schema) String() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(bytes)
}

func (s *Schema) Compile() (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compile(bytes)
}

// Validate checks value against the schema. A nil schema accepts anything.
func (s *Schema) Validate(value any) (*Result, error) {
	schema, err := s.Compile()
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, nil
	}
	result := schema.Validate(value)
	if result.Valid {
		return result, nil
	}
	return result, &ValidationError{Problems: problems(result)}
}

func compile(data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// problems flattens evaluation errors into sorted messages.
func problems(result *Result) []string {
	out := make([]string, 0, len(result.Errors))
	for keyword, err := range result.Errors {
		out = append(out, keyword+": "+err.Error())
	}
	slices.Sort(out)
	return out
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// ValidationError lists why a value did not match a schema.
type ValidationError struct {
	Name     string
	Problems []string
}

func (e *ValidationError) Error() string {
	prefix := "schema validation failed"
	if e.Name != "" {
		prefix = e.Name + " " + prefix
	}
	if len(e.Problems) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
