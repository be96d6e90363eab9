package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

var compiled sync.Map // name -> *jsonschema.Schema

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}
	data, err := Generate(name)
	if err != nil {
		return nil, err
	}
	schema, err := compile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	actual, _ := compiled.LoadOrStore(name, schema)
	return actual.(*jsonschema.Schema), nil
}

// Validate checks raw JSON against the named schema. The returned error
// wraps ErrInvalid when the value does not match.
func Validate(name string, data []byte) error {
	schema, err := compiledSchema(name)
	if err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	result := schema.Validate(value)
	if result.Valid {
		return nil
	}
	return &ValidationError{Name: name, Problems: problems(result)}
}

// ValidateDocument checks raw JSON against the persisted document schema.
// It is strict where legacy.Parse is tolerant.
func ValidateDocument(data []byte) error {
	return Validate(Document, data)
}

// ValidateState checks raw JSON against the canonical state schema.
func ValidateState(data []byte) error {
	return Validate(State, data)
}

// ValidateOperation checks raw JSON against the edit operation schema.
func ValidateOperation(data []byte) error {
	return Validate(Operation, data)
}
