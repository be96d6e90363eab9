package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/editor"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/pkg/logger"
)

// Schema names.
const (
	Document  = "document"
	State     = "state"
	Operation = "operation"
)

// BaseID prefixes the $id of every generated schema.
const BaseID = "https://wanderly.dev/schemas/"

var (
	ErrUnknownSchema = errors.New("unknown schema")
	ErrInvalid       = errors.New("value does not match schema")
)

type definition struct {
	name   string
	title  string
	source any
}

var definitions = []definition{
	{name: Document, title: "Wanderly Itinerary Document", source: &legacy.Document{}},
	{name: State, title: "Wanderly Canonical State", source: &itinerary.State{}},
	{name: Operation, title: "Wanderly Edit Operation", source: &editor.Operation{}},
}

// Names returns every schema Generate knows, in a stable order.
func Names() []string {
	out := make([]string, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def.name)
	}
	return out
}

func lookup(name string) (definition, error) {
	for _, def := range definitions {
		if def.name == name {
			return def, nil
		}
	}
	return definition{}, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
}

// FileName returns the file a schema is written to by GenerateAll.
func FileName(name string) string {
	return name + ".schema.json"
}

// Generate returns the indented JSON Schema for name.
func Generate(name string) ([]byte, error) {
	def, err := lookup(name)
	if err != nil {
		return nil, err
	}
	schema := newReflector().Reflect(def.source)
	schema.ID = jsonschema.ID(BaseID + FileName(def.name))
	schema.Title = def.title
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s schema: %w", name, err)
	}
	return data, nil
}

// GenerateAll writes every schema into outDir using up to workers
// goroutines and returns the written paths in Names order.
func GenerateAll(ctx context.Context, outDir string, workers int) ([]string, error) {
	log := logger.FromContext(ctx)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, len(definitions))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(workers, 1))
	for i, def := range definitions {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := Generate(def.name)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, FileName(def.name))
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("failed to write schema to %s: %w", path, err)
			}
			log.Debug("Generated schema", "file", path)
			paths[i] = path
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
		ExpandedStruct:             true,
		Mapper:                     mapType,
	}
}

var (
	itemType   = reflect.TypeOf(itinerary.ItemType(""))
	slotType   = reflect.TypeOf(itinerary.Slot(""))
	kindType   = reflect.TypeOf(editor.OperationKind(""))
	rawMessage = reflect.TypeOf(json.RawMessage{})
)

// mapType describes the enum-like string types and opaque payloads that
// reflection alone would get wrong.
func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case itemType:
		return enum(itinerary.TypeAttraction, itinerary.TypeMealLunch, itinerary.TypeMealDinner, itinerary.TypeRest)
	case slotType:
		return enum(itinerary.SlotMorning, itinerary.SlotAfternoon, itinerary.SlotEvening)
	case kindType:
		return enum(editor.Kinds()...)
	case rawMessage:
		return &jsonschema.Schema{Description: "Opaque JSON value carried through unchanged."}
	default:
		return nil
	}
}

func enum[T ~string](values ...T) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: "string"}
	for _, v := range values {
		out.Enum = append(out.Enum, string(v))
	}
	return out
}
