package gate

import (
	"context"
	"strconv"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/pkg/logger"
)

// Verify checks that a canonical state was produced by the builder pipeline.
// It never modifies the state.
func Verify(state *itinerary.State) error {
	if state == nil || state.Metadata == nil {
		return newProvenanceError(ErrMissingMetadata, "")
	}
	meta := state.Metadata
	if meta.Source != itinerary.SourceBuilder {
		return newProvenanceError(ErrInvalidSource, strconv.Quote(meta.Source))
	}
	if meta.Version < 1 {
		return newProvenanceError(ErrDeprecatedVersion, strconv.Itoa(meta.Version))
	}
	return nil
}

// Gate wraps Verify with logging. The zero value logs through the logger
// found in the context.
type Gate struct {
	log logger.Logger
}

func New(log logger.Logger) *Gate {
	return &Gate{log: log}
}

func (g *Gate) Verify(ctx context.Context, state *itinerary.State) error {
	log := g.log
	if log == nil {
		log = logger.FromContext(ctx)
	}
	if err := Verify(state); err != nil {
		log.Warn("Itinerary rejected", "error", err)
		return err
	}
	log.Debug("Itinerary approved",
		"source", state.Metadata.Source,
		"version", state.Metadata.Version,
		"items", len(state.Items),
	)
	return nil
}
