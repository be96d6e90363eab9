package pipeline

import (
	"context"
	"fmt"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/adapter"
	"github.com/wanderly/wanderly/engine/itinerary/editor"
	"github.com/wanderly/wanderly/engine/itinerary/gate"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/engine/itinerary/reconstruct"
	"github.com/wanderly/wanderly/pkg/logger"
)

// Pipeline is the sanctioned route from a draft to a stored document:
// adapter, reconstructor, provenance stamp, gate, adapter.
type Pipeline struct {
	log           logger.Logger
	gate          *gate.Gate
	schemaVersion int
	defaultTitle  string
}

type Option func(*Pipeline)

func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithSchemaVersion sets the version stamped on certified states.
func WithSchemaVersion(version int) Option {
	return func(p *Pipeline) {
		p.schemaVersion = version
	}
}

// WithDefaultTitle names documents whose draft has no title.
func WithDefaultTitle(title string) Option {
	return func(p *Pipeline) {
		p.defaultTitle = title
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		schemaVersion: itinerary.SchemaVersion,
		defaultTitle:  "My Trip",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.GetDefault()
	}
	p.gate = gate.New(p.log)
	return p
}

func (p *Pipeline) title(doc *legacy.Document) string {
	if doc != nil && doc.Title != "" {
		return doc.Title
	}
	return p.defaultTitle
}

// Certify rebuilds a builder draft into canonical order, stamps builder
// provenance and returns the certified legacy document.
func (p *Pipeline) Certify(ctx context.Context, draft *legacy.Document) (*legacy.Document, error) {
	state := reconstruct.Reconstruct(adapter.ToCoreState(draft)).
		WithMetadata(itinerary.Metadata{Source: itinerary.SourceBuilder, Version: p.schemaVersion})
	if err := p.gate.Verify(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to certify itinerary: %w", err)
	}
	doc := adapter.ToLegacyItinerary(state, p.title(draft))
	p.log.Debug("Itinerary certified", "title", doc.Title, "days", len(doc.Days), "blocks", doc.BlockCount())
	return doc, nil
}

// Accept converts a canonical state produced elsewhere. The state must carry
// builder provenance; nothing is repaired on its behalf.
func (p *Pipeline) Accept(ctx context.Context, state *itinerary.State, title string) (*legacy.Document, error) {
	if err := p.gate.Verify(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to accept itinerary: %w", err)
	}
	if title == "" {
		title = p.defaultTitle
	}
	return adapter.ToLegacyItinerary(state, title), nil
}

// Edit applies op deterministically. The result is repaired and normalized
// but not re-certified.
func (p *Pipeline) Edit(_ context.Context, doc *legacy.Document, op editor.Operation) *legacy.Document {
	return editor.Apply(doc, op)
}

// EditAndCertify applies op and then re-runs the full certification path.
func (p *Pipeline) EditAndCertify(
	ctx context.Context,
	doc *legacy.Document,
	op editor.Operation,
) (*legacy.Document, error) {
	return p.Certify(ctx, editor.Apply(doc, op))
}
