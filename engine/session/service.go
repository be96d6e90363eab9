package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/wanderly/wanderly/engine/itinerary/editor"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/engine/itinerary/pipeline"
	"github.com/wanderly/wanderly/pkg/logger"
)

var (
	ErrNoExtractor = errors.New("no intent extractor configured")
	ErrNoOperation = errors.New("no edit operation extracted")
)

// Outcome reports the result of one conversational edit turn. Changed is
// false when the edit resolved to nothing (unknown day, no matching item,
// protected meal); the caller turns that into "I couldn't find that".
type Outcome struct {
	Document  *legacy.Document `json:"document"`
	Operation editor.Operation `json:"operation"`
	Changed   bool             `json:"changed"`
}

// Service glues the itinerary pipeline to a session store.
type Service struct {
	store     pipeline.SessionStore
	pipeline  *pipeline.Pipeline
	extractor pipeline.IntentExtractor
	certify   bool
}

type ServiceOption func(*Service)

func WithExtractor(extractor pipeline.IntentExtractor) ServiceOption {
	return func(s *Service) {
		s.extractor = extractor
	}
}

// WithCertifiedEdits re-runs full certification after every edit.
func WithCertifiedEdits(certify bool) ServiceOption {
	return func(s *Service) {
		s.certify = certify
	}
}

func NewService(store pipeline.SessionStore, p *pipeline.Pipeline, opts ...ServiceOption) *Service {
	s := &Service{store: store, pipeline: p}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start generates a trip and stores it as the session's current document.
func (s *Service) Start(
	ctx context.Context,
	sessionID string,
	req pipeline.TripRequest,
	searcher pipeline.PlaceSearcher,
) (*legacy.Document, error) {
	doc, err := s.pipeline.Generate(ctx, req, searcher)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Session started", "session_id", sessionID, "title", doc.Title)
	return doc, nil
}

// Open certifies an existing document and stores it as the session's
// current document.
func (s *Service) Open(ctx context.Context, sessionID string, draft *legacy.Document) (*legacy.Document, error) {
	doc, err := s.pipeline.Certify(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Session opened", "session_id", sessionID, "title", doc.Title)
	return doc, nil
}

// Current returns the session's stored document.
func (s *Service) Current(ctx context.Context, sessionID string) (*legacy.Document, error) {
	return s.store.Load(ctx, sessionID)
}

// Edit applies op to the session's document and stores the result when it
// changed anything.
func (s *Service) Edit(ctx context.Context, sessionID string, op editor.Operation) (*Outcome, error) {
	log := logger.FromContext(ctx).With("session_id", sessionID, "operation", op.Kind)
	if err := op.Validate(); err != nil {
		return nil, err
	}
	current, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	edited := s.pipeline.Edit(ctx, current, op)
	outcome := &Outcome{
		Document:  edited,
		Operation: op,
		Changed:   !editor.Normalize(current).Equal(edited),
	}
	if !outcome.Changed {
		log.Info("Edit had no effect")
		outcome.Document = current
		return outcome, nil
	}
	if s.certify {
		edited, err = s.pipeline.Certify(ctx, edited)
		if err != nil {
			return nil, err
		}
		outcome.Document = edited
	}
	if err := s.store.Save(ctx, sessionID, edited); err != nil {
		return nil, err
	}
	log.Info("Edit applied", "blocks", edited.BlockCount())
	return outcome, nil
}

// HandleUtterance extracts an edit from free text and applies it.
func (s *Service) HandleUtterance(ctx context.Context, sessionID, utterance string) (*Outcome, error) {
	if s.extractor == nil {
		return nil, ErrNoExtractor
	}
	current, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	op, err := s.extractor.ExtractEdit(ctx, utterance, current)
	if err != nil {
		return nil, fmt.Errorf("failed to extract edit: %w", err)
	}
	if op == nil {
		return nil, fmt.Errorf("%q: %w", utterance, ErrNoOperation)
	}
	return s.Edit(ctx, sessionID, *op)
}

// End forgets the session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
