package pipeline

import (
	"context"
	"errors"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/editor"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

// Collaborators owned by the conversational layer. The pipeline only
// consumes them; implementations live outside this module.

// IntentExtractor turns a user utterance into an edit against doc.
type IntentExtractor interface {
	ExtractEdit(ctx context.Context, utterance string, doc *legacy.Document) (*editor.Operation, error)
}

// Place is one search hit returned by a PlaceSearcher.
type Place struct {
	Name        string                 `json:"name"`
	Category    string                 `json:"category,omitempty"`
	Cuisine     string                 `json:"cuisine,omitempty"`
	Address     string                 `json:"address,omitempty"`
	Description string                 `json:"description,omitempty"`
	Coordinates *itinerary.Coordinates `json:"coordinates,omitempty"`
	Sources     itinerary.Payload      `json:"sources,omitempty"`
}

type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, destination string, limit int) ([]Place, error)
}

type Renderer interface {
	Render(ctx context.Context, doc *legacy.Document) ([]byte, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject string, body []byte) error
}

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the current document of each conversation. Load returns
// ErrSessionNotFound for unknown ids.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*legacy.Document, error)
	Save(ctx context.Context, sessionID string, doc *legacy.Document) error
	Delete(ctx context.Context, sessionID string) error
}
