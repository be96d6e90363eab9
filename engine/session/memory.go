package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/engine/itinerary/pipeline"
)

const DefaultMemorySize = 1024

// MemoryStore keeps the most recently used sessions in process. Sessions
// expire ttl after their last save; a zero ttl keeps them until evicted.
// Documents are cloned on the way in and out so callers never share state.
type MemoryStore struct {
	cache *expirable.LRU[string, *legacy.Document]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryStore{cache: expirable.NewLRU[string, *legacy.Document](size, nil, max(ttl, 0))}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*legacy.Document, error) {
	doc, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", sessionID, pipeline.ErrSessionNotFound)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, doc *legacy.Document) error {
	s.cache.Add(sessionID, doc.Clone())
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Remove(sessionID)
	return nil
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
