package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/engine/itinerary/pipeline"
)

const (
	DefaultKeyPrefix = "wanderly:session:"
	DefaultRetries   = 3
	DefaultBackoff   = 50 * time.Millisecond
)

// RedisClient is the subset of the go-redis client the store needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore persists each session's document as JSON under a prefixed key.
// Keys expire ttl after the last save; a zero ttl keeps them.
type RedisStore struct {
	client  RedisClient
	prefix  string
	ttl     time.Duration
	retries uint64
	backoff time.Duration
}

func NewRedisStore(client RedisClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	ttl = max(ttl, 0)
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, retries: DefaultRetries, backoff: DefaultBackoff}
}

// WithRetries sets how many times a failed command is retried with
// exponential backoff starting at base. Zero disables retries.
func (s *RedisStore) WithRetries(n uint64, base time.Duration) *RedisStore {
	s.retries = n
	if base > 0 {
		s.backoff = base
	}
	return s
}

// do runs fn, retrying errors other than redis.Nil and context cancellation.
func (s *RedisStore) do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*legacy.Document, error) {
	var raw []byte
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = s.client.Get(ctx, s.key(sessionID)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", sessionID, pipeline.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	doc, err := legacy.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, doc *legacy.Document) error {
	data, err := legacy.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	err = s.do(ctx, func(ctx context.Context) error {
		return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	err := s.do(ctx, func(ctx context.Context) error {
		return s.client.Del(ctx, s.key(sessionID)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
