package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/engine/itinerary/pipeline"
)

func sampleDoc() *legacy.Document {
	return &legacy.Document{
		Title: "Lisbon",
		Days: []legacy.Day{
			{Day: 1, Blocks: []legacy.Block{
				{ID: "a", Time: "Morning", Slot: "Morning", Activity: "Belem Tower", Duration: "90 mins",
					Type: "attraction", Sources: itinerary.Payload(`[{"id":"x"}]`),
					Coordinates: &itinerary.Coordinates{Lat: 38.69, Lng: -9.21}},
				{ID: "b", Time: legacy.LunchTime, Slot: "Afternoon", Activity: "Lunch at Time Out Market",
					Type: "meal", MealType: "lunch", Fixed: true},
				{ID: "c", Time: "Afternoon", Slot: "Afternoon", Activity: "Alfama walk", Type: "attraction"},
				{ID: "d", Time: legacy.DinnerTime, Slot: "Evening", Activity: "Dinner at Ramiro",
					Type: "meal", MealType: "dinner", Fixed: true},
			}},
			{Day: 2, Blocks: []legacy.Block{
				{ID: "e", Time: "Morning", Slot: "Morning", Activity: "Sintra", Type: "attraction"},
			}},
		},
	}
}

func runStoreContract(t *testing.T, store pipeline.SessionStore) {
	ctx := t.Context()

	t.Run("Should report unknown sessions", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, pipeline.ErrSessionNotFound)
	})

	t.Run("Should round trip documents", func(t *testing.T) {
		doc := sampleDoc()
		require.NoError(t, store.Save(ctx, "s1", doc))

		got, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, doc.Equal(got))
	})

	t.Run("Should not share state with callers", func(t *testing.T) {
		doc := sampleDoc()
		require.NoError(t, store.Save(ctx, "s2", doc))
		doc.Days[0].Blocks[0].Activity = "changed"

		got, err := store.Load(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, "Belem Tower", got.Days[0].Blocks[0].Activity)

		got.Days[0].Blocks[0].Activity = "changed again"
		again, err := store.Load(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, "Belem Tower", again.Days[0].Blocks[0].Activity)
	})

	t.Run("Should delete sessions", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "s3", sampleDoc()))
		require.NoError(t, store.Delete(ctx, "s3"))
		_, err := store.Load(ctx, "s3")
		assert.ErrorIs(t, err, pipeline.ErrSessionNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(8, time.Hour)
	runStoreContract(t, store)

	t.Run("Should evict the least recently used session", func(t *testing.T) {
		small := NewMemoryStore(2, 0)
		ctx := context.Background()
		require.NoError(t, small.Save(ctx, "a", sampleDoc()))
		require.NoError(t, small.Save(ctx, "b", sampleDoc()))
		_, err := small.Load(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, small.Save(ctx, "c", sampleDoc()))

		assert.Equal(t, 2, small.Len())
		_, err = small.Load(ctx, "b")
		assert.ErrorIs(t, err, pipeline.ErrSessionNotFound)
	})

	t.Run("Should fall back to the default size", func(t *testing.T) {
		store := NewMemoryStore(0, 0)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Should expire sessions after the TTL", func(t *testing.T) {
		short := NewMemoryStore(4, 50*time.Millisecond)
		ctx := context.Background()
		require.NoError(t, short.Save(ctx, "s", sampleDoc()))
		_, err := short.Load(ctx, "s")
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			_, err := short.Load(ctx, "s")
			return errors.Is(err, pipeline.ErrSessionNotFound)
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("Should keep sessions without a TTL", func(t *testing.T) {
		forever := NewMemoryStore(4, 0)
		ctx := context.Background()
		require.NoError(t, forever.Save(ctx, "s", sampleDoc()))
		time.Sleep(50 * time.Millisecond)
		_, err := forever.Load(ctx, "s")
		assert.NoError(t, err)
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "", time.Hour)
	runStoreContract(t, store)

	t.Run("Should write under the prefix with a TTL", func(t *testing.T) {
		require.NoError(t, store.Save(t.Context(), "ttl", sampleDoc()))
		assert.True(t, mr.Exists(DefaultKeyPrefix+"ttl"))
		assert.Equal(t, time.Hour, mr.TTL(DefaultKeyPrefix+"ttl"))

		mr.FastForward(2 * time.Hour)
		_, err := store.Load(t.Context(), "ttl")
		assert.ErrorIs(t, err, pipeline.ErrSessionNotFound)
	})

	t.Run("Should fail on corrupt payloads", func(t *testing.T) {
		require.NoError(t, mr.Set(DefaultKeyPrefix+"bad", "not json"))
		_, err := store.Load(t.Context(), "bad")
		require.Error(t, err)
		assert.ErrorIs(t, err, legacy.ErrInvalidDocument)
	})
}

// flakyClient fails the first failures calls of every command.
type flakyClient struct {
	*redis.Client
	failures int
	calls    int
}

var errFlaky = errors.New("connection reset")

func (c *flakyClient) fail() bool {
	c.calls++
	return c.calls <= c.failures
}

func (c *flakyClient) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if c.fail() {
		return redis.NewStatusResult("", errFlaky)
	}
	return c.Client.Set(ctx, key, value, ttl)
}

func TestRedisStore_Retry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	t.Run("Should retry transient failures", func(t *testing.T) {
		flaky := &flakyClient{Client: client, failures: 2}
		store := NewRedisStore(flaky, "", time.Hour).WithRetries(3, time.Millisecond)

		require.NoError(t, store.Save(t.Context(), "s1", sampleDoc()))
		assert.Equal(t, 3, flaky.calls)
		assert.True(t, mr.Exists(DefaultKeyPrefix+"s1"))
	})

	t.Run("Should give up after the retry budget", func(t *testing.T) {
		flaky := &flakyClient{Client: client, failures: 10}
		store := NewRedisStore(flaky, "", time.Hour).WithRetries(1, time.Millisecond)

		err := store.Save(t.Context(), "s2", sampleDoc())
		require.ErrorIs(t, err, errFlaky)
		assert.Equal(t, 2, flaky.calls)
	})

	t.Run("Should not retry missing keys", func(t *testing.T) {
		store := NewRedisStore(client, "", time.Hour).WithRetries(3, time.Millisecond)
		_, err := store.Load(t.Context(), "missing")
		assert.ErrorIs(t, err, pipeline.ErrSessionNotFound)
	})
}
