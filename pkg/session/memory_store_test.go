package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	newRecord := func() *session.Record {
		return &session.Record{
			Lineage:      uuid.New(),
			Type:         session.Temporary,
			LastActiveAt: time.Now(),
			Data:         map[string]any{"key": "value"},
		}
	}

	t.Run("save and load", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		rec := newRecord()
		require.NoError(t, store.Save(ctx, "id1", rec, time.Hour))

		loaded, err := store.Load(ctx, "id1")
		require.NoError(t, err)
		assert.Equal(t, rec.Lineage, loaded.Lineage)
		assert.Equal(t, "value", loaded.Data["key"])
	})

	t.Run("missing id", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("data isolation", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		rec := newRecord()
		require.NoError(t, store.Save(ctx, "id1", rec, time.Hour))
		rec.Data["key"] = "modified"

		loaded, err := store.Load(ctx, "id1")
		require.NoError(t, err)
		assert.Equal(t, "value", loaded.Data["key"])

		loaded.Data["key"] = "changed again"
		again, err := store.Load(ctx, "id1")
		require.NoError(t, err)
		assert.Equal(t, "value", again.Data["key"])
	})

	t.Run("expired record is gone", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "short", newRecord(), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := store.Load(ctx, "short")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expiry follows the injected clock", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		store := session.NewMemoryStore(0, session.WithMemoryClock(func() time.Time { return now }))
		defer store.Close()

		require.NoError(t, store.Save(ctx, "id1", newRecord(), time.Minute))

		now = now.Add(time.Minute)
		_, err := store.Load(ctx, "id1")
		require.NoError(t, err, "alive at exactly the ttl")

		now = now.Add(time.Minute)
		_, err = store.Load(ctx, "id1")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		require.NoError(t, store.Save(ctx, "id2", newRecord(), time.Minute))
		now = now.Add(2 * time.Minute)
		require.NoError(t, store.DeleteExpired(ctx))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("non-positive ttl never expires", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "forever", newRecord(), 0))
		require.NoError(t, store.DeleteExpired(ctx))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("delete", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "id1", newRecord(), time.Hour))
		require.NoError(t, store.Delete(ctx, "id1"))
		require.NoError(t, store.Delete(ctx, "id1"))

		_, err := store.Load(ctx, "id1")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("delete expired", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "short", newRecord(), time.Millisecond))
		require.NoError(t, store.Save(ctx, "long", newRecord(), time.Hour))
		time.Sleep(5 * time.Millisecond)

		require.NoError(t, store.DeleteExpired(ctx))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("cleanup loop", func(t *testing.T) {
		store := session.NewMemoryStore(10 * time.Millisecond)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "short", newRecord(), time.Millisecond))
		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := session.NewMemoryStore(time.Minute)
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
