package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
	"github.com/dmitrymomot/sessionguard/pkg/mongo"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

func setup(t *testing.T) *mongo.SessionStore {
	t.Helper()
	url := os.Getenv("MONGODB_TEST_URL")
	if url == "" {
		t.Skip("MONGODB_TEST_URL is not set")
	}

	ctx := context.Background()
	cfg := mongo.Config{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    5,
		RetryAttempts:  1,
		Database:       "sessionguard_test",
	}
	client, err := mongo.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	coll := client.Database(cfg.Database).Collection("sessions_" + uuid.NewString()[:8])
	t.Cleanup(func() { _ = coll.Drop(context.Background()) })

	store := mongo.NewSessionStore(coll)
	require.NoError(t, store.EnsureIndexes(ctx))
	require.NoError(t, store.Ping(ctx))
	return store
}

func TestSessionStore(t *testing.T) {
	store := setup(t)
	ctx := context.Background()

	uid := int64(42)
	rec := &session.Record{
		Lineage:      uuid.New(),
		Type:         session.Continuous,
		UserID:       &uid,
		Fingerprint:  fingerprint.Fingerprint{fingerprint.SignalIP: "1.2.3.4"},
		LastActiveAt: time.Now().UTC().Truncate(time.Millisecond),
		Data:         map[string]any{"theme": "dark"},
	}

	require.NoError(t, store.Save(ctx, "abc", rec, time.Hour))
	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, rec.Lineage, loaded.Lineage)
	assert.Equal(t, session.Continuous, loaded.Type)
	assert.True(t, rec.LastActiveAt.Equal(loaded.LastActiveAt))
	assert.Equal(t, "dark", loaded.Data["theme"])

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_Expired(t *testing.T) {
	store := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", &session.Record{Lineage: uuid.New()}, time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Load(ctx, "short")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_DeleteUserSessions(t *testing.T) {
	store := setup(t)
	ctx := context.Background()

	uid := int64(7)
	require.NoError(t, store.Save(ctx, "a", &session.Record{Lineage: uuid.New(), UserID: &uid}, time.Hour))
	require.NoError(t, store.Save(ctx, "b", &session.Record{Lineage: uuid.New(), UserID: &uid}, time.Hour))
	require.NoError(t, store.DeleteUserSessions(ctx, uid))

	for _, id := range []string{"a", "b"} {
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	}
}
