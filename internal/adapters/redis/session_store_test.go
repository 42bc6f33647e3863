package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/festivo/notify-api/internal/domain/auth"
)

func newTestRedis(t *testing.T) goredis.UniversalClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStore_Get(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(newTestRedis(t))

	t.Run("round trip", func(t *testing.T) {
		sess := domainauth.Session{
			ID:        "sess-1",
			UserID:    "user-1",
			Email:     "owner@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, store.Save(ctx, sess))

		got, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "owner@example.com", got.Email)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := store.Get(ctx, "sess-unknown")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := store.Get(ctx, "")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired session is rejected even if the key survives", func(t *testing.T) {
		sess := domainauth.Session{
			ID:        "sess-expired",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(50 * time.Millisecond),
		}
		require.NoError(t, store.Save(ctx, sess))
		time.Sleep(80 * time.Millisecond)

		_, err := store.Get(ctx, "sess-expired")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSessionStore_Save(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(newTestRedis(t))

	t.Run("rejects empty id", func(t *testing.T) {
		err := store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)})
		assert.Error(t, err)
	})

	t.Run("rejects already-expired session", func(t *testing.T) {
		err := store.Save(ctx, domainauth.Session{ID: "sess-1", ExpiresAt: time.Now().Add(-time.Minute)})
		assert.Error(t, err)
	})
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "platform:sessions:")

	sess := domainauth.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	// The key lives under the custom prefix, not the default one.
	n, err := client.Exists(ctx, "platform:sessions:sess-1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	defaultStore := NewSessionStore(client)
	_, err = defaultStore.Get(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNotFound)
}
