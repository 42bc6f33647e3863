package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivo/notify-api/config"
)

func TestConnectCacheRedis(t *testing.T) {
	t.Run("dedicated cache address", func(t *testing.T) {
		srv := miniredis.RunT(t)

		client, err := ConnectCacheRedis(
			config.CacheConfig{RedisAddr: srv.Addr()},
			config.RedisConfig{Addr: "session-redis:6379"},
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, client.Set(context.Background(), "contact:guest-1", "1", 0).Err())
		assert.True(t, srv.Exists("contact:guest-1"))
	})

	t.Run("falls back to the session redis", func(t *testing.T) {
		srv := miniredis.RunT(t)

		client, err := ConnectCacheRedis(
			config.CacheConfig{},
			config.RedisConfig{Addr: srv.Addr()},
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("unreachable address fails", func(t *testing.T) {
		_, err := ConnectCacheRedis(
			config.CacheConfig{RedisAddr: "127.0.0.1:1"},
			config.RedisConfig{},
		)
		require.Error(t, err)
	})
}
