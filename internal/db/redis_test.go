package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmehdipour/phone-engine/internal/config"
	"github.com/jmehdipour/phone-engine/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("connects and pings", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb, err := db.NewRedisClient(config.RedisConfig{Addr: mr.Addr()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = rdb.Close() })

		require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("fails when nothing listens", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := db.NewRedisClient(config.RedisConfig{Addr: addr, DialTimeout: 200 * time.Millisecond})
		assert.Error(t, err)
	})
}

func TestNewMySQLConnectionRequiresDSN(t *testing.T) {
	_, err := db.NewMySQLConnection(config.DatabaseConfig{})
	assert.Error(t, err)
}
