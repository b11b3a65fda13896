package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Nothing listens on port 1.
const closedAddr = "127.0.0.1:1"

func TestConnectWithRetry_ZeroRetriesStillAttempts(t *testing.T) {
	ctx := context.Background()

	t.Run("redis", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)

		rdb, err := connectRedisWithRetry(ctx, closedAddr, 0, time.Millisecond, zap.New(core))
		require.Error(t, err)
		assert.Nil(t, rdb)
		assert.Contains(t, err.Error(), "connect redis: ")
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("database", func(t *testing.T) {
		db, err := connectDBWithRetry(ctx, "postgres://u:p@"+closedAddr+"/db?sslmode=disable&connect_timeout=1", 0, time.Millisecond, zap.NewNop())
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "connect database: ")
	})

	t.Run("kafka", func(t *testing.T) {
		err := connectKafkaWithRetry(ctx, closedAddr, -3, time.Millisecond, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connect kafka: ")
	})
}

func TestConnectWithRetry_AttemptsEachRetry(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, err := connectRedisWithRetry(context.Background(), closedAddr, 3, time.Millisecond, zap.New(core))
	require.Error(t, err)
	assert.Equal(t, 3, logs.FilterMessage("redis not ready").Len())
}

func TestSleep(t *testing.T) {
	assert.True(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
}
