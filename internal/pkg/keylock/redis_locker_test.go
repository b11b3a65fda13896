package keylock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { db.Close() })

	l := NewRedisLocker(db)
	l.retry = time.Millisecond
	l.wait = 50 * time.Millisecond
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	l, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("lock:cart:s1", "token-1", DefaultLease).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"lock:cart:s1"}, "token-1").SetVal(int64(1))

	unlock, err := l.Lock(context.Background(), "cart:s1")
	require.NoError(t, err)
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocker_WaitsForHolder(t *testing.T) {
	l, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("lock:cart:s1", "token-1", DefaultLease).SetVal(false)
	mock.ExpectSetNX("lock:cart:s1", "token-1", DefaultLease).SetVal(false)
	mock.ExpectSetNX("lock:cart:s1", "token-1", DefaultLease).SetVal(true)

	_, err := l.Lock(context.Background(), "cart:s1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLocker_Errors(t *testing.T) {
	t.Run("redis_down", func(t *testing.T) {
		l, mock := newTestRedisLocker(t)
		mock.ExpectSetNX("lock:k", "token-1", DefaultLease).SetErr(errors.New("connection refused"))

		_, err := l.Lock(context.Background(), "k")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("timeout", func(t *testing.T) {
		l, mock := newTestRedisLocker(t)
		mock.MatchExpectationsInOrder(false)
		for i := 0; i < 200; i++ {
			mock.ExpectSetNX("lock:k", "token-1", DefaultLease).SetVal(false)
		}

		_, err := l.Lock(context.Background(), "k")
		assert.ErrorIs(t, err, ErrLockTimeout)
	})
}
