package keylock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultLease = 5 * time.Second
	DefaultRetry = 20 * time.Millisecond
)

// ErrLockTimeout is returned when the key stayed held for the whole wait.
var ErrLockTimeout = errors.New("keylock: timed out waiting for lock")

// releaseScript deletes the key only while it still carries our token, so a
// holder whose lease expired cannot free somebody else's lock.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker serialises across processes sharing one Redis. Each lock is a
// SET NX key with a lease so a crashed holder cannot block a key forever.
type RedisLocker struct {
	client   redis.Cmdable
	prefix   string
	lease    time.Duration
	retry    time.Duration
	wait     time.Duration
	newToken func() string
}

func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{
		client:   client,
		prefix:   "lock:",
		lease:    DefaultLease,
		retry:    DefaultRetry,
		wait:     DefaultLease,
		newToken: uuid.NewString,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := l.newToken()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.lease).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}

	return func() {
		// best effort; the lease frees the key anyway
		_ = l.client.Eval(context.Background(), releaseScript, []string{redisKey}, token).Err()
	}, nil
}
