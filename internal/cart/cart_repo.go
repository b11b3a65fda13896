package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=cart_repo.go -destination=../mock/cart/cart_repo_mock.go -package=mock
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Delete(ctx context.Context, sessionID string) error
}

// ========================
// in-memory
// ========================

type memoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryRepository() Repository {
	return &memoryRepository{carts: make(map[string][]Line)}
}

func (r *memoryRepository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := r.carts[sessionID]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (r *memoryRepository) Save(ctx context.Context, sessionID string, lines []Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(lines) == 0 {
		delete(r.carts, sessionID)
		return nil
	}
	cp := make([]Line, len(lines))
	copy(cp, lines)
	r.carts[sessionID] = cp
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

// ========================
// redis
// ========================

const redisField = "cart"

type redisRepository struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisRepository keeps one hash per session with the JSON encoded lines
// under the "cart" field. Every save pushes the expiry out to ttl so a cart
// outlives its session by no more than that; ttl <= 0 keeps carts forever.
func NewRedisRepository(client redis.Cmdable, ttl time.Duration) Repository {
	return &redisRepository{client: client, prefix: "cart:", ttl: ttl}
}

func (r *redisRepository) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	val, err := r.client.HGet(ctx, r.key(sessionID), redisField).Result()
	if errors.Is(err, redis.Nil) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, lines []Line) error {
	if len(lines) == 0 {
		return r.Delete(ctx, sessionID)
	}

	bin, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	key := r.key(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, redisField, string(bin))
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset cart: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
