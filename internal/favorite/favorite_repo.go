package favorite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=favorite_repo.go -destination=../mock/favorite/favorite_repo_mock.go -package=mock
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Entry, error)
	Save(ctx context.Context, sessionID string, entries []Entry) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryRepository struct {
	mu        sync.RWMutex
	favorites map[string][]Entry
}

func NewMemoryRepository() Repository {
	return &memoryRepository{favorites: make(map[string][]Entry)}
}

func (r *memoryRepository) Load(ctx context.Context, sessionID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.favorites[sessionID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *memoryRepository) Save(ctx context.Context, sessionID string, entries []Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(entries) == 0 {
		delete(r.favorites, sessionID)
		return nil
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	r.favorites[sessionID] = cp
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.favorites, sessionID)
	return nil
}

const redisField = "favorites"

type redisRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisRepository stores favorites next to the cart, under
// "favorites:<session>" with the JSON list in the "favorites" field. Saves
// refresh the key's expiry to ttl when ttl > 0.
func NewRedisRepository(client redis.Cmdable, ttl time.Duration) Repository {
	return &redisRepository{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return "favorites:" + sessionID
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) ([]Entry, error) {
	val, err := r.client.HGet(ctx, key(sessionID), redisField).Result()
	if errors.Is(err, redis.Nil) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget favorites: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return entries, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, entries []Entry) error {
	if len(entries) == 0 {
		return r.Delete(ctx, sessionID)
	}

	bin, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	k := key(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, redisField, string(bin))
		if r.ttl > 0 {
			pipe.Expire(ctx, k, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset favorites: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del favorites: %w", err)
	}
	return nil
}
