package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/kvstore"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/keylock"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"go.uber.org/zap"
)

// MaxRecent is how many searches are kept per session.
const MaxRecent = 10

const keyPrefix = "recent_searches:"

//go:generate mockgen -source=search_service.go -destination=../mock/search/search_service_mock.go -package=mock
type Service interface {
	Recent(ctx context.Context, sessionID string) ([]string, error)
	Save(ctx context.Context, sessionID, query string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store  kvstore.Store
	locks  keylock.Locker
	logger *zap.Logger
}

// NewService serialises per session with locks; nil means in-process only.
func NewService(store kvstore.Store, locks keylock.Locker, logger *zap.Logger) Service {
	if store == nil {
		panic("kv store cannot be nil")
	}
	if locks == nil {
		locks = keylock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		store:  store,
		locks:  locks,
		logger: logger.Named("search.service"),
	}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *service) read(ctx context.Context, sessionID string) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, key(sessionID))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode recent searches: %w", err)
	}
	return list, nil
}

func (s *service) Recent(ctx context.Context, sessionID string) ([]string, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return nil, err
	}

	list, err := s.read(ctx, sessionID)
	if err != nil {
		s.logger.Warn("load recent searches", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrLoadFailed.WithCause(err)
	}
	return list, nil
}

// Save moves query to the front of the list, dropping an older copy of it and
// anything beyond MaxRecent. Blank queries leave the list as it is.
func (s *service) Save(ctx context.Context, sessionID, query string) ([]string, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, key(sessionID))
	if err != nil {
		return nil, ErrSaveFailed.WithCause(err)
	}
	defer unlock()

	list, err := s.read(ctx, sessionID)
	if err != nil {
		s.logger.Warn("load recent searches before save", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrSaveFailed.WithCause(err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return list, nil
	}

	next := Push(list, query)
	bin, err := json.Marshal(next)
	if err != nil {
		return nil, ErrSaveFailed.WithCause(err)
	}
	if err := s.store.Set(ctx, key(sessionID), string(bin)); err != nil {
		s.logger.Warn("save recent searches", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrSaveFailed.WithCause(err)
	}
	return next, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := session.ValidateID(sessionID); err != nil {
		return err
	}

	unlock, err := s.locks.Lock(ctx, key(sessionID))
	if err != nil {
		return ErrClearFailed.WithCause(err)
	}
	defer unlock()

	if err := s.store.Remove(ctx, key(sessionID)); err != nil {
		s.logger.Warn("clear recent searches", zap.String("session_id", sessionID), zap.Error(err))
		return ErrClearFailed.WithCause(err)
	}
	return nil
}

// Push returns a new list with query first, without duplicates, capped at
// MaxRecent. Matching is exact.
func Push(list []string, query string) []string {
	out := make([]string, 0, MaxRecent)
	out = append(out, query)
	for _, q := range list {
		if len(out) == MaxRecent {
			break
		}
		if q == query {
			continue
		}
		out = append(out, q)
	}
	return out
}
