package cart

import (
	"context"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/keylock"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	aggregateType = "CART"
	lockPrefix    = "cart:"
)

const (
	EventItemAdded       = "CART_ITEM_ADDED"
	EventItemIncremented = "CART_ITEM_INCREMENTED"
	EventItemDecremented = "CART_ITEM_DECREMENTED"
	EventItemRemoved     = "CART_ITEM_REMOVED"
	EventCleared         = "CART_CLEARED"
)

//go:generate mockgen -source=cart_service.go -destination=../mock/cart/cart_service_mock.go -package=mock
type Service interface {
	Detail(ctx context.Context, sessionID string) (CartDetailResponse, error)
	Count(ctx context.Context, sessionID string) (int, error)

	AddItem(ctx context.Context, sessionID string, req AddItemRequest) (CartDetailResponse, error)
	Increment(ctx context.Context, sessionID, productID string) (CartDetailResponse, error)
	Decrement(ctx context.Context, sessionID, productID string) (CartDetailResponse, error)

	DeleteItem(ctx context.Context, sessionID, productID string) (CartDetailResponse, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	repo     Repository
	events   *outbox.Recorder
	locks    keylock.Locker
	validate *validator.Validate
	logger   *zap.Logger
}

type Deps struct {
	Repo   Repository
	Events *outbox.Recorder
	// Locks serialises commands per session; nil means in-process only.
	Locks  keylock.Locker
	Logger *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Repo == nil {
		panic("cart repository cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Events == nil {
		deps.Events = outbox.NewRecorder(outbox.Discard, deps.Logger)
	}
	if deps.Locks == nil {
		deps.Locks = keylock.New()
	}

	return &service{
		repo:     deps.Repo,
		events:   deps.Events,
		locks:    deps.Locks,
		validate: validator.New(),
		logger:   deps.Logger.Named("cart.service"),
	}
}

// ========================
// helpers
// ========================

type eventPayload struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

func (s *service) load(ctx context.Context, sessionID string) (*Store, error) {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("load cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrCartUnavailable.WithCause(err)
	}
	return Restore(lines), nil
}

// mutate runs fn against the session's cart under the session lock and
// persists the result when fn reports a change.
func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Store) bool) (*Store, bool, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return nil, false, err
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if !fn(store) {
		return store, false, nil
	}

	if err := s.repo.Save(ctx, sessionID, store.Lines()); err != nil {
		s.logger.Error("save cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, false, ErrCartUnavailable.WithCause(err)
	}
	return store, true, nil
}

func (s *service) lock(ctx context.Context, sessionID string) (func(), error) {
	unlock, err := s.locks.Lock(ctx, lockPrefix+sessionID)
	if err != nil {
		s.logger.Error("lock cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrCartUnavailable.WithCause(err)
	}
	return unlock, nil
}

func (s *service) record(ctx context.Context, eventType string, p eventPayload) {
	s.events.Record(ctx, aggregateType, p.SessionID, eventType, p)
}

// ========================
// queries
// ========================

func (s *service) Detail(ctx context.Context, sessionID string) (CartDetailResponse, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return CartDetailResponse{}, err
	}

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return CartDetailResponse{}, err
	}
	return toDetailResponse(store), nil
}

func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return 0, err
	}

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return store.Count(), nil
}

// ========================
// commands
// ========================

func (s *service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (CartDetailResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return CartDetailResponse{}, apperror.FromValidation(err)
	}

	store, _, err := s.mutate(ctx, sessionID, func(st *Store) bool {
		st.Add(Item{
			ProductID: req.ProductID,
			Name:      req.Name,
			ImageURL:  req.ImageURL,
			UnitPrice: req.Price,
		})
		return true
	})
	if err != nil {
		return CartDetailResponse{}, err
	}

	line, _ := store.Line(req.ProductID)
	s.logger.Debug("item added",
		zap.String("session_id", sessionID),
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", line.Quantity),
	)
	s.record(ctx, EventItemAdded, eventPayload{SessionID: sessionID, ProductID: req.ProductID, Quantity: line.Quantity})

	return toDetailResponse(store), nil
}

func (s *service) Increment(ctx context.Context, sessionID, productID string) (CartDetailResponse, error) {
	return s.lineCommand(ctx, sessionID, productID, EventItemIncremented, (*Store).Increase)
}

// Decrement stops at 1; removing a line is DeleteItem's job.
func (s *service) Decrement(ctx context.Context, sessionID, productID string) (CartDetailResponse, error) {
	return s.lineCommand(ctx, sessionID, productID, EventItemDecremented, (*Store).Decrease)
}

func (s *service) DeleteItem(ctx context.Context, sessionID, productID string) (CartDetailResponse, error) {
	return s.lineCommand(ctx, sessionID, productID, EventItemRemoved, (*Store).Remove)
}

// lineCommand applies op to one line. Unknown products are a silent no-op.
func (s *service) lineCommand(
	ctx context.Context,
	sessionID, productID, eventType string,
	op func(*Store, string) bool,
) (CartDetailResponse, error) {
	if productID == "" {
		return CartDetailResponse{}, ErrProductIDRequired
	}

	store, changed, err := s.mutate(ctx, sessionID, func(st *Store) bool {
		return op(st, productID)
	})
	if err != nil {
		return CartDetailResponse{}, err
	}

	if changed {
		line, _ := store.Line(productID)
		s.record(ctx, eventType, eventPayload{SessionID: sessionID, ProductID: productID, Quantity: line.Quantity})
	}
	return toDetailResponse(store), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := session.ValidateID(sessionID); err != nil {
		return err
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.Error("clear cart", zap.String("session_id", sessionID), zap.Error(err))
		return ErrCartUnavailable.WithCause(err)
	}

	s.logger.Debug("cart cleared", zap.String("session_id", sessionID))
	s.record(ctx, EventCleared, eventPayload{SessionID: sessionID})
	return nil
}
