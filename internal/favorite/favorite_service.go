package favorite

import (
	"context"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/cart"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/keylock"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	aggregateType = "FAVORITES"
	lockPrefix    = "favorites:"
)

const (
	EventAdded   = "FAVORITE_ADDED"
	EventRemoved = "FAVORITE_REMOVED"
	EventCleared = "FAVORITES_CLEARED"
)

// CartAdder is the part of the cart service MoveToCart needs.
type CartAdder interface {
	AddItem(ctx context.Context, sessionID string, req cart.AddItemRequest) (cart.CartDetailResponse, error)
}

//go:generate mockgen -source=favorite_service.go -destination=../mock/favorite/favorite_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, sessionID string) (ListResponse, error)
	IDs(ctx context.Context, sessionID string) (IDSet, error)
	Toggle(ctx context.Context, sessionID string, req ToggleRequest) (ToggleResponse, error)
	Remove(ctx context.Context, sessionID, productID string) (ListResponse, error)
	Clear(ctx context.Context, sessionID string) error
	MoveToCart(ctx context.Context, sessionID, productID string) (cart.CartDetailResponse, error)
}

type service struct {
	repo     Repository
	cart     CartAdder
	events   *outbox.Recorder
	locks    keylock.Locker
	validate *validator.Validate
	logger   *zap.Logger
}

type Deps struct {
	Repo   Repository
	Cart   CartAdder
	Events *outbox.Recorder
	// Locks serialises commands per session; nil means in-process only.
	Locks  keylock.Locker
	Logger *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Repo == nil {
		panic("favorite repository cannot be nil")
	}
	if deps.Cart == nil {
		panic("cart service cannot be nil")
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
		cart:     deps.Cart,
		events:   deps.Events,
		locks:    deps.Locks,
		validate: validator.New(),
		logger:   deps.Logger.Named("favorite.service"),
	}
}

type eventPayload struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
}

func (s *service) load(ctx context.Context, sessionID string) (*Store, error) {
	entries, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("load favorites", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrFavoritesUnavailable.WithCause(err)
	}
	return Restore(entries), nil
}

func (s *service) lock(ctx context.Context, sessionID string) (func(), error) {
	unlock, err := s.locks.Lock(ctx, lockPrefix+sessionID)
	if err != nil {
		s.logger.Error("lock favorites", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrFavoritesUnavailable.WithCause(err)
	}
	return unlock, nil
}

func (s *service) save(ctx context.Context, sessionID string, store *Store) error {
	if err := s.repo.Save(ctx, sessionID, store.Entries()); err != nil {
		s.logger.Error("save favorites", zap.String("session_id", sessionID), zap.Error(err))
		return ErrFavoritesUnavailable.WithCause(err)
	}
	return nil
}

func (s *service) List(ctx context.Context, sessionID string) (ListResponse, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return ListResponse{}, err
	}

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(store), nil
}

// IDs backs the heart icon on product lists.
func (s *service) IDs(ctx context.Context, sessionID string) (IDSet, error) {
	if err := session.ValidateID(sessionID); err != nil {
		return nil, err
	}

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return store.IDs(), nil
}

func (s *service) Toggle(ctx context.Context, sessionID string, req ToggleRequest) (ToggleResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return ToggleResponse{}, apperror.FromValidation(err)
	}
	if err := session.ValidateID(sessionID); err != nil {
		return ToggleResponse{}, err
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return ToggleResponse{}, err
	}
	defer unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return ToggleResponse{}, err
	}

	favorited := store.Toggle(req.entry())
	if err := s.save(ctx, sessionID, store); err != nil {
		return ToggleResponse{}, err
	}

	eventType := EventRemoved
	if favorited {
		eventType = EventAdded
	}
	s.events.Record(ctx, aggregateType, sessionID, eventType, eventPayload{
		SessionID: sessionID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Category:  req.Category,
	})

	return ToggleResponse{
		ProductID: req.ProductID,
		Favorited: favorited,
		Count:     store.Count(),
	}, nil
}

// Remove is a silent no-op for products that are not favorited.
func (s *service) Remove(ctx context.Context, sessionID, productID string) (ListResponse, error) {
	if productID == "" {
		return ListResponse{}, ErrProductIDRequired
	}
	if err := session.ValidateID(sessionID); err != nil {
		return ListResponse{}, err
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return ListResponse{}, err
	}
	defer unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return ListResponse{}, err
	}

	if !store.Remove(productID) {
		return toListResponse(store), nil
	}
	if err := s.save(ctx, sessionID, store); err != nil {
		return ListResponse{}, err
	}

	s.events.Record(ctx, aggregateType, sessionID, EventRemoved, eventPayload{SessionID: sessionID, ProductID: productID})
	return toListResponse(store), nil
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
		s.logger.Error("clear favorites", zap.String("session_id", sessionID), zap.Error(err))
		return ErrFavoritesUnavailable.WithCause(err)
	}

	s.events.Record(ctx, aggregateType, sessionID, EventCleared, eventPayload{SessionID: sessionID})
	return nil
}

// MoveToCart adds the favorited product to the cart, then drops it from
// favorites. If the cart add fails the favorites are left untouched.
func (s *service) MoveToCart(ctx context.Context, sessionID, productID string) (cart.CartDetailResponse, error) {
	if productID == "" {
		return cart.CartDetailResponse{}, ErrProductIDRequired
	}
	if err := session.ValidateID(sessionID); err != nil {
		return cart.CartDetailResponse{}, err
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return cart.CartDetailResponse{}, err
	}
	defer unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.CartDetailResponse{}, err
	}

	entry, ok := store.Entry(productID)
	if !ok {
		return cart.CartDetailResponse{}, ErrNotFavorited
	}

	detail, err := s.cart.AddItem(ctx, sessionID, cart.AddItemRequest{
		ProductID: entry.ProductID,
		Name:      entry.Name,
		ImageURL:  entry.ImageURL,
		Price:     entry.Price,
	})
	if err != nil {
		return cart.CartDetailResponse{}, err
	}

	store.Remove(productID)
	if err := s.save(ctx, sessionID, store); err != nil {
		// the cart already holds the item; favorites catch up on the next toggle
		s.logger.Warn("product moved to cart but favorites not updated",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID),
		)
		return cart.CartDetailResponse{}, err
	}

	s.events.Record(ctx, aggregateType, sessionID, EventRemoved, eventPayload{SessionID: sessionID, ProductID: productID})
	return detail, nil
}
