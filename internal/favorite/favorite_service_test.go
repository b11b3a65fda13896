package favorite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/cart"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/favorite"
	cartmock "github.com/enyasystem/ecommerce-mobile-catalog/internal/mock/cart"
	mock "github.com/enyasystem/ecommerce-mobile-catalog/internal/mock/favorite"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newFavoriteService(t *testing.T) (favorite.Service, *mock.MockRepository, *cartmock.MockService) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	carts := cartmock.NewMockService(ctrl)

	svc := favorite.NewService(favorite.Deps{Repo: repo, Cart: carts})
	return svc, repo, carts
}

func TestFavoriteService_NewService(t *testing.T) {
	assert.Panics(t, func() { favorite.NewService(favorite.Deps{}) })
	assert.Panics(t, func() { favorite.NewService(favorite.Deps{Repo: favorite.NewMemoryRepository()}) })
}

func TestFavoriteService_Toggle(t *testing.T) {
	ctx := context.Background()
	req := favorite.ToggleRequest{ProductID: "1", Name: "Backpack", Price: 109.95}

	t.Run("adds_when_absent", func(t *testing.T) {
		svc, repo, _ := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return(nil, nil)
		repo.EXPECT().
			Save(ctx, sid, []favorite.Entry{{ProductID: "1", Name: "Backpack", Price: 109.95}}).
			Return(nil)

		res, err := svc.Toggle(ctx, sid, req)
		require.NoError(t, err)
		assert.True(t, res.Favorited)
		assert.Equal(t, 1, res.Count)
	})

	t.Run("removes_when_present", func(t *testing.T) {
		svc, repo, _ := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]favorite.Entry{{ProductID: "1", Name: "Backpack"}}, nil)
		repo.EXPECT().Save(ctx, sid, []favorite.Entry{}).Return(nil)

		res, err := svc.Toggle(ctx, sid, req)
		require.NoError(t, err)
		assert.False(t, res.Favorited)
		assert.Zero(t, res.Count)
	})

	t.Run("invalid_request", func(t *testing.T) {
		svc, _, _ := newFavoriteService(t)

		_, err := svc.Toggle(ctx, uuid.NewString(), favorite.ToggleRequest{Name: "x"})
		assert.Error(t, err)
	})

	t.Run("invalid_session", func(t *testing.T) {
		svc, _, _ := newFavoriteService(t)

		_, err := svc.Toggle(ctx, "abc", req)
		assert.ErrorIs(t, err, session.ErrInvalidSessionID)
	})

	t.Run("load_error", func(t *testing.T) {
		svc, repo, _ := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return(nil, errors.New("timeout"))

		_, err := svc.Toggle(ctx, sid, req)
		assert.ErrorIs(t, err, favorite.ErrFavoritesUnavailable)
	})
}

func TestFavoriteService_IDs(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFavoriteService(t)
	sid := uuid.NewString()

	repo.EXPECT().Load(ctx, sid).Return([]favorite.Entry{{ProductID: "1"}, {ProductID: "3"}}, nil)

	ids, err := svc.IDs(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ids.Has("1"))
	assert.False(t, ids.Has("2"))
	assert.True(t, ids.Has("3"))
}

func TestFavoriteService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_is_noop", func(t *testing.T) {
		svc, repo, _ := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]favorite.Entry{{ProductID: "2"}}, nil)

		res, err := svc.Remove(ctx, sid, "1")
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, res.IDs)
	})

	t.Run("removes", func(t *testing.T) {
		svc, repo, _ := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]favorite.Entry{{ProductID: "1"}, {ProductID: "2"}}, nil)
		repo.EXPECT().Save(ctx, sid, []favorite.Entry{{ProductID: "2"}}).Return(nil)

		res, err := svc.Remove(ctx, sid, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
	})
}

func TestFavoriteService_Clear(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFavoriteService(t)
	sid := uuid.NewString()

	repo.EXPECT().Delete(ctx, sid).Return(nil)
	assert.NoError(t, svc.Clear(ctx, sid))
}

func TestFavoriteService_MoveToCart(t *testing.T) {
	ctx := context.Background()
	entry := favorite.Entry{ProductID: "1", Name: "Backpack", Price: 109.95, ImageURL: "https://img.test/1.png"}

	t.Run("success", func(t *testing.T) {
		svc, repo, carts := newFavoriteService(t)
		sid := uuid.NewString()

		gomock.InOrder(
			repo.EXPECT().Load(ctx, sid).Return([]favorite.Entry{entry}, nil),
			carts.EXPECT().
				AddItem(ctx, sid, cart.AddItemRequest{ProductID: "1", Name: "Backpack", ImageURL: "https://img.test/1.png", Price: 109.95}).
				Return(cart.CartDetailResponse{Count: 1}, nil),
			repo.EXPECT().Save(ctx, sid, []favorite.Entry{}).Return(nil),
		)

		res, err := svc.MoveToCart(ctx, sid, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
	})

	t.Run("cart_failure_keeps_favorite", func(t *testing.T) {
		svc, repo, carts := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]favorite.Entry{entry}, nil)
		carts.EXPECT().AddItem(ctx, sid, gomock.Any()).Return(cart.CartDetailResponse{}, cart.ErrCartUnavailable)

		_, err := svc.MoveToCart(ctx, sid, "1")
		assert.ErrorIs(t, err, cart.ErrCartUnavailable)
	})

	t.Run("not_favorited", func(t *testing.T) {
		svc, repo, _ := newFavoriteService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return(nil, nil)

		_, err := svc.MoveToCart(ctx, sid, "1")
		assert.ErrorIs(t, err, favorite.ErrNotFavorited)
	})
}

func TestFavoriteService_MoveToCart_RealCart(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewService(cart.Deps{Repo: cart.NewMemoryRepository()})
	svc := favorite.NewService(favorite.Deps{Repo: favorite.NewMemoryRepository(), Cart: carts})
	sid := uuid.NewString()

	_, err := svc.Toggle(ctx, sid, favorite.ToggleRequest{ProductID: "7", Name: "Ring", Price: 10})
	require.NoError(t, err)

	detail, err := svc.MoveToCart(ctx, sid, "7")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Count)

	list, err := svc.List(ctx, sid)
	require.NoError(t, err)
	assert.Zero(t, list.Count)
}
