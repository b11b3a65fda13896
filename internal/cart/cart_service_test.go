package cart_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/cart"
	mock "github.com/enyasystem/ecommerce-mobile-catalog/internal/mock/cart"
	outboxmock "github.com/enyasystem/ecommerce-mobile-catalog/internal/mock/outbox"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCartService(t *testing.T) (cart.Service, *mock.MockRepository, *outboxmock.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	events := outboxmock.NewMockRepository(ctrl)

	svc := cart.NewService(cart.Deps{
		Repo:   repo,
		Events: outbox.NewRecorder(events, nil),
	})
	return svc, repo, events
}

func expectEvent(events *outboxmock.MockRepository, eventType string) {
	events.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e outbox.Event) error {
			if e.EventType != eventType {
				return errors.New("unexpected event " + e.EventType)
			}
			return nil
		})
}

func TestCartService_NewService(t *testing.T) {
	assert.Panics(t, func() { cart.NewService(cart.Deps{}) })
}

func TestCartService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, _ := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{
			{ProductID: "1", Name: "A", UnitPrice: 10, Quantity: 2},
			{ProductID: "2", Name: "B", UnitPrice: 5, Quantity: 1},
		}, nil)

		res, err := svc.Detail(ctx, sid)
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 3, res.Count)
		assert.Equal(t, 25.0, res.Subtotal)
		assert.Equal(t, 2.0, res.Tax)
		assert.Equal(t, 27.0, res.Total)
		assert.Equal(t, 20.0, res.Items[0].LineTotal)
	})

	t.Run("invalid_session", func(t *testing.T) {
		svc, _, _ := newCartService(t)

		_, err := svc.Detail(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, session.ErrInvalidSessionID)
	})

	t.Run("repo_error_is_retryable", func(t *testing.T) {
		svc, repo, _ := newCartService(t)
		sid := uuid.NewString()
		boom := errors.New("redis down")

		repo.EXPECT().Load(ctx, sid).Return(nil, boom)

		_, err := svc.Detail(ctx, sid)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
		assert.Equal(t, map[string]bool{"retryable": true}, httpErr.Details)
	})
}

func TestCartService_Count(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCartService(t)
	sid := uuid.NewString()

	repo.EXPECT().Load(ctx, sid).Return([]cart.Line{
		{ProductID: "1", UnitPrice: 1, Quantity: 4},
		{ProductID: "2", UnitPrice: 1, Quantity: 3},
	}, nil)

	n, err := svc.Count(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	req := cart.AddItemRequest{ProductID: "1", Name: "Red Shoe", Price: 100}

	t.Run("new_line", func(t *testing.T) {
		svc, repo, events := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{}, nil)
		repo.EXPECT().
			Save(ctx, sid, []cart.Line{{ProductID: "1", Name: "Red Shoe", UnitPrice: 100, Quantity: 1}}).
			Return(nil)
		expectEvent(events, cart.EventItemAdded)

		res, err := svc.AddItem(ctx, sid, req)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
	})

	t.Run("existing_line_keeps_price", func(t *testing.T) {
		svc, repo, events := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{
			{ProductID: "1", Name: "Red Shoe", UnitPrice: 80, Quantity: 1},
		}, nil)
		repo.EXPECT().
			Save(ctx, sid, []cart.Line{{ProductID: "1", Name: "Red Shoe", UnitPrice: 80, Quantity: 2}}).
			Return(nil)
		expectEvent(events, cart.EventItemAdded)

		res, err := svc.AddItem(ctx, sid, req)
		require.NoError(t, err)
		assert.Equal(t, 160.0, res.Subtotal)
	})

	t.Run("validation_error", func(t *testing.T) {
		svc, _, _ := newCartService(t)

		_, err := svc.AddItem(ctx, uuid.NewString(), cart.AddItemRequest{Price: -1})
		require.Error(t, err)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	})

	t.Run("save_error", func(t *testing.T) {
		svc, repo, _ := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return(nil, nil)
		repo.EXPECT().Save(ctx, sid, gomock.Any()).Return(errors.New("write failed"))

		_, err := svc.AddItem(ctx, sid, req)
		assert.ErrorIs(t, err, cart.ErrCartUnavailable)
	})

	t.Run("outbox_failure_does_not_fail_command", func(t *testing.T) {
		svc, repo, events := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return(nil, nil)
		repo.EXPECT().Save(ctx, sid, gomock.Any()).Return(nil)
		events.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := svc.AddItem(ctx, sid, req)
		assert.NoError(t, err)
	})
}

func TestCartService_Increment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, events := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 1}}, nil)
		repo.EXPECT().Save(ctx, sid, []cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 2}}).Return(nil)
		expectEvent(events, cart.EventItemIncremented)

		res, err := svc.Increment(ctx, sid, "1")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count)
	})

	t.Run("missing_product_is_noop", func(t *testing.T) {
		svc, repo, _ := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 1}}, nil)

		res, err := svc.Increment(ctx, sid, "404")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
	})

	t.Run("empty_product_id", func(t *testing.T) {
		svc, _, _ := newCartService(t)

		_, err := svc.Increment(ctx, uuid.NewString(), "")
		assert.ErrorIs(t, err, cart.ErrProductIDRequired)
	})
}

func TestCartService_Decrement(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, events := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 3}}, nil)
		repo.EXPECT().Save(ctx, sid, []cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 2}}).Return(nil)
		expectEvent(events, cart.EventItemDecremented)

		res, err := svc.Decrement(ctx, sid, "1")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count)
	})

	t.Run("stops_at_one", func(t *testing.T) {
		svc, repo, _ := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Load(ctx, sid).Return([]cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 1}}, nil)

		res, err := svc.Decrement(ctx, sid, "1")
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, 1, res.Items[0].Quantity)
	})
}

func TestCartService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	svc, repo, events := newCartService(t)
	sid := uuid.NewString()

	repo.EXPECT().Load(ctx, sid).Return([]cart.Line{
		{ProductID: "1", UnitPrice: 2, Quantity: 3},
		{ProductID: "2", UnitPrice: 1, Quantity: 1},
	}, nil)
	repo.EXPECT().Save(ctx, sid, []cart.Line{{ProductID: "2", UnitPrice: 1, Quantity: 1}}).Return(nil)
	expectEvent(events, cart.EventItemRemoved)

	res, err := svc.DeleteItem(ctx, sid, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, events := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Delete(ctx, sid).Return(nil)
		expectEvent(events, cart.EventCleared)

		assert.NoError(t, svc.Clear(ctx, sid))
	})

	t.Run("repo_error", func(t *testing.T) {
		svc, repo, _ := newCartService(t)
		sid := uuid.NewString()

		repo.EXPECT().Delete(ctx, sid).Return(errors.New("boom"))

		assert.ErrorIs(t, svc.Clear(ctx, sid), cart.ErrCartUnavailable)
	})
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	svc := cart.NewService(cart.Deps{Repo: cart.NewMemoryRepository()})
	sid := uuid.NewString()
	req := cart.AddItemRequest{ProductID: "1", Name: "Red Shoe", Price: 1}

	const n = 50
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.AddItem(ctx, sid, req)
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	count, err := svc.Count(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

type failingLocker struct{ keys []string }

func (l *failingLocker) Lock(_ context.Context, key string) (func(), error) {
	l.keys = append(l.keys, key)
	return nil, errors.New("lock: redis down")
}

func TestCartService_LockFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	locks := &failingLocker{}
	svc := cart.NewService(cart.Deps{Repo: repo, Locks: locks})
	sid := uuid.NewString()

	_, err := svc.AddItem(ctx, sid, cart.AddItemRequest{ProductID: "1", Name: "Red Shoe", Price: 1})
	assert.ErrorIs(t, err, cart.ErrCartUnavailable)
	assert.ErrorIs(t, svc.Clear(ctx, sid), cart.ErrCartUnavailable)
	assert.Equal(t, []string{"cart:" + sid, "cart:" + sid}, locks.keys)
}
