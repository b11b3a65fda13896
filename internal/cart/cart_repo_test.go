package cart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/cart"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := cart.NewMemoryRepository()

	lines, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	in := []cart.Line{{ProductID: "1", UnitPrice: 2, Quantity: 1}}
	require.NoError(t, repo.Save(ctx, "s1", in))

	in[0].Quantity = 99
	lines, err = repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "s1"))
	lines, _ = repo.Load(ctx, "s1")
	assert.Empty(t, lines)
}

func TestRedisRepository_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, 0)

		mock.ExpectHGet("cart:s1", "cart").RedisNil()

		lines, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decodes_lines", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, 0)

		mock.ExpectHGet("cart:s1", "cart").
			SetVal(`[{"productId":"1","name":"A","imageUrl":"","unitPrice":10,"quantity":2}]`)

		lines, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, []cart.Line{{ProductID: "1", Name: "A", UnitPrice: 10, Quantity: 2}}, lines)
	})

	t.Run("redis_error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, 0)

		mock.ExpectHGet("cart:s1", "cart").SetErr(errors.New("conn refused"))

		_, err := repo.Load(ctx, "s1")
		assert.Error(t, err)
	})

	t.Run("corrupt_payload", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, 0)

		mock.ExpectHGet("cart:s1", "cart").SetVal(`{not json`)

		_, err := repo.Load(ctx, "s1")
		assert.Error(t, err)
	})
}

func TestRedisRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("writes_hash_field", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, 0)

		mock.ExpectTxPipeline()
		mock.ExpectHSet("cart:s1", "cart",
			`[{"productId":"1","name":"A","imageUrl":"","unitPrice":10,"quantity":2}]`,
		).SetVal(1)
		mock.ExpectTxPipelineExec()

		err := repo.Save(ctx, "s1", []cart.Line{{ProductID: "1", Name: "A", UnitPrice: 10, Quantity: 2}})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refreshes_expiry", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, time.Hour)

		mock.ExpectTxPipeline()
		mock.ExpectHSet("cart:s1", "cart",
			`[{"productId":"1","name":"A","imageUrl":"","unitPrice":10,"quantity":1}]`,
		).SetVal(1)
		mock.ExpectExpire("cart:s1", time.Hour).SetVal(true)
		mock.ExpectTxPipelineExec()

		err := repo.Save(ctx, "s1", []cart.Line{{ProductID: "1", Name: "A", UnitPrice: 10, Quantity: 1}})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty_cart_deletes_key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		repo := cart.NewRedisRepository(db, 0)

		mock.ExpectDel("cart:s1").SetVal(1)

		require.NoError(t, repo.Save(ctx, "s1", nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
