package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/catalog"
	mock "github.com/enyasystem/ecommerce-mobile-catalog/internal/mock/catalog"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const fakeStoreBody = `[
  {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://fakestoreapi.com/img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":"2","title":"Slim Fit T-Shirt","price":22.3,"description":"shirt","category":"men's clothing","image":"https://fakestoreapi.com/img/2.jpg"},
  {"title":"No id","price":1}
]`

func TestHTTPSource_Products(t *testing.T) {
	t.Run("decodes_fakestore_shape", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(fakeStoreBody))
		}))
		defer srv.Close()

		src := catalog.NewHTTPSource(srv.URL+"/", time.Second, nil)
		items, err := src.Products(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "1", items[0].ID)
		require.NotNil(t, items[0].Rating)
		assert.Equal(t, 3.9, items[0].Rating.Rate)
		assert.Equal(t, "2", items[1].ID)
		assert.Nil(t, items[1].Rating)
	})

	t.Run("non_2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream busy", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := catalog.NewHTTPSource(srv.URL, time.Second, nil).Products(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("bad_json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"oops":`))
		}))
		defer srv.Close()

		_, err := catalog.NewHTTPSource(srv.URL, time.Second, nil).Products(context.Background())
		assert.Error(t, err)
	})
}

func TestCachedSource_Products(t *testing.T) {
	ctx := context.Background()
	cached, _ := json.Marshal(shoes())

	t.Run("hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		upstream := mock.NewMockSource(ctrl)
		db, rmock := redismock.NewClientMock()

		rmock.ExpectGet("catalog:products").SetVal(string(cached))

		items, err := catalog.NewCachedSource(upstream, db, time.Minute, nil).Products(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("miss_fills_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		upstream := mock.NewMockSource(ctrl)
		db, rmock := redismock.NewClientMock()

		rmock.ExpectGet("catalog:products").RedisNil()
		upstream.EXPECT().Products(ctx).Return(shoes(), nil)
		rmock.ExpectSet("catalog:products", string(cached), time.Minute).SetVal("OK")

		items, err := catalog.NewCachedSource(upstream, db, time.Minute, nil).Products(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("redis_down_falls_through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		upstream := mock.NewMockSource(ctrl)
		db, rmock := redismock.NewClientMock()

		rmock.ExpectGet("catalog:products").SetErr(errors.New("connection refused"))
		upstream.EXPECT().Products(ctx).Return(shoes(), nil)
		rmock.ExpectSet("catalog:products", string(cached), time.Minute).SetErr(errors.New("connection refused"))

		items, err := catalog.NewCachedSource(upstream, db, time.Minute, nil).Products(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("upstream_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		upstream := mock.NewMockSource(ctrl)
		db, rmock := redismock.NewClientMock()

		rmock.ExpectGet("catalog:products").RedisNil()
		upstream.EXPECT().Products(ctx).Return(nil, errors.New("502"))

		_, err := catalog.NewCachedSource(upstream, db, time.Minute, nil).Products(ctx)
		assert.Error(t, err)
	})
}
