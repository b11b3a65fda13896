package catalog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/catalog"
	mock "github.com/enyasystem/ecommerce-mobile-catalog/internal/mock/catalog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupRoutes(svc catalog.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	catalog.RegisterRoutes(r.Group("/api/v1"), catalog.NewHandler(svc, nil), func(c *gin.Context) { c.Next() })
	return r
}

func TestCatalogRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	r := setupRoutes(svc)

	svc.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(catalog.ListResponse{Items: []catalog.ItemResponse{{ID: "1"}}, Count: 1}, nil)
	svc.EXPECT().Detail(gomock.Any(), "1").Return(catalog.ItemResponse{ID: "1", Title: "Red Shoe"}, nil)
	svc.EXPECT().Categories(gomock.Any()).Return(catalog.CategoriesResponse{
		Categories: []string{catalog.AllCategories, "A"},
	}, nil)

	for _, path := range []string{"/api/v1/products?sort_by=newest", "/api/v1/products/1", "/api/v1/categories"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCatalogRoutes_RejectsBadRangeBeforeService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)

	w := httptest.NewRecorder()
	setupRoutes(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?max_price=Inf", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
