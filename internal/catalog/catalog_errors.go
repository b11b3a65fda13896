package catalog

import (
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
)

var (
	ErrCatalogUnavailable = apperror.New(
		apperror.CodeUnavailable,
		"Couldn't load products, please retry",
		http.StatusServiceUnavailable,
	).WithDetails(map[string]bool{"retryable": true})

	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)

	ErrInvalidSortMode = apperror.New(
		apperror.CodeInvalidInput,
		"sort_by must be one of popularity, newest, priceLowHigh, priceHighLow",
		http.StatusBadRequest,
	)

	ErrInvalidPriceRange = apperror.New(
		apperror.CodeInvalidInput,
		"min_price and max_price must be finite numbers",
		http.StatusBadRequest,
	)
)
