package favorite

import (
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
)

var (
	ErrFavoritesUnavailable = apperror.New(
		apperror.CodeUnavailable,
		"Couldn't load or save favorites, please retry",
		http.StatusServiceUnavailable,
	).WithDetails(map[string]bool{"retryable": true})

	ErrProductIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"productId is required",
		http.StatusBadRequest,
	)

	ErrNotFavorited = apperror.New(
		apperror.CodeNotFound,
		"Product is not in favorites",
		http.StatusNotFound,
	)
)
