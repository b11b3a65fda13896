package cart

import (
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
)

var (
	ErrCartUnavailable = apperror.New(
		apperror.CodeUnavailable,
		"Couldn't load or save the cart, please retry",
		http.StatusServiceUnavailable,
	).WithDetails(map[string]bool{"retryable": true})

	ErrProductIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"productId is required",
		http.StatusBadRequest,
	)
)
