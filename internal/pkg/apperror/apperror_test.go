package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

var errSample = apperror.New(apperror.CodeNotFound, "Thing not found", http.StatusNotFound)

func TestToHTTP(t *testing.T) {
	t.Run("nil_error", func(t *testing.T) {
		res := apperror.ToHTTP(nil)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Empty(t, res.Code)
	})

	t.Run("app_error_in_chain", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", errSample)

		res := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, res.Status)
		assert.Equal(t, apperror.CodeNotFound, res.Code)
		assert.Equal(t, "Thing not found", res.Message)
	})

	t.Run("details_are_forwarded", func(t *testing.T) {
		err := errSample.WithDetails(map[string]bool{"retryable": true})

		res := apperror.ToHTTP(err)
		assert.Equal(t, map[string]bool{"retryable": true}, res.Details)
	})

	t.Run("plain_error_is_internal", func(t *testing.T) {
		res := apperror.ToHTTP(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, apperror.CodeInternalError, res.Code)
	})
}

func TestAppError_Is(t *testing.T) {
	cause := errors.New("redis down")
	err := errSample.WithCause(cause)

	assert.ErrorIs(t, err, errSample)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "redis down")

	other := apperror.New(apperror.CodeNotFound, "Other not found", http.StatusNotFound)
	assert.NotErrorIs(t, err, other)
}

func TestWrap(t *testing.T) {
	cause := errors.New("bad json")
	err := apperror.Wrap(cause, apperror.CodeInvalidInput, "Invalid request body", http.StatusBadRequest)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
}
