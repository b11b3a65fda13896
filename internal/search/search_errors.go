package search

import (
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
)

const (
	CodeLoadFailed  = "RECENT_SEARCH_LOAD_FAILED"
	CodeSaveFailed  = "RECENT_SEARCH_SAVE_FAILED"
	CodeClearFailed = "RECENT_SEARCH_CLEAR_FAILED"
)

var retryable = map[string]bool{"retryable": true}

var (
	ErrLoadFailed = apperror.New(
		CodeLoadFailed,
		"Couldn't load recent searches",
		http.StatusServiceUnavailable,
	).WithDetails(retryable)

	ErrSaveFailed = apperror.New(
		CodeSaveFailed,
		"Couldn't save your search",
		http.StatusServiceUnavailable,
	).WithDetails(retryable)

	ErrClearFailed = apperror.New(
		CodeClearFailed,
		"Couldn't clear recent searches",
		http.StatusServiceUnavailable,
	).WithDetails(retryable)
)
