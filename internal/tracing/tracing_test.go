package tracing_test

import (
	"context"
	"testing"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := tracing.Init(context.Background(), "storefront", "test", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
