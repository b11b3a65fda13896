package logger_test

import (
	"testing"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production", "PRODUCTION"} {
		l, err := logger.New(env)
		require.NoError(t, err, env)
		assert.NotNil(t, l, env)
	}
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	logger.Named("cart.handler", nil, zap.New(core)).Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cart.handler", logs.All()[0].LoggerName)
}

func TestNamed_FallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	logger.Named("search.handler").Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "search.handler", logs.All()[0].LoggerName)
}
