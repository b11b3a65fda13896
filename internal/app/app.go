package app

import (
	"context"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter returns a gin engine with the common middleware chain.
func NewRouter(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)
	return r
}

// BuildApp connects the configured infrastructure and registers every module
// on router. The returned cleanup closes what was opened.
func BuildApp(ctx context.Context, router *gin.Engine, cfg Config, logger *zap.Logger) (func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Setup Infrastructure
	var infra Infra
	cleanup := func() {
		if infra.Redis != nil {
			_ = infra.Redis.Close()
		}
		if infra.DB != nil {
			_ = infra.DB.Close()
		}
	}

	if cfg.RedisAddr != "" {
		rdb, err := connectRedisWithRetry(ctx, cfg.RedisAddr, cfg.ConnectRetries, cfg.RetryDelay, logger)
		if err != nil {
			return nil, err
		}
		infra.Redis = rdb
	}

	if cfg.DBURL != "" {
		db, err := connectDBWithRetry(ctx, cfg.DBURL, cfg.ConnectRetries, cfg.RetryDelay, logger)
		if err != nil {
			cleanup()
			return nil, err
		}
		infra.DB = db

		if err := outbox.EnsureSchema(ctx, db); err != nil {
			cleanup()
			return nil, err
		}
	}

	// 2. Register Modules & Routes
	registerModules(router, cfg, infra, logger)

	return cleanup, nil
}
