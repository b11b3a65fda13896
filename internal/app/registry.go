package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/cart"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/catalog"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/favorite"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/kvstore"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/keylock"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/search"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Infra holds the optional backing services. A nil Redis keeps state in
// process memory; a nil DB drops outbox events.
type Infra struct {
	DB    *sql.DB
	Redis *redis.Client
}

func registerModules(router *gin.Engine, cfg Config, infra Infra, logger *zap.Logger) {
	// --- Stores ---
	var (
		cartRepo     cart.Repository
		favoriteRepo favorite.Repository
		kv           kvstore.Store
		locks        keylock.Locker = keylock.New()
		source       catalog.Source = catalog.NewHTTPSource(cfg.CatalogBaseURL, cfg.CatalogTimeout, logger)
	)
	if infra.Redis != nil {
		cartRepo = cart.NewRedisRepository(infra.Redis, cfg.SessionTTL)
		favoriteRepo = favorite.NewRedisRepository(infra.Redis, cfg.SessionTTL)
		locks = keylock.NewRedisLocker(infra.Redis)
		kv = kvstore.NewRedisStore(infra.Redis, cfg.RecentSearchTTL)
		source = catalog.NewCachedSource(source, infra.Redis, cfg.CatalogCacheTTL, logger)
	} else {
		logger.Warn("REDIS_ADDR not set, session state lives in memory")
		cartRepo = cart.NewMemoryRepository()
		favoriteRepo = favorite.NewMemoryRepository()
		kv = kvstore.NewMemoryStore()
	}

	outboxRepo := outbox.Discard
	if infra.DB != nil {
		outboxRepo = outbox.NewRepository(infra.DB)
	}
	events := outbox.NewRecorder(outboxRepo, logger)

	// --- Services ---
	sessionService := session.NewService(cfg.JWTSecret, cfg.SessionTTL)
	cartService := cart.NewService(cart.Deps{Repo: cartRepo, Locks: locks, Events: events, Logger: logger})
	favoriteService := favorite.NewService(favorite.Deps{
		Repo:   favoriteRepo,
		Cart:   cartService,
		Locks:  locks,
		Events: events,
		Logger: logger,
	})
	catalogService := catalog.NewService(catalog.Deps{
		Source:       source,
		RefreshEvery: cfg.CatalogRefresh,
		MemoSize:     cfg.CatalogMemoSize,
		Logger:       logger,
	})
	searchService := search.NewService(kv, locks, logger)

	// --- Handlers ---
	sessionHandler := session.NewHandler(sessionService, cfg.SecureCookie, logger)
	cartHandler := cart.NewHandler(cartService, logger)
	favoriteHandler := favorite.NewHandler(favoriteService, logger)
	catalogHandler := catalog.NewHandler(catalogService, favoriteService, logger)
	searchHandler := search.NewHandler(searchService, logger)

	// --- Middleware ---
	auth := middleware.SessionMiddleware(sessionService)
	optional := middleware.OptionalSessionMiddleware(sessionService)

	router.GET("/healthz", healthz(infra))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		session.RegisterRoutes(api, sessionHandler, middleware.RateLimitByIP(1, 5))
		catalog.RegisterRoutes(api, catalogHandler, optional)
		cart.RegisterRoutes(api, cartHandler, auth)
		favorite.RegisterRoutes(api, favoriteHandler, auth)
		search.RegisterRoutes(api, searchHandler, auth)
	}
}

// healthz reports each configured dependency; any failure is a 503.
func healthz(infra Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		checks := gin.H{}
		healthy := true

		check := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				return
			}
			checks[name] = "ok"
		}
		if infra.DB != nil {
			check("database", infra.DB.PingContext)
		}
		if infra.Redis != nil {
			check("redis", func(ctx context.Context) error { return infra.Redis.Ping(ctx).Err() })
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "Dependency check failed", checks)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "checks": checks}, nil)
	}
}
