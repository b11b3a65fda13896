package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/app"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := app.LoadConfig()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, app.ServiceName+"-api", cfg.Version, cfg.OTLPEndpoint)
	if err != nil {
		zl.Fatal("init tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zl.Warn("shutdown tracing", zap.Error(err))
		}
	}()

	// build dependency + routes
	r := app.NewRouter(zl)
	cleanup, err := app.BuildApp(ctx, r, cfg, zl)
	if err != nil {
		zl.Fatal("build app", zap.Error(err))
	}
	defer cleanup()

	if err := app.Serve(ctx, r, cfg.Port, zl); err != nil {
		zl.Error("http server", zap.Error(err))
	}
}
