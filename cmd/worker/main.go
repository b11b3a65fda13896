package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/app"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl.Info("starting outbox processor")
	if err := app.RunWorker(ctx, cfg, zl); err != nil {
		zl.Fatal("worker", zap.Error(err))
	}
}
