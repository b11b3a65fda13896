package app

import (
	"context"
	"errors"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/cart"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/messaging/kafka/consumer"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/keylock"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer clears carts for placed orders until ctx is cancelled. Carts
// must live in Redis so the API and the consumer see the same state.
func RunConsumer(ctx context.Context, cfg Config, logger *zap.Logger) error {
	logger = logger.Named("consumer")
	if cfg.RedisAddr == "" || cfg.KafkaBroker == "" {
		return errors.New("consumer needs REDIS_ADDR and KAFKA_BROKER")
	}

	// 1. Connect to cart storage
	rdb, err := connectRedisWithRetry(ctx, cfg.RedisAddr, cfg.ConnectRetries, cfg.RetryDelay, logger)
	if err != nil {
		return err
	}
	defer rdb.Close()

	outboxRepo := outbox.Discard
	if cfg.DBURL != "" {
		db, err := connectDBWithRetry(ctx, cfg.DBURL, cfg.ConnectRetries, cfg.RetryDelay, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		outboxRepo = outbox.NewRepository(db)
	}

	cartService := cart.NewService(cart.Deps{
		Repo:   cart.NewRedisRepository(rdb, cfg.SessionTTL),
		Locks:  keylock.NewRedisLocker(rdb),
		Events: outbox.NewRecorder(outboxRepo, logger),
		Logger: logger,
	})

	// 2. Setup Kafka reader
	if err := connectKafkaWithRetry(ctx, cfg.KafkaBroker, cfg.ConnectRetries, cfg.RetryDelay, logger); err != nil {
		return err
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   CheckoutTopic,
		GroupID: ConsumerGroup,
	})
	defer reader.Close()
	logger.Info("kafka reader initialized", zap.String("topic", CheckoutTopic), zap.String("group", ConsumerGroup))

	// 3. Start consuming; blocks until shutdown
	consumer.ConsumeMessages(ctx, reader, cartService, logger)

	logger.Info("stopped")
	return nil
}
