package app

import (
	"context"
	"errors"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/messaging/kafka/producer"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunWorker relays outbox events to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg Config, logger *zap.Logger) error {
	logger = logger.Named("worker")
	if cfg.DBURL == "" || cfg.KafkaBroker == "" {
		return errors.New("worker needs DB_URL and KAFKA_BROKER")
	}

	// 1. Connect to database
	db, err := connectDBWithRetry(ctx, cfg.DBURL, cfg.ConnectRetries, cfg.RetryDelay, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := outbox.EnsureSchema(ctx, db); err != nil {
		return err
	}

	// 2. Setup Kafka writer
	if err := connectKafkaWithRetry(ctx, cfg.KafkaBroker, cfg.ConnectRetries, cfg.RetryDelay, logger); err != nil {
		return err
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBroker),
		Topic:    EventsTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()
	logger.Info("kafka writer initialized", zap.String("topic", EventsTopic))

	// 3. Start processor; blocks until shutdown
	producer.ProcessOutboxEvents(ctx, outbox.NewRepository(db), writer, cfg.OutboxInterval, logger)

	logger.Info("stopped")
	return nil
}
