package producer

import (
	"context"
	"time"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/outbox"

	"go.uber.org/zap"
)

const (
	DefaultInterval  = 5 * time.Second
	defaultBatchSize = 10
)

// ProcessOutboxEvents relays pending outbox rows to Kafka until ctx is done.
func ProcessOutboxEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("outbox.worker")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("outbox processor started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox processor stopped")
			return
		case <-ticker.C:
			if _, err := ProcessPendingEvents(ctx, repo, writer, logger); err != nil {
				logger.Error("process outbox events", zap.Error(err))
			}
		}
	}
}

// ProcessPendingEvents publishes one batch and reports how many were sent.
func ProcessPendingEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter, logger *zap.Logger) (int, error) {
	events, err := repo.ListPending(ctx, defaultBatchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	logger.Debug("processing pending events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Warn("publish event",
				zap.String("event_id", event.ID.String()),
				zap.String("event_type", event.EventType),
				zap.Int32("attempts", event.Attempts+1),
				zap.Error(err),
			)
			if markErr := repo.MarkFailed(ctx, event.ID); markErr != nil {
				logger.Error("mark event failed", zap.String("event_id", event.ID.String()), zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark event sent", zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}

	return sent, nil
}
