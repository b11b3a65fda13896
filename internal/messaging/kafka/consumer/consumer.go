package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventOrderPlaced = "ORDER_PLACED"

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// CartClearer is the part of the cart service the consumer needs.
type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type orderPlacedPayload struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
}

// Backoff bounds the wait between attempts at a failing message. The wait
// starts at Initial and doubles up to Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

var DefaultBackoff = Backoff{Initial: 500 * time.Millisecond, Max: 30 * time.Second}

func (b Backoff) next(d time.Duration) time.Duration {
	if d <= 0 {
		return b.Initial
	}
	return min(d*2, b.Max)
}

// ConsumeMessages handles checkout events until ctx is done, using
// DefaultBackoff.
func ConsumeMessages(ctx context.Context, reader MessageReader, carts CartClearer, logger *zap.Logger) {
	ConsumeMessagesWithBackoff(ctx, reader, carts, DefaultBackoff, logger)
}

// ConsumeMessagesWithBackoff handles checkout events in offset order until
// ctx is done. A message whose handler fails is retried in place and only
// committed once it succeeds, so later offsets are never committed past it.
// If ctx ends while retrying, the message stays uncommitted and is
// redelivered.
func ConsumeMessagesWithBackoff(ctx context.Context, reader MessageReader, carts CartClearer, backoff Backoff, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("checkout.consumer")
	logger.Info("started consuming messages")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("fetch message", zap.Error(err))
			continue
		}

		if !handleWithRetry(ctx, msg, carts, backoff, logger) {
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Warn("commit message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleWithRetry reports false when ctx ended before msg was handled.
func handleWithRetry(ctx context.Context, msg kafka.Message, carts CartClearer, backoff Backoff, logger *zap.Logger) bool {
	var wait time.Duration
	for attempt := 1; ; attempt++ {
		err := HandleMessage(ctx, msg, carts, logger)
		if err == nil {
			return true
		}

		wait = backoff.next(wait)
		logger.Error("handle message",
			zap.String("event_type", getHeader(msg.Headers, "event_type")),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			logger.Warn("stopped while retrying", zap.Int64("offset", msg.Offset))
			return false
		case <-time.After(wait):
		}
	}
}

// HandleMessage dispatches on the event_type header. Unknown types are
// ignored so they get committed.
func HandleMessage(ctx context.Context, msg kafka.Message, carts CartClearer, logger *zap.Logger) error {
	switch eventType := getHeader(msg.Headers, "event_type"); eventType {
	case EventOrderPlaced:
		return handleOrderPlaced(ctx, msg.Value, carts, logger)
	default:
		logger.Debug("skip event", zap.String("event_type", eventType))
		return nil
	}
}

// handleOrderPlaced drops malformed messages instead of retrying them
// forever; only failures that may heal on retry are returned.
func handleOrderPlaced(ctx context.Context, payload []byte, carts CartClearer, logger *zap.Logger) error {
	var data orderPlacedPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		logger.Warn("drop malformed "+EventOrderPlaced, zap.Error(err))
		return nil
	}
	if data.SessionID == "" {
		logger.Warn("drop " + EventOrderPlaced + " without session_id")
		return nil
	}

	if err := carts.Clear(ctx, data.SessionID); err != nil {
		if apperror.ToHTTP(err).Status < http.StatusInternalServerError {
			logger.Warn("drop "+EventOrderPlaced, zap.String("session_id", data.SessionID), zap.Error(err))
			return nil
		}
		return fmt.Errorf("clear cart for %s: %w", data.SessionID, err)
	}

	logger.Info("cart cleared after checkout",
		zap.String("session_id", data.SessionID),
		zap.String("order_id", data.OrderID),
	)
	return nil
}

func getHeader(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
