package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// The connect helpers make at least one attempt whatever maxRetries says,
// and wait delay between attempts.
func connectDBWithRetry(ctx context.Context, dsn string, maxRetries int, delay time.Duration, logger *zap.Logger) (*sql.DB, error) {
	maxRetries = max(maxRetries, 1)
	var err error
	for i := 1; i <= maxRetries; i++ {
		var db *sql.DB
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.PingContext(ctx)
			if err == nil {
				logger.Info("connected to database")
				return db, nil
			}
			_ = db.Close()
		}

		logger.Warn("database not ready", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if i == maxRetries {
			break
		}
		if !sleep(ctx, delay) {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("connect database: %w", err)
}

func connectRedisWithRetry(ctx context.Context, addr string, maxRetries int, delay time.Duration, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	maxRetries = max(maxRetries, 1)
	var err error
	for i := 1; i <= maxRetries; i++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			logger.Info("connected to redis", zap.String("addr", addr))
			return rdb, nil
		}

		logger.Warn("redis not ready", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if i == maxRetries || !sleep(ctx, delay) {
			break
		}
	}
	_ = rdb.Close()
	return nil, fmt.Errorf("connect redis: %w", err)
}

// connectKafkaWithRetry only proves the broker answers; writers and readers
// manage their own connections.
func connectKafkaWithRetry(ctx context.Context, broker string, maxRetries int, delay time.Duration, logger *zap.Logger) error {
	maxRetries = max(maxRetries, 1)
	var err error
	for i := 1; i <= maxRetries; i++ {
		var conn *kafka.Conn
		conn, err = kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			logger.Info("connected to kafka", zap.String("broker", broker))
			return nil
		}

		logger.Warn("kafka not ready", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if i == maxRetries {
			break
		}
		if !sleep(ctx, delay) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("connect kafka: %w", err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
