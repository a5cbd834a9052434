package output

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultRedisWorkers is the default number of concurrent pushes
	DefaultRedisWorkers = 1
)

// Redis implements the Output interface for a Redis list. Records are
// appended with RPUSH so consumers can drain them in emission order with
// LPOP or BLPOP. The client is pool backed and safe for concurrent use, so
// a single shared client serves every emitter; workers bounds concurrent
// pushes by sizing the connection pool.
type Redis struct {
	logger *zap.Logger
	client *redis.Client
	key    string
}

// NewRedis creates a new Redis output instance
func NewRedis(logger *zap.Logger, addr, key string, workers int) (*Redis, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if addr == "" {
		return nil, fmt.Errorf("addr cannot be empty")
	}
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}
	if workers <= 0 {
		workers = DefaultRedisWorkers
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: workers,
	})

	r := &Redis{
		logger: logger.Named("output-redis"),
		client: client,
		key:    key,
	}

	r.logger.Info("Starting Redis output",
		zap.String("addr", addr),
		zap.String("key", key),
		zap.Int("workers", workers),
	)

	return r, nil
}

// Write appends one record to the configured list
func (r *Redis) Write(ctx context.Context, data []byte) error {
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push record: %w", err)
	}

	return nil
}

// Stop closes the Redis client
func (r *Redis) Stop(ctx context.Context) error {
	r.logger.Info("Stopping Redis output")

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	r.logger.Info("Redis output stopped successfully")
	return nil
}
