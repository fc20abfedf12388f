package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the cache with an external Redis instance so repeated
// geocode/search lookups are shared across service instances. Any Redis
// error is logged at debug level and reported as a miss.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisStore(addr, password string, db int, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		logger: logger,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.DebugContext(ctx, "redis get failed, treating as miss",
				slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	return raw, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.DebugContext(ctx, "redis set failed, skipping cache write",
			slog.String("key", key), slog.Any("error", err))
	}
}

// Ping verifies connectivity at startup. Callers fall back to the memory
// store when it fails.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
