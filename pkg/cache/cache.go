// Package cache is a JSON-over-Redis read-through cache. When Redis is not
// reachable every call degrades to a miss so callers fall back to the DB.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/metrics"
)

const driver = "redis"

// RDB is nil until Connect succeeds.
var RDB *redis.Client

// Connect dials Redis and pings it. On failure RDB stays nil.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Available reports whether a Redis client is connected.
func Available() bool { return RDB != nil }

// Get unmarshals the cached value into dest and reports a hit.
func Get(ctx context.Context, key string, dest any) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(ctx, key).Bytes()
	if err != nil || json.Unmarshal(raw, dest) != nil {
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(driver).Inc()
	return true
}

// Set stores value as JSON for ttl.
func Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Forget removes every key starting with prefix.
func Forget(ctx context.Context, prefix string) error {
	if RDB == nil {
		return nil
	}
	iter := RDB.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := Del(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: scan %s: %w", prefix, err)
	}
	return Del(ctx, batch...)
}

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}
