// Package storage implements the durable entry behind the selection store.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEntry is a single string key in Redis.
type RedisEntry struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisEntry binds an entry to key.  A positive ttl is refreshed on every
// save so idle sessions age out.
func NewRedisEntry(rdb *redis.Client, key string, ttl time.Duration) *RedisEntry {
	return &RedisEntry{rdb: rdb, key: key, ttl: ttl}
}

// Key returns the Redis key.
func (e *RedisEntry) Key() string { return e.key }

// Load reads the entry.  A missing key is not an error.
func (e *RedisEntry) Load(ctx context.Context) (string, bool, error) {
	v, err := e.rdb.Get(ctx, e.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Save overwrites the entry.
func (e *RedisEntry) Save(ctx context.Context, value string) error {
	return e.rdb.Set(ctx, e.key, value, e.ttl).Err()
}

// Clear deletes the entry.
func (e *RedisEntry) Clear(ctx context.Context) error {
	return e.rdb.Del(ctx, e.key).Err()
}

// SessionKey namespaces an entry name under a session:
// "<prefix>:<session>:<name>".
func SessionKey(prefix, sessionID, name string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, sessionID, name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ":")
}
