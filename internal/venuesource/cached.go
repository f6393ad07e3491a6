package venuesource

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/model"
)

// Cached is a read-through Redis cache in front of another Fetcher.  Redis
// failures are logged and bypassed; only the wrapped fetcher's errors are
// returned.  Failed loads are never cached.
type Cached struct {
	next Fetcher
	rdb  *redis.Client
	key  string
	ttl  time.Duration
	log  *logger.Logger
}

// NewCached wraps next.  With a nil client it returns next unchanged.
func NewCached(next Fetcher, rdb *redis.Client, key string, ttl time.Duration, log *logger.Logger) Fetcher {
	if rdb == nil {
		return next
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Cached{next: next, rdb: rdb, key: key, ttl: ttl, log: log.WithComponent("venue-cache")}
}

func (c *Cached) FetchVenue(ctx context.Context) (*model.Venue, error) {
	bs, err := c.rdb.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		if v, derr := Decode(bs); derr == nil {
			c.log.Debug("cache hit", "key", c.key)
			return v, nil
		}
		c.log.Warn("dropping unreadable cache entry", "key", c.key)
		_ = c.rdb.Del(ctx, c.key).Err()
	case err != redis.Nil:
		c.log.WithError(err).Warn("cache read failed")
	}

	v, err := c.next.FetchVenue(ctx)
	if err != nil {
		return nil, err
	}
	if payload, merr := json.Marshal(v); merr == nil {
		if serr := c.rdb.SetEx(ctx, c.key, payload, c.ttl).Err(); serr != nil {
			c.log.WithError(serr).Warn("cache write failed")
		}
	}
	return v, nil
}
