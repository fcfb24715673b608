package stores

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/redisstore"
	"github.com/sirupsen/logrus"
)

const cachePrefix = "cache:"

// Cache is the generic response/data cache view over the cache: namespace.
type Cache struct {
	client     *redisstore.Client
	log        *logrus.Logger
	defaultTTL time.Duration
}

// NewCache creates the cache view. defaultTTL applies when a caller passes a
// zero duration.
func NewCache(client *redisstore.Client, log *logrus.Logger, defaultTTL time.Duration) *Cache {
	return &Cache{client: client, log: log, defaultTTL: defaultTTL}
}

// Set stores value under cache:<key>. Returns false instead of an error so
// callers can skip caching on a degraded store.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, cachePrefix+key, value, ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache: set failed")
		return false
	}
	return true
}

// Get loads cache:<key> into dest. A miss and an unreachable store both
// report false; the latter is logged.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	found, err := c.client.Get(ctx, cachePrefix+key, dest)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache: get failed")
		return false
	}
	return found
}

// Delete removes cache:<key>.
func (c *Cache) Delete(ctx context.Context, key string) bool {
	if err := c.client.Del(ctx, cachePrefix+key); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache: delete failed")
		return false
	}
	return true
}

// Clear deletes every cache:<prefix>* key and reports how many went away.
// An empty prefix clears the whole cache namespace.
func (c *Cache) Clear(ctx context.Context, prefix string) int {
	keys, err := c.client.Keys(ctx, cachePrefix+prefix+"*")
	if err != nil {
		c.log.WithError(err).WithField("prefix", prefix).Warn("cache: clear scan failed")
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	if err := c.client.Del(ctx, keys...); err != nil {
		c.log.WithError(err).WithField("prefix", prefix).Warn("cache: clear delete failed")
		return 0
	}
	return len(keys)
}
