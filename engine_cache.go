package authcore

import (
	"context"
	"time"
)

// SetCache stores value in the generic cache under key with the given TTL;
// a zero ttl uses Config.Cache.TTL. Returns false on a degraded store so the
// caller can simply skip caching.
func (e *Engine) SetCache(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if e == nil || e.cache == nil {
		return false
	}
	return e.cache.Set(ctx, key, value, ttl)
}

// GetCache loads a cached value into dest, reporting whether it was found.
func (e *Engine) GetCache(ctx context.Context, key string, dest any) bool {
	if e == nil || e.cache == nil {
		return false
	}
	found := e.cache.Get(ctx, key, dest)
	if found {
		e.metricInc(MetricCacheHit)
	} else {
		e.metricInc(MetricCacheMiss)
	}
	return found
}

// DeleteCache removes one cached value.
func (e *Engine) DeleteCache(ctx context.Context, key string) bool {
	if e == nil || e.cache == nil {
		return false
	}
	return e.cache.Delete(ctx, key)
}

// ClearCache deletes every cached value whose key starts with prefix and
// reports how many were removed. An empty prefix clears the whole cache
// namespace.
func (e *Engine) ClearCache(ctx context.Context, prefix string) int {
	if e == nil || e.cache == nil {
		return 0
	}
	return e.cache.Clear(ctx, prefix)
}
