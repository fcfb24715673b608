package stores

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/redisstore"
	"github.com/sirupsen/logrus"
)

const rateLimitPrefix = "rate_limit:"

// RateLimit is the fixed-window counter view over the rate_limit: namespace.
type RateLimit struct {
	client *redisstore.Client
	log    *logrus.Logger
}

// NewRateLimit creates the rate-limit view.
func NewRateLimit(client *redisstore.Client, log *logrus.Logger) *RateLimit {
	return &RateLimit{client: client, log: log}
}

// Increment atomically bumps the counter for key and returns the count within
// the current window. The window TTL is set only when the post-increment
// count equals 1, so later hits never slide the window. A zero return means
// the store was unreachable and the caller should fail open.
func (r *RateLimit) Increment(ctx context.Context, key string, window time.Duration) int64 {
	storeKey := rateLimitPrefix + key
	n, err := r.client.Incr(ctx, storeKey)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("rate_limit: increment failed")
		return 0
	}
	if n == 1 {
		// First hit starts the window. Racing a concurrent first hit is
		// harmless: both set the same TTL.
		if _, err := r.client.Expire(ctx, storeKey, window); err != nil {
			r.log.WithError(err).WithField("key", key).Warn("rate_limit: window start failed")
		}
	}
	return n
}

// Get reports the current count for key, or 0 when no window is open.
func (r *RateLimit) Get(ctx context.Context, key string) int64 {
	var n int64
	found, err := r.client.Get(ctx, rateLimitPrefix+key, &n)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("rate_limit: get failed")
		return 0
	}
	if !found {
		return 0
	}
	return n
}

// Window reports the remaining time in the current window for key, or zero
// when no window is open.
func (r *RateLimit) Window(ctx context.Context, key string) time.Duration {
	d, err := r.client.TTL(ctx, rateLimitPrefix+key)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("rate_limit: ttl failed")
		return 0
	}
	return d
}
