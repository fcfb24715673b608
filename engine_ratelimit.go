package authcore

import (
	"context"
	"time"
)

// IncrementRateLimit counts one hit for key in a fixed window and returns the
// count so far. The window TTL starts on the first hit only; later hits never
// slide it. A zero return means the store was unreachable and the caller
// should fail open.
func (e *Engine) IncrementRateLimit(ctx context.Context, key string, window time.Duration) int64 {
	if e == nil || e.rateLimit == nil {
		return 0
	}
	if window <= 0 {
		window = e.config.RateLimit.Window
	}
	return e.rateLimit.Increment(ctx, key, window)
}

// GetRateLimit reports the current count for key, or 0 when no window is
// open.
func (e *Engine) GetRateLimit(ctx context.Context, key string) int64 {
	if e == nil || e.rateLimit == nil {
		return 0
	}
	return e.rateLimit.Get(ctx, key)
}

// RateLimitWindow reports the remaining time in the open window for key.
func (e *Engine) RateLimitWindow(ctx context.Context, key string) time.Duration {
	if e == nil || e.rateLimit == nil {
		return 0
	}
	return e.rateLimit.Window(ctx, key)
}
