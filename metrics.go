package authcore

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint8

const (
	// MetricOTPGenerated counts issued codes, resends included.
	MetricOTPGenerated MetricID = iota
	// MetricOTPVerified counts successful verifications, fallback included.
	MetricOTPVerified
	// MetricOTPInvalid counts wrong-code attempts.
	MetricOTPInvalid
	// MetricOTPExhausted counts records deleted for spent attempt budgets.
	MetricOTPExhausted
	// MetricOTPFallback counts verifications served by the durable store.
	MetricOTPFallback
	// MetricOTPDeliveryFailed counts notification dispatch failures.
	MetricOTPDeliveryFailed
	// MetricCacheHit counts response-cache hits.
	MetricCacheHit
	// MetricCacheMiss counts response-cache misses.
	MetricCacheMiss
	// MetricRateLimited counts rejected requests.
	MetricRateLimited
	// MetricTokenRevoked counts blacklist additions.
	MetricTokenRevoked
	// MetricBlacklistHit counts rejected revoked tokens.
	MetricBlacklistHit

	metricCount
)

var metricNames = [...]string{
	MetricOTPGenerated:      "otp_generated",
	MetricOTPVerified:       "otp_verified",
	MetricOTPInvalid:        "otp_invalid",
	MetricOTPExhausted:      "otp_exhausted",
	MetricOTPFallback:       "otp_fallback",
	MetricOTPDeliveryFailed: "otp_delivery_failed",
	MetricCacheHit:          "cache_hit",
	MetricCacheMiss:         "cache_miss",
	MetricRateLimited:       "rate_limited",
	MetricTokenRevoked:      "token_revoked",
	MetricBlacklistHit:      "blacklist_hit",
}

func (id MetricID) String() string {
	if int(id) < len(metricNames) {
		return metricNames[id]
	}
	return "unknown"
}

// Metrics is a fixed set of lock-free counters.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// Inc bumps one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot returns a point-in-time copy of every counter keyed by name.
func (m *Metrics) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, metricCount)
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricCount; id++ {
		out[id.String()] = m.counters[id].Load()
	}
	return out
}

// MetricsSnapshot exposes the engine counters for scraping or debugging.
func (e *Engine) MetricsSnapshot() map[string]uint64 {
	if e == nil || e.metrics == nil {
		return map[string]uint64{}
	}
	return e.metrics.Snapshot()
}

// MetricInc bumps one engine counter. Boundary layers (middleware) use it to
// record outcomes the engine itself cannot see, such as a request rejected
// over quota.
func (e *Engine) MetricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricInc(id MetricID) {
	e.MetricInc(id)
}
