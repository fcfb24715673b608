package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/MrEthical07/authcore"
)

// RateLimit rejects clients that exceed max requests within a fixed window,
// keyed by client address. Excess requests get 429 with a Retry-After hint;
// the rest pass through with remaining-quota headers attached. An unreachable
// store fails open.
func RateLimit(engine *authcore.Engine, max int, window time.Duration) func(http.Handler) http.Handler {
	if max <= 0 {
		max = engine.Config().RateLimit.Max
	}
	if window <= 0 {
		window = engine.Config().RateLimit.Window
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			count := engine.IncrementRateLimit(r.Context(), ip, window)
			if count == 0 {
				// Store unreachable; the limiter is not security-critical.
				next.ServeHTTP(w, r)
				return
			}

			remainingWindow := engine.RateLimitWindow(r.Context(), ip)
			if remainingWindow <= 0 {
				remainingWindow = window
			}

			if count > int64(max) {
				retryAfter := int(remainingWindow.Round(time.Second) / time.Second)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				engine.MetricInc(authcore.MetricRateLimited)
				http.Error(w, "too many requests, please try again later", http.StatusTooManyRequests)
				return
			}

			remaining := int64(max) - count
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", time.Now().Add(remainingWindow).UTC().Format(time.RFC3339))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the originating address, trusting proxy headers when
// present the way the fronting layer sets them.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
