package middleware

import (
	"context"
	"net/http"

	"github.com/MrEthical07/authcore"
)

// Health attaches a point-in-time [authcore.HealthStatus] to the request
// context so downstream handlers (a /health endpoint, a readiness probe) can
// report it without holding an engine reference.
func Health(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			status := engine.Health(r.Context())
			ctx := context.WithValue(r.Context(), healthKey, status)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HealthStatus returns the snapshot injected by [Health]. The second return
// is false when the middleware did not run for this request.
func HealthStatus(ctx context.Context) (authcore.HealthStatus, bool) {
	status, ok := ctx.Value(healthKey).(authcore.HealthStatus)
	return status, ok
}
