package middleware

import (
	"net/http"
	"strings"

	"github.com/MrEthical07/authcore"
)

// Blacklist rejects requests carrying a revoked bearer token with 401. A
// request without a bearer token passes through untouched; whether it should
// have carried one is the authentication layer's problem. When the store
// cannot answer, Config.Blacklist.FailClosed decides between rejecting and
// letting the request proceed unchecked.
func Blacklist(engine *authcore.Engine) func(http.Handler) http.Handler {
	failClosed := engine.Config().Blacklist.FailClosed
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			revoked, err := engine.IsBlacklisted(r.Context(), token)
			if err != nil {
				if failClosed {
					http.Error(w, "authorization unavailable", http.StatusServiceUnavailable)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if revoked {
				engine.MetricInc(authcore.MetricBlacklistHit)
				http.Error(w, "Token has been revoked", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
