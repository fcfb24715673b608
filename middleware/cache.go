package middleware

import (
	"net/http"
	"time"

	"github.com/MrEthical07/authcore"
)

// cachedResponse is the stored shape of a captured response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Cache short-circuits read-only requests with a previously captured
// response. Only GET requests participate; on a miss the outgoing response
// is captured and, when successful, stored for ttl (zero means the engine's
// cache default). Store failures fall through to the handler.
func Cache(engine *authcore.Engine, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := "api:" + r.URL.RequestURI()

			var cached cachedResponse
			if engine.GetCache(r.Context(), key, &cached) {
				if cached.ContentType != "" {
					w.Header().Set("Content-Type", cached.ContentType)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(cached.Status)
				_, _ = w.Write(cached.Body)
				return
			}

			cw := newCaptureWriter(w)
			next.ServeHTTP(cw, r)

			if cw.status >= 200 && cw.status < 300 {
				engine.SetCache(r.Context(), key, cachedResponse{
					Status:      cw.status,
					ContentType: cw.Header().Get("Content-Type"),
					Body:        cw.body.Bytes(),
				}, ttl)
			}
		})
	}
}

// Invalidate deletes the configured cache keys after a successful response,
// for writes that change previously-cached reads. A trailing "*" on a key
// clears the whole prefix.
func Invalidate(engine *authcore.Engine, keys ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			if sw.status < 200 || sw.status >= 300 {
				return
			}
			for _, key := range keys {
				if n := len(key); n > 0 && key[n-1] == '*' {
					engine.ClearCache(r.Context(), key[:n-1])
				} else {
					engine.DeleteCache(r.Context(), key)
				}
			}
		})
	}
}
