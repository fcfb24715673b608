package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/MrEthical07/authcore"
)

type contextKey uint8

const (
	sessionIDKey contextKey = iota
	healthKey
)

// SessionCookie is the cookie consulted (and set) for session resolution.
const SessionCookie = "session_id"

// SessionHeader is the fallback header for clients that cannot carry cookies.
const SessionHeader = "X-Session-Id"

// Session resolves the caller's session identifier from the request, injects
// it into the request context, and slides the session TTL on each hit. A
// request with no session, or one whose session has expired, still passes
// through; handlers that require a session use [SessionID] and decide for
// themselves.
func Session(engine *authcore.Engine) func(http.Handler) http.Handler {
	ttl := engine.Config().Session.TTL
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestSessionID(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !engine.ExtendSession(r.Context(), id, ttl) {
				// Expired or never existed; do not vouch for the identifier.
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the validated session identifier injected by [Session],
// or "" when the request carried none.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// EstablishSession stores data under a fresh session identifier, sets the
// session cookie on the response, and returns the identifier. Login handlers
// call this after verifying the user.
func EstablishSession(engine *authcore.Engine, w http.ResponseWriter, r *http.Request, data any) (string, bool) {
	ttl := engine.Config().Session.TTL
	id := authcore.NewSessionID()
	if !engine.SetSession(r.Context(), id, data, ttl) {
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}

// ClearSession deletes the caller's session and expires the cookie. Logout
// handlers call this; a request without a session is a no-op.
func ClearSession(engine *authcore.Engine, w http.ResponseWriter, r *http.Request) {
	id := requestSessionID(r)
	if id == "" {
		return
	}
	engine.DeleteSession(r.Context(), id)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestSessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(SessionHeader)
}
