// Package middleware provides composable net/http wrappers over an
// [authcore.Engine]: response caching, fixed-window rate limiting, session
// attach/extend, token blacklist checks, and cache invalidation.
//
// # Failure policy
//
// Every policy fails open on store errors: a cache, counter, or session
// that cannot be read must not block the underlying request. The single
// deliberate exception is the blacklist check: an affirmative "revoked" is
// always fail-closed, and the behavior on an unreachable store is chosen by
// Config.Blacklist.FailClosed.
//
// # What this package must NOT do
//
//   - Own route definitions; it wraps handlers the HTTP layer provides.
//   - Touch Redis or key namespaces directly; everything goes through the
//     Engine surface.
package middleware
