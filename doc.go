// Package authcore provides the Redis-backed cache and verification core of
// an authentication backend: a TTL-aware expiring key-value store with typed
// views (generic cache, sessions, rate-limit counters, OTP records, user
// tokens, a revocation blacklist, and FIFO queues) and an OTP verification
// service with bounded attempts and a durable-store fallback path.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the collaborator interfaces ([OTPRepository], [Mailer]), and result types.
// Key namespacing and view semantics live under internal/stores; the raw
// store client lives in the redisstore subpackage. HTTP routing, password
// hashing, JWT issuance, user CRUD, and mail delivery are external
// collaborators: the engine calls into them, never owns them.
//
// # Error model
//
// Infrastructure failures (store unreachable, serialization) are caught at
// the view boundary, logged, and surface as neutral values, so cache and
// rate-limit consumers degrade instead of crashing. Verification outcomes
// ([ErrOTPNotFound], [ErrOTPInvalidCode], [ErrOTPAttemptsExceeded]) are
// domain results, returned as sentinel errors the boundary layer maps to
// user-visible messages. The one hard infrastructure error is
// [ErrOTPStoreFailure]: an OTP that cannot be read back must never be
// reported as generated.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key prefixes in its public API.
//   - Re-throw raw transport errors to the request boundary.
//   - Perform I/O during construction; Build wires, Connect dials.
package authcore
