// Package redisstore provides the expiring key-value store that backs every
// cache view in authcore: JSON-serialized values with per-key TTL, atomic
// counters, FIFO lists, and existence checks over a single Redis connection.
//
// # Lifecycle
//
// A [Client] is allocation-only until [Client.Connect], which dials Redis with
// a capped, linearly increasing backoff and fails with [ErrConnectionExhausted]
// once the retry budget is spent. Connection state transitions
// (disconnected/connecting/connected) are observable through [Client.State]
// and the optional OnStateChange hook. Only transport failures move the state
// to disconnected; a canceled caller context or an error reply from the
// server leaves the shared connection alone. While disconnected, operations
// short-circuit with [ErrNotConnected] between throttled reconnect probes;
// callers are expected to treat that as a degraded result, not a crash.
//
// # Architecture boundaries
//
// This package owns the Redis connection, serialization, and TTL validation.
// It does NOT know about key namespaces (cache:, otp:, ...) or any business
// meaning of the values it stores; those belong to internal/stores and the
// Engine.
//
// # What this package must NOT do
//
//   - Import authcore or any sibling package (no upward imports).
//   - Silently accept a non-positive TTL; that is a hard [ErrInvalidTTL].
//   - Hide the difference between "key absent" and "store unreachable".
package redisstore
