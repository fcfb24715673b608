// Package stores provides the namespaced cache views over the shared
// redisstore client: generic cache, session, rate-limit counter, OTP record,
// user token, blacklist flag, and FIFO queue.
//
// # Design
//
// Each view owns exactly one key namespace (cache:, session:, rate_limit:,
// otp:, user_token:, blacklist:, queue:) so distinct subsystems never collide,
// and adds one semantic on top of the raw store: default TTLs, first-hit
// window starts, attempt side-counters, existence-only flags. The prefixes are
// wire-visible and stable; external tooling inspects them.
//
// # Error policy
//
// Infrastructure failures never abort the caller's primary flow. Views log
// through logrus and return neutral values (false, nil, 0) so business logic
// can degrade (skip caching, skip the limit check) instead of crashing. The
// two exceptions are the OTP view, which surfaces errors because the OTP
// service must fail hard when a generated code is not retrievable, and the
// blacklist view, whose callers apply their own fail-open/fail-closed policy.
//
// # What this package must NOT do
//
//   - Import authcore or middleware (no upward imports).
//   - Reach past the redisstore client to a raw Redis handle.
//   - Decide verification outcomes; that belongs to the Engine.
package stores
