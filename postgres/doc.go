// Package postgres implements the durable OTP repository
// ([authcore.OTPRepository]) on a pgx connection pool. Each document carries
// an absolute expiry timestamp; live lookups always filter on it, and
// DeleteExpired gives the caller a reaping hook in place of a native TTL
// index.
//
// The repository is the fallback verification path when the fast store has
// lost or evicted a record, and an audit trail of issued codes. It is never
// on the hot path.
//
// # What this package must NOT do
//
//   - Decide verification outcomes or attempt accounting; it only stores,
//     finds, and deletes documents.
//   - Treat a missing row as an error; absence is a clean nil result.
package postgres
