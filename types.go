package authcore

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/redisstore"
)

// OTPDocument is the durable-store copy of an issued code. Unlike the
// fast-store record it carries its own absolute expiry, so the durable
// collaborator can run TTL-index expiry independently of Redis.
type OTPDocument struct {
	ID        string
	Email     string
	FirstName string
	Code      string
	ExpiresAt time.Time
}

// OTPRepository is the durable-store collaborator: a persistent record store
// used as the fallback verification path when the fast store has no entry.
// Implementations own their background expiry of documents past ExpiresAt.
// The postgres subpackage provides a pgx-backed implementation.
type OTPRepository interface {
	Insert(ctx context.Context, doc OTPDocument) error
	// FindByEmailAndCode returns nil with a nil error when no live document
	// matches.
	FindByEmailAndCode(ctx context.Context, email, code string) (*OTPDocument, error)
	Delete(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Mailer is the notification collaborator. Delivery is fire-and-forget from
// the OTP service's perspective: a send failure is logged, never propagated
// as a generation failure, since the stored code stays valid and reachable
// through a resend.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// GenerateResult reports a successful OTP generation.
type GenerateResult struct {
	// Code carries the raw code only when Config.OTP.DebugCodes is set;
	// production-equivalent deployments get an empty string.
	Code string
	// ExpiresIn is the configured lifetime of the new code.
	ExpiresIn time.Duration
	// Delivered reports whether the notification dispatch succeeded. A false
	// value does not invalidate the code.
	Delivered bool
}

// VerifyResult reports a verification outcome. On success Email and
// FirstName carry the stored display payload. When VerifyOTP returns
// [ErrOTPInvalidCode], AttemptsRemaining on the accompanying result tells the
// caller how many tries are left.
type VerifyResult struct {
	Email             string
	FirstName         string
	AttemptsRemaining int
	// FallbackUsed marks a success served by the durable store after a
	// fast-store miss.
	FallbackUsed bool
}

// OTPStatus is the non-mutating presence report for an email.
type OTPStatus struct {
	Exists      bool
	Attempts    int
	MaxAttempts int
	// Remaining is the configured expiry minus the record age, clamped to
	// zero.
	Remaining time.Duration
}

// OTPStats is the best-effort administrative census of the otp: namespace.
// The store expires keys on its own schedule, so Expired is an estimate
// reconciled between key listing and existence checks, not an authoritative
// count.
type OTPStats struct {
	Total   int
	Active  int
	Expired int
}

// HealthStatus aggregates collaborator health for ops endpoints.
type HealthStatus struct {
	Store   redisstore.HealthReport `json:"store"`
	Durable string                  `json:"durable,omitempty"`
}
