package stores

import (
	"context"
	"strings"
	"time"

	"github.com/MrEthical07/authcore/redisstore"
	"github.com/sirupsen/logrus"
)

const (
	otpPrefix         = "otp:"
	otpAttemptsPrefix = "otp_attempts:"
)

// OTPRecord is the fast-store shape of a live verification code. The attempt
// counter intentionally lives on a side key (otp_attempts:<email>) mutated by
// atomic INCR, so concurrent verifications can never under-count attempts the
// way a read-modify-write of this blob would.
type OTPRecord struct {
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"createdAt"`
	MaxAttempts int       `json:"maxAttempts"`
}

// OTP is the verification-code view over the otp: namespace. TTLs are owned
// by the calling service; this view passes them through unchanged.
type OTP struct {
	client *redisstore.Client
	log    *logrus.Logger
}

// NewOTP creates the OTP view.
func NewOTP(client *redisstore.Client, log *logrus.Logger) *OTP {
	return &OTP{client: client, log: log}
}

// Save writes the record under otp:<email> with the given TTL. An existing
// record for the same email is overwritten: at most one live code per email.
// Any previous attempt counter is reset alongside.
func (o *OTP) Save(ctx context.Context, email string, rec OTPRecord, ttl time.Duration) error {
	if err := o.client.Del(ctx, otpAttemptsPrefix+email); err != nil {
		return err
	}
	return o.client.Set(ctx, otpPrefix+email, rec, ttl)
}

// Get loads the record for email. A nil record with a nil error means no live
// code exists.
func (o *OTP) Get(ctx context.Context, email string) (*OTPRecord, error) {
	var rec OTPRecord
	found, err := o.client.Get(ctx, otpPrefix+email, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// Delete removes the record and its attempt counter. Idempotent.
func (o *OTP) Delete(ctx context.Context, email string) error {
	return o.client.Del(ctx, otpPrefix+email, otpAttemptsPrefix+email)
}

// IncrAttempts atomically counts one verification attempt for email and
// returns the total so far. The counter inherits the remaining lifetime of
// the record the first time it is touched, so it can never outlive the code
// it guards.
func (o *OTP) IncrAttempts(ctx context.Context, email string) (int64, error) {
	n, err := o.client.Incr(ctx, otpAttemptsPrefix+email)
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if ttl, err := o.client.TTL(ctx, otpPrefix+email); err == nil && ttl > 0 {
			if _, err := o.client.Expire(ctx, otpAttemptsPrefix+email, ttl); err != nil {
				o.log.WithError(err).Warn("otp: attempt counter expire failed")
			}
		}
	}
	return n, nil
}

// Attempts reports how many attempts have been counted for email.
func (o *OTP) Attempts(ctx context.Context, email string) (int64, error) {
	var n int64
	found, err := o.client.Get(ctx, otpAttemptsPrefix+email, &n)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return n, nil
}

// RemainingTTL reports the lifetime left on the record for email.
func (o *OTP) RemainingTTL(ctx context.Context, email string) (time.Duration, error) {
	return o.client.TTL(ctx, otpPrefix+email)
}

// ListEmails scans the otp: namespace and returns the email of every listed
// record. Admin/ops use only.
func (o *OTP) ListEmails(ctx context.Context) ([]string, error) {
	keys, err := o.client.Keys(ctx, otpPrefix+"*")
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(keys))
	for _, k := range keys {
		emails = append(emails, strings.TrimPrefix(k, otpPrefix))
	}
	return emails, nil
}

// Exists reports whether a live record is present for email.
func (o *OTP) Exists(ctx context.Context, email string) (bool, error) {
	return o.client.Exists(ctx, otpPrefix+email)
}
