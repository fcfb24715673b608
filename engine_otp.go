package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/authcore/internal/otputil"
	"github.com/MrEthical07/authcore/internal/stores"
	"github.com/MrEthical07/authcore/mailer"
)

const otpEmailSubject = "Your OTP Verification Code"

// GenerateOTP issues a fresh verification code for email, stores it in the
// fast store for Config.OTP.Expiry, persists a durable copy with an absolute
// expiry, and dispatches the notification. An existing live code for the same
// email is overwritten: at most one live OTP per email.
//
// Only the fast-store write is load-bearing: if it fails, the whole operation
// fails with [ErrOTPStoreFailure], because a code that cannot be read back
// must not be reported as issued. A durable-store failure leaves the OTP
// fully usable (the durable copy is an audit/fallback path), and a delivery
// failure leaves it valid too, since the user may still receive the code through
// another channel or a resend.
func (e *Engine) GenerateOTP(ctx context.Context, email, firstName string) (*GenerateResult, error) {
	if e == nil || e.otp == nil {
		return nil, ErrEngineNotReady
	}

	code, err := otputil.Generate(e.config.OTP.Digits)
	if err != nil {
		return nil, fmt.Errorf("authcore: code generation: %w", err)
	}

	now := time.Now().UTC()
	rec := stores.OTPRecord{
		Email:       email,
		FirstName:   firstName,
		Code:        code,
		CreatedAt:   now,
		MaxAttempts: e.config.OTP.MaxAttempts,
	}
	if err := e.otp.Save(ctx, email, rec, e.config.OTP.Expiry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOTPStoreFailure, err)
	}
	e.metricInc(MetricOTPGenerated)

	if e.repo != nil {
		doc := OTPDocument{
			ID:        uuid.NewString(),
			Email:     email,
			FirstName: firstName,
			Code:      code,
			ExpiresAt: now.Add(e.config.OTP.Expiry),
		}
		if err := e.repo.Insert(ctx, doc); err != nil {
			// The fast-store copy is live, so the code stays usable; only
			// the fallback path is degraded.
			e.log.WithError(err).Warn("authcore: durable otp copy failed")
		}
	}

	delivered := false
	if e.mailer != nil {
		body := mailer.OTPEmail(firstName, code, e.config.OTP.Expiry)
		if err := e.mailer.Send(ctx, email, otpEmailSubject, body); err != nil {
			e.metricInc(MetricOTPDeliveryFailed)
			e.log.WithError(err).Warn("authcore: otp delivery failed, code remains valid")
		} else {
			delivered = true
		}
	}

	res := &GenerateResult{ExpiresIn: e.config.OTP.Expiry, Delivered: delivered}
	if e.config.OTP.DebugCodes {
		res.Code = code
	}
	return res, nil
}

// VerifyOTP checks code against the live record for email.
//
// A fast-store miss falls back to the durable store: a matching document
// there is consumed one-shot and reported as success; otherwise the outcome
// is [ErrOTPNotFound]. The fallback is not a race-resolution mechanism; it
// is the degraded path for a fast store that evicted or never held the
// record.
//
// Every verification attempt is counted before the code comparison, via an
// atomic increment, so concurrent wrong guesses cannot under-count. A wrong
// code yields [ErrOTPInvalidCode] with AttemptsRemaining on the result; the
// attempt that spends the budget also deletes the record, so later calls see
// [ErrOTPNotFound] rather than [ErrOTPAttemptsExceeded].
func (e *Engine) VerifyOTP(ctx context.Context, email, code string) (*VerifyResult, error) {
	if e == nil || e.otp == nil {
		return nil, ErrEngineNotReady
	}

	rec, err := e.otp.Get(ctx, email)
	if err != nil {
		// Unreachable fast store degrades to the durable path.
		e.log.WithError(err).Warn("authcore: fast-store otp lookup failed")
		rec = nil
	}
	if rec == nil {
		return e.verifyFromDurable(ctx, email, code)
	}

	if attempts, err := e.otp.Attempts(ctx, email); err == nil && attempts >= int64(rec.MaxAttempts) {
		// Leftover exhausted record (its delete failed earlier); clear it now.
		e.deleteBothStores(ctx, email)
		e.metricInc(MetricOTPExhausted)
		return nil, ErrOTPAttemptsExceeded
	}

	attempts, err := e.otp.IncrAttempts(ctx, email)
	if err != nil {
		// If the attempt cannot be counted the comparison must not run, or a
		// flaky store would grant unlimited guesses.
		return nil, fmt.Errorf("%w: %v", ErrOTPStoreFailure, err)
	}
	if attempts > int64(rec.MaxAttempts) {
		e.deleteBothStores(ctx, email)
		e.metricInc(MetricOTPExhausted)
		return nil, ErrOTPAttemptsExceeded
	}

	if rec.Code == code {
		e.deleteBothStores(ctx, email)
		e.metricInc(MetricOTPVerified)
		return &VerifyResult{Email: rec.Email, FirstName: rec.FirstName}, nil
	}

	remaining := rec.MaxAttempts - int(attempts)
	if remaining <= 0 {
		// Budget spent: exhaustion converts future lookups into "not found".
		remaining = 0
		e.deleteBothStores(ctx, email)
	}
	e.metricInc(MetricOTPInvalid)
	return &VerifyResult{AttemptsRemaining: remaining}, ErrOTPInvalidCode
}

func (e *Engine) verifyFromDurable(ctx context.Context, email, code string) (*VerifyResult, error) {
	if e.repo == nil {
		return nil, ErrOTPNotFound
	}
	doc, err := e.repo.FindByEmailAndCode(ctx, email, code)
	if err != nil {
		e.log.WithError(err).Warn("authcore: durable otp lookup failed")
		return nil, ErrOTPNotFound
	}
	if doc == nil {
		return nil, ErrOTPNotFound
	}

	// One-shot: the durable copy is consumed whether or not the delete is
	// observed by the caller.
	if err := e.repo.Delete(ctx, doc.ID); err != nil {
		e.log.WithError(err).Warn("authcore: durable otp consume failed")
	}
	e.metricInc(MetricOTPFallback)
	e.metricInc(MetricOTPVerified)
	return &VerifyResult{Email: doc.Email, FirstName: doc.FirstName, FallbackUsed: true}, nil
}

func (e *Engine) deleteBothStores(ctx context.Context, email string) {
	if err := e.otp.Delete(ctx, email); err != nil {
		e.log.WithError(err).Warn("authcore: otp delete failed")
	}
	if e.repo != nil {
		if err := e.repo.DeleteByEmail(ctx, email); err != nil {
			e.log.WithError(err).Warn("authcore: durable otp delete failed")
		}
	}
}

// ResendOTP deletes any live code for email and issues a new one. The new
// record always carries a fresh code and a reset attempt budget, even when
// the previous code had attempts left.
func (e *Engine) ResendOTP(ctx context.Context, email, firstName string) (*GenerateResult, error) {
	if e == nil || e.otp == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.otp.Delete(ctx, email); err != nil {
		e.log.WithError(err).Warn("authcore: resend pre-delete failed")
	}
	return e.GenerateOTP(ctx, email, firstName)
}

// CheckOTP reports, without mutating anything, whether a live code exists for
// email, how many attempts were used, and the time remaining computed from
// the record's creation time clamped to zero.
func (e *Engine) CheckOTP(ctx context.Context, email string) (OTPStatus, error) {
	if e == nil || e.otp == nil {
		return OTPStatus{}, ErrEngineNotReady
	}
	status := OTPStatus{MaxAttempts: e.config.OTP.MaxAttempts}

	rec, err := e.otp.Get(ctx, email)
	if err != nil {
		return status, fmt.Errorf("%w: %v", ErrOTPStoreFailure, err)
	}
	if rec == nil {
		return status, nil
	}

	attempts, err := e.otp.Attempts(ctx, email)
	if err != nil {
		e.log.WithError(err).Warn("authcore: otp attempt read failed")
	}

	remaining := e.config.OTP.Expiry - time.Now().UTC().Sub(rec.CreatedAt)
	if remaining < 0 {
		remaining = 0
	}
	status.Exists = true
	status.Attempts = int(attempts)
	status.MaxAttempts = rec.MaxAttempts
	status.Remaining = remaining
	return status, nil
}

// DeleteOTP removes any live code for email from both stores.
func (e *Engine) DeleteOTP(ctx context.Context, email string) bool {
	if e == nil || e.otp == nil {
		return false
	}
	if err := e.otp.Delete(ctx, email); err != nil {
		e.log.WithError(err).Warn("authcore: otp delete failed")
		return false
	}
	if e.repo != nil {
		if err := e.repo.DeleteByEmail(ctx, email); err != nil {
			e.log.WithError(err).Warn("authcore: durable otp delete failed")
		}
	}
	return true
}
