package authcore

import (
	"errors"

	"github.com/MrEthical07/authcore/redisstore"
)

// Infrastructure errors re-exported from the store layer so callers match
// against a single package.
var (
	// ErrConnectionExhausted is returned when the store connect retry budget is spent.
	ErrConnectionExhausted = redisstore.ErrConnectionExhausted
	// ErrInvalidTTL rejects a non-positive caller-supplied expiry before it reaches the store.
	ErrInvalidTTL = redisstore.ErrInvalidTTL
	// ErrSerialization is returned when a payload cannot round-trip through the store codec.
	ErrSerialization = redisstore.ErrSerialization
)

var (
	// ErrEngineNotReady is returned when an Engine method is called before Build wired its dependencies.
	ErrEngineNotReady = errors.New("authcore: engine not ready")

	// ErrOTPStoreFailure is returned when the fast-store write fails during
	// generation. A code that cannot be read back must not be reported as
	// issued.
	ErrOTPStoreFailure = errors.New("authcore: failed to store otp")

	// ErrOTPNotFound is the verification outcome for a missing or expired code.
	ErrOTPNotFound = errors.New("authcore: otp not found or expired")

	// ErrOTPInvalidCode is the verification outcome for a wrong code with
	// attempts remaining. Inspect [VerifyResult.AttemptsRemaining] alongside.
	ErrOTPInvalidCode = errors.New("authcore: invalid otp")

	// ErrOTPAttemptsExceeded is the verification outcome once the attempt
	// budget is spent; the record is deleted and a fresh code must be
	// requested.
	ErrOTPAttemptsExceeded = errors.New("authcore: maximum otp attempts exceeded")

	// ErrTokenUnparseable is returned by RevokeToken when the presented token
	// carries no readable expiry claim.
	ErrTokenUnparseable = errors.New("authcore: token expiry unparseable")
)
