package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SetUserToken stores the active token for a user, e.g. for single-session
// enforcement by the boundary layer.
func (e *Engine) SetUserToken(ctx context.Context, userID, token string, ttl time.Duration) bool {
	if e == nil || e.tokens == nil {
		return false
	}
	if ttl <= 0 {
		ttl = e.config.Session.TTL
	}
	return e.tokens.Set(ctx, userID, token, ttl)
}

// GetUserToken returns the stored token for userID, or "".
func (e *Engine) GetUserToken(ctx context.Context, userID string) string {
	if e == nil || e.tokens == nil {
		return ""
	}
	return e.tokens.Get(ctx, userID)
}

// DeleteUserToken removes the stored token for userID.
func (e *Engine) DeleteUserToken(ctx context.Context, userID string) bool {
	if e == nil || e.tokens == nil {
		return false
	}
	return e.tokens.Delete(ctx, userID)
}

// AddToBlacklist flags a token as revoked for exactly ttl; a zero ttl uses
// Config.Blacklist.DefaultTTL.
func (e *Engine) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) bool {
	if e == nil || e.blacklist == nil {
		return false
	}
	if ttl <= 0 {
		ttl = e.config.Blacklist.DefaultTTL
	}
	if !e.blacklist.Add(ctx, token, ttl) {
		return false
	}
	e.metricInc(MetricTokenRevoked)
	return true
}

// IsBlacklisted reports whether token is revoked. The error distinguishes an
// unreachable store from a clean "not revoked", so the blacklist middleware
// can apply its configured fail-open/fail-closed policy.
func (e *Engine) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if e == nil || e.blacklist == nil {
		return false, ErrEngineNotReady
	}
	return e.blacklist.Contains(ctx, token)
}

// RevokeToken blacklists a JWT for its own remaining lifetime, read from the
// exp claim, so the flag expires the moment the token would have anyway.
// Tokens without a readable expiry fall back to Config.Blacklist.DefaultTTL.
// An already-expired token is a no-op success.
func (e *Engine) RevokeToken(ctx context.Context, token string) bool {
	if e == nil || e.blacklist == nil {
		return false
	}
	remaining, err := TokenRemainingLifetime(token, time.Now())
	switch {
	case err != nil:
		e.log.WithError(err).Debug("authcore: revoke falling back to default ttl")
		remaining = e.config.Blacklist.DefaultTTL
	case remaining <= 0:
		return true
	}
	return e.AddToBlacklist(ctx, token, remaining)
}

// TokenRemainingLifetime extracts the exp claim from a JWT without verifying
// its signature (revocation needs the lifetime, not trust in the token) and
// returns how long the token remains valid from now.
func TokenRemainingLifetime(token string, now time.Time) (time.Duration, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenUnparseable, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, ErrTokenUnparseable
	}
	return exp.Time.Sub(now), nil
}
