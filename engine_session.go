package authcore

import (
	"context"
	"time"
)

// SetSession stores the user payload under the given session identifier.
// Identifier generation is the caller's job (see [NewSessionID]); a zero ttl
// uses Config.Session.TTL.
func (e *Engine) SetSession(ctx context.Context, sessionID string, data any, ttl time.Duration) bool {
	if e == nil || e.sessions == nil {
		return false
	}
	return e.sessions.Set(ctx, sessionID, data, ttl)
}

// GetSession loads the payload for sessionID into dest.
func (e *Engine) GetSession(ctx context.Context, sessionID string, dest any) bool {
	if e == nil || e.sessions == nil {
		return false
	}
	return e.sessions.Get(ctx, sessionID, dest)
}

// DeleteSession removes the session, the logout path.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) bool {
	if e == nil || e.sessions == nil {
		return false
	}
	return e.sessions.Delete(ctx, sessionID)
}

// ExtendSession refreshes the session TTL on authenticated access. Returns
// false when the session has already expired.
func (e *Engine) ExtendSession(ctx context.Context, sessionID string, ttl time.Duration) bool {
	if e == nil || e.sessions == nil {
		return false
	}
	return e.sessions.Extend(ctx, sessionID, ttl)
}
