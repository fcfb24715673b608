package authcore

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestTokenRemainingLifetime(t *testing.T) {
	now := time.Now()
	token := signedToken(t, now.Add(time.Hour))

	remaining, err := TokenRemainingLifetime(token, now)
	if err != nil {
		t.Fatalf("remaining lifetime: %v", err)
	}
	if remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("remaining = %v, want about 1h", remaining)
	}

	if _, err := TokenRemainingLifetime("not-a-jwt", now); !errors.Is(err, ErrTokenUnparseable) {
		t.Fatalf("garbage token err = %v, want ErrTokenUnparseable", err)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	s, err := noExp.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := TokenRemainingLifetime(s, now); !errors.Is(err, ErrTokenUnparseable) {
		t.Fatalf("exp-less token err = %v, want ErrTokenUnparseable", err)
	}
}

func TestRevokeTokenUsesOwnExpiry(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	ctx := t.Context()

	token := signedToken(t, time.Now().Add(30*time.Minute))
	if !engine.RevokeToken(ctx, token) {
		t.Fatal("revoke failed")
	}

	revoked, err := engine.IsBlacklisted(ctx, token)
	if err != nil {
		t.Fatalf("blacklist check: %v", err)
	}
	if !revoked {
		t.Fatal("revoked token not flagged")
	}

	// The flag carries the token's remaining lifetime, not the default.
	ttl := mr.TTL("blacklist:" + token)
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("blacklist ttl = %v, want at most 30m", ttl)
	}

	mr.FastForward(31 * time.Minute)
	revoked, err = engine.IsBlacklisted(ctx, token)
	if err != nil {
		t.Fatalf("blacklist check: %v", err)
	}
	if revoked {
		t.Fatal("flag outlived the token")
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := t.Context()

	token := signedToken(t, time.Now().Add(-time.Minute))
	if !engine.RevokeToken(ctx, token) {
		t.Fatal("revoking an expired token must succeed")
	}
	revoked, err := engine.IsBlacklisted(ctx, token)
	if err != nil {
		t.Fatalf("blacklist check: %v", err)
	}
	if revoked {
		t.Fatal("expired token was flagged")
	}
}

func TestRevokeUnparseableFallsBackToDefaultTTL(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	ctx := t.Context()

	if !engine.RevokeToken(ctx, "opaque-token") {
		t.Fatal("revoke failed")
	}
	revoked, err := engine.IsBlacklisted(ctx, "opaque-token")
	if err != nil {
		t.Fatalf("blacklist check: %v", err)
	}
	if !revoked {
		t.Fatal("opaque token not flagged")
	}
	ttl := mr.TTL("blacklist:opaque-token")
	if ttl <= 23*time.Hour || ttl > 24*time.Hour {
		t.Fatalf("fallback ttl = %v, want about 24h", ttl)
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	ctx := t.Context()

	if !engine.SetUserToken(ctx, "user-1", "tok-abc", time.Hour) {
		t.Fatal("set failed")
	}
	if got := engine.GetUserToken(ctx, "user-1"); got != "tok-abc" {
		t.Fatalf("get = %q", got)
	}
	if !engine.DeleteUserToken(ctx, "user-1") {
		t.Fatal("delete failed")
	}
	if got := engine.GetUserToken(ctx, "user-1"); got != "" {
		t.Fatalf("get after delete = %q", got)
	}

	// Zero ttl uses the session lifetime.
	engine.SetUserToken(ctx, "user-2", "tok-def", 0)
	if ttl := mr.TTL("user_token:user-2"); ttl != 86400*time.Second {
		t.Fatalf("default ttl = %v", ttl)
	}
}

func TestNilEngineTokenOpsAreNeutral(t *testing.T) {
	var engine *Engine
	ctx := t.Context()

	if engine.RevokeToken(ctx, "opaque-token") {
		t.Fatal("revoke on nil engine reported success")
	}
	if _, err := engine.IsBlacklisted(ctx, "opaque-token"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("blacklist check err = %v, want ErrEngineNotReady", err)
	}
	if got := engine.GetUserToken(ctx, "user-1"); got != "" {
		t.Fatalf("get on nil engine = %q", got)
	}
}

func TestAddToBlacklistCountsRevocations(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := t.Context()

	engine.AddToBlacklist(ctx, "t1", time.Minute)
	engine.AddToBlacklist(ctx, "t2", time.Minute)

	if got := engine.MetricsSnapshot()["token_revoked"]; got != 2 {
		t.Fatalf("token_revoked = %d, want 2", got)
	}
}
