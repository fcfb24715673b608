package stores

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/redisstore"
	"github.com/sirupsen/logrus"
)

const (
	userTokenPrefix = "user_token:"
	blacklistPrefix = "blacklist:"
)

// Token is the per-user token view over the user_token: namespace.
type Token struct {
	client *redisstore.Client
	log    *logrus.Logger
}

// NewToken creates the user-token view.
func NewToken(client *redisstore.Client, log *logrus.Logger) *Token {
	return &Token{client: client, log: log}
}

// Set stores token under user_token:<userID>.
func (t *Token) Set(ctx context.Context, userID, token string, ttl time.Duration) bool {
	if err := t.client.Set(ctx, userTokenPrefix+userID, token, ttl); err != nil {
		t.log.WithError(err).WithField("user_id", userID).Warn("user_token: set failed")
		return false
	}
	return true
}

// Get returns the stored token for userID, or "" when none exists.
func (t *Token) Get(ctx context.Context, userID string) string {
	var token string
	found, err := t.client.Get(ctx, userTokenPrefix+userID, &token)
	if err != nil {
		t.log.WithError(err).WithField("user_id", userID).Warn("user_token: get failed")
		return ""
	}
	if !found {
		return ""
	}
	return token
}

// Delete removes the stored token for userID.
func (t *Token) Delete(ctx context.Context, userID string) bool {
	if err := t.client.Del(ctx, userTokenPrefix+userID); err != nil {
		t.log.WithError(err).WithField("user_id", userID).Warn("user_token: delete failed")
		return false
	}
	return true
}

// Blacklist is the revocation view over the blacklist: namespace. Only key
// presence matters; the stored value is a fixed marker.
type Blacklist struct {
	client *redisstore.Client
	log    *logrus.Logger
}

// NewBlacklist creates the blacklist view.
func NewBlacklist(client *redisstore.Client, log *logrus.Logger) *Blacklist {
	return &Blacklist{client: client, log: log}
}

// Add flags token as revoked for ttl, which should match the token's own
// remaining lifetime so the flag expires with it.
func (b *Blacklist) Add(ctx context.Context, token string, ttl time.Duration) bool {
	if err := b.client.Set(ctx, blacklistPrefix+token, "blacklisted", ttl); err != nil {
		b.log.WithError(err).Warn("blacklist: add failed")
		return false
	}
	return true
}

// Contains reports whether token is flagged. The error is surfaced, not
// swallowed: the blacklist middleware decides fail-open versus fail-closed
// when the store is unreachable.
func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	return b.client.Exists(ctx, blacklistPrefix+token)
}
