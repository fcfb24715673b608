package stores

import (
	"context"
	"time"

	"github.com/MrEthical07/authcore/redisstore"
	"github.com/sirupsen/logrus"
)

const sessionPrefix = "session:"

// Session is the session view over the session: namespace. Session IDs are
// generated by the caller from a cryptographically strong source; this view
// only persists and refreshes them.
type Session struct {
	client     *redisstore.Client
	log        *logrus.Logger
	defaultTTL time.Duration
}

// NewSession creates the session view. defaultTTL applies when a caller
// passes a zero duration.
func NewSession(client *redisstore.Client, log *logrus.Logger, defaultTTL time.Duration) *Session {
	return &Session{client: client, log: log, defaultTTL: defaultTTL}
}

// Set stores data under session:<id>.
func (s *Session) Set(ctx context.Context, id string, data any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, sessionPrefix+id, data, ttl); err != nil {
		s.log.WithError(err).Warn("session: set failed")
		return false
	}
	return true
}

// Get loads session:<id> into dest.
func (s *Session) Get(ctx context.Context, id string, dest any) bool {
	found, err := s.client.Get(ctx, sessionPrefix+id, dest)
	if err != nil {
		s.log.WithError(err).Warn("session: get failed")
		return false
	}
	return found
}

// Delete removes session:<id>.
func (s *Session) Delete(ctx context.Context, id string) bool {
	if err := s.client.Del(ctx, sessionPrefix+id); err != nil {
		s.log.WithError(err).Warn("session: delete failed")
		return false
	}
	return true
}

// Extend refreshes the TTL of session:<id>, the sliding-expiration behavior
// applied on each authenticated access. Returns false when the session no
// longer exists.
func (s *Session) Extend(ctx context.Context, id string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	ok, err := s.client.Expire(ctx, sessionPrefix+id, ttl)
	if err != nil {
		s.log.WithError(err).Warn("session: extend failed")
		return false
	}
	return ok
}
