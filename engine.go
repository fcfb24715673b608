package authcore

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/authcore/internal/stores"
	"github.com/MrEthical07/authcore/redisstore"
)

// Engine is the façade over the typed cache views, the OTP verification
// service, and the collaborator interfaces. Configure it once through
// [Builder.Build] and treat it as immutable; all methods are safe for
// concurrent use.
type Engine struct {
	config Config
	log    *logrus.Logger
	store  *redisstore.Client

	cache     *stores.Cache
	sessions  *stores.Session
	rateLimit *stores.RateLimit
	otp       *stores.OTP
	tokens    *stores.Token
	blacklist *stores.Blacklist
	queue     *stores.Queue

	repo    OTPRepository
	mailer  Mailer
	metrics *Metrics
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Connect dials the fast store when the engine owns it (constructed from
// Config.Store rather than injected).
func (e *Engine) Connect(ctx context.Context) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	return e.store.Connect(ctx)
}

// Close tears down the fast-store connection. Safe to call more than once.
func (e *Engine) Close() error {
	if e == nil || e.store == nil {
		return nil
	}
	return e.store.Close()
}

// StoreState reports the observable fast-store connection state.
func (e *Engine) StoreState() redisstore.State {
	if e == nil || e.store == nil {
		return redisstore.StateDisconnected
	}
	return e.store.State()
}

// Health pings the fast store and, when configured, the durable store.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{}
	if e == nil || e.store == nil {
		status.Store.State = redisstore.StateDisconnected.String()
		return status
	}
	status.Store = e.store.Health(ctx)

	if e.repo != nil {
		// A cheap liveness probe: expiry cleanup doubles as a round-trip.
		if _, err := e.repo.DeleteExpired(ctx); err != nil {
			status.Durable = err.Error()
		} else {
			status.Durable = "ok"
		}
	}
	return status
}

// NewSessionID returns an unguessable session identifier from a
// cryptographically strong random source.
func NewSessionID() string {
	return uuid.NewString()
}
