package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/authcore/internal/stores"
	"github.com/MrEthical07/authcore/redisstore"
)

// Builder wires an [Engine]. Construction is allocation-only; no I/O happens
// until [redisstore.Client.Connect] (or the first operation when a live
// client was injected).
type Builder struct {
	config Config
	store  *redisstore.Client
	rdb    *redis.Client
	repo   OTPRepository
	mailer Mailer
	log    *logrus.Logger

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore injects a store client owned by the caller. Build will not dial;
// the caller runs Connect/Close.
func (b *Builder) WithStore(client *redisstore.Client) *Builder {
	b.store = client
	return b
}

// WithRedis wraps an already-connected go-redis client. Mostly a test and
// embedding convenience.
func (b *Builder) WithRedis(rdb *redis.Client) *Builder {
	b.rdb = rdb
	return b
}

// WithOTPRepository injects the durable-store collaborator. Without one the
// durable fallback verification path is disabled and generation skips the
// durable copy.
func (b *Builder) WithOTPRepository(repo OTPRepository) *Builder {
	b.repo = repo
	return b
}

// WithMailer injects the notification collaborator. Without one generated
// codes are stored but not dispatched, which is only useful in tests.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithLogger replaces the logger shared by the engine and its views.
func (b *Builder) WithLogger(log *logrus.Logger) *Builder {
	b.log = log
	return b
}

// Build validates the configuration and assembles the engine. A Builder is
// single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("authcore: builder already used")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		log = logrus.StandardLogger()
	}
	store := b.store
	if store == nil && b.rdb != nil {
		store = redisstore.NewFromClient(b.rdb)
		store.SetLogger(log)
	}
	if store == nil {
		store = redisstore.New(b.config.Store.storeConfig())
		store.SetLogger(log)
	}

	b.built = true
	return &Engine{
		config:    b.config,
		log:       log,
		store:     store,
		cache:     stores.NewCache(store, log, b.config.Cache.TTL),
		sessions:  stores.NewSession(store, log, b.config.Session.TTL),
		rateLimit: stores.NewRateLimit(store, log),
		otp:       stores.NewOTP(store, log),
		tokens:    stores.NewToken(store, log),
		blacklist: stores.NewBlacklist(store, log),
		queue:     stores.NewQueue(store, log),
		repo:      b.repo,
		mailer:    b.mailer,
		metrics:   newMetrics(),
	}, nil
}
