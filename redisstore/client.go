package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	// ErrConnectionExhausted is returned by Connect when the retry budget is spent.
	ErrConnectionExhausted = errors.New("redisstore: connection retry attempts exhausted")
	// ErrNotConnected is returned by every operation while the client is not connected.
	ErrNotConnected = errors.New("redisstore: not connected")
	// ErrInvalidTTL rejects a non-positive expiry before it reaches Redis.
	ErrInvalidTTL = errors.New("redisstore: ttl must be positive")
	// ErrSerialization is returned when a value cannot round-trip through JSON.
	ErrSerialization = errors.New("redisstore: serialization failed")
	// ErrUnavailable wraps transport failures from the underlying Redis client.
	ErrUnavailable = errors.New("redisstore: redis unavailable")
)

// State is the observable connection state of a [Client].
type State int32

const (
	// StateDisconnected means no usable connection exists.
	StateDisconnected State = iota
	// StateConnecting means Connect is dialing and retrying.
	StateConnecting
	// StateConnected means the last ping on the connection succeeded.
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Config holds connection and retry tuning for a [Client].
type Config struct {
	Addr     string
	Password string
	DB       int

	// MaxRetries caps the number of Connect dial attempts.
	MaxRetries int
	// RetryBase is multiplied by the attempt number to produce the backoff delay.
	RetryBase time.Duration
	// RetryCeiling caps the per-attempt backoff delay.
	RetryCeiling time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 10
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 100 * time.Millisecond
	}
	if c.RetryCeiling <= 0 {
		c.RetryCeiling = 3 * time.Second
	}
	return c
}

// Client is a process-wide Redis handle with an explicit init/shutdown
// lifecycle. It is safe for concurrent use after Connect returns; the
// underlying go-redis client serializes commands over its connection pool.
type Client struct {
	cfg Config
	log *logrus.Logger

	mu        sync.Mutex
	rdb       *redis.Client
	state     State
	lastProbe time.Time

	// OnStateChange, if set before Connect, is invoked on every state
	// transition. Called with the client lock held; must not call back in.
	OnStateChange func(State)
}

// New allocates a Client. No I/O happens until Connect.
func New(cfg Config) *Client {
	return &Client{
		cfg:   cfg.withDefaults(),
		log:   logrus.StandardLogger(),
		state: StateDisconnected,
	}
}

// NewFromClient wraps an already-connected go-redis client, bypassing the
// dial/retry lifecycle. Used when the caller owns the connection.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{
		cfg:   Config{}.withDefaults(),
		log:   logrus.StandardLogger(),
		rdb:   rdb,
		state: StateConnected,
	}
}

// SetLogger replaces the logger. Call before Connect.
func (c *Client) SetLogger(log *logrus.Logger) {
	if log != nil {
		c.log = log
	}
}

// State reports the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStateLocked(s)
}

func (c *Client) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	if c.OnStateChange != nil {
		c.OnStateChange(s)
	}
}

// Connect dials Redis, retrying up to Config.MaxRetries with a backoff of
// min(attempt*RetryBase, RetryCeiling) between attempts. On success the state
// moves to connected; on a spent retry budget it returns
// [ErrConnectionExhausted] wrapping the last dial error.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.cfg.Addr,
			Password: c.cfg.Password,
			DB:       c.cfg.DB,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			lastErr = err
			if closeErr := rdb.Close(); closeErr != nil {
				c.log.WithError(closeErr).Debug("redisstore: close after failed ping")
			}
			if ctx.Err() != nil {
				c.setState(StateDisconnected)
				return fmt.Errorf("%w: %v", ErrConnectionExhausted, ctx.Err())
			}

			delay := time.Duration(attempt) * c.cfg.RetryBase
			if delay > c.cfg.RetryCeiling {
				delay = c.cfg.RetryCeiling
			}
			c.log.WithError(err).WithField("attempt", attempt).Warn("redisstore: connect failed, backing off")

			select {
			case <-ctx.Done():
				c.setState(StateDisconnected)
				return fmt.Errorf("%w: %v", ErrConnectionExhausted, ctx.Err())
			case <-time.After(delay):
			}
			continue
		}

		c.mu.Lock()
		c.rdb = rdb
		c.setStateLocked(StateConnected)
		c.mu.Unlock()
		c.log.WithField("addr", c.cfg.Addr).Info("redisstore: connected")
		return nil
	}

	c.setState(StateDisconnected)
	return fmt.Errorf("%w: last error: %v", ErrConnectionExhausted, lastErr)
}

// Close tears the connection down and moves the state to disconnected.
// Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	rdb := c.rdb
	c.rdb = nil
	c.setStateLocked(StateDisconnected)
	c.mu.Unlock()

	if rdb == nil {
		return nil
	}
	return rdb.Close()
}

// handle returns the live redis client, or ErrNotConnected. A client marked
// disconnected re-probes the connection at most once per RetryBase, so a
// recovered store comes back on the next operation without waiting for an
// explicit Ping, while an ongoing outage keeps short-circuiting.
func (c *Client) handle(ctx context.Context) (*redis.Client, error) {
	c.mu.Lock()
	rdb := c.rdb
	if c.state == StateConnected && rdb != nil {
		c.mu.Unlock()
		return rdb, nil
	}
	if rdb == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	now := time.Now()
	if now.Sub(c.lastProbe) < c.cfg.RetryBase {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.lastProbe = now
	c.mu.Unlock()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, ErrNotConnected
	}
	c.setState(StateConnected)
	return rdb, nil
}

// wrapOpErr converts an operation failure into ErrUnavailable. Only genuine
// transport failures move the state to disconnected: a caller-canceled
// context or an error reply from the server says nothing about the health of
// the connection, and must not take the shared client down for everyone else.
func (c *Client) wrapOpErr(op string, err error) error {
	if isTransportErr(err) {
		c.setState(StateDisconnected)
		c.log.WithError(err).WithField("op", op).Error("redisstore: operation failed")
	} else {
		c.log.WithError(err).WithField("op", op).Warn("redisstore: operation failed")
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func isTransportErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Error replies travel over a working connection.
	var reply redis.Error
	return !errors.As(err, &reply)
}

// Set serializes value and writes it under key with the given TTL. A
// non-positive TTL is rejected with [ErrInvalidTTL] before anything is
// written. Use [Client.SetForever] for keys without an expiry.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTTL, ttl)
	}
	return c.set(ctx, key, value, ttl)
}

// SetForever serializes value and writes it under key with no expiry.
func (c *Client) SetForever(ctx context.Context, key string, value any) error {
	return c.set(ctx, key, value, 0)
}

func (c *Client) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	rdb, err := c.handle(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal %T: %v", ErrSerialization, value, err)
	}

	if err := rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return c.wrapOpErr("set", err)
	}
	return nil
}

// Get reads key and decodes it into dest. The boolean reports whether the key
// existed; a false with a nil error means a clean miss, while infrastructure
// failures come back as a non-nil error so callers can tell the two apart.
func (c *Client) Get(ctx context.Context, key string, dest any) (bool, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return false, err
	}

	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, c.wrapOpErr("get", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: unmarshal key %q: %v", ErrSerialization, key, err)
	}
	return true, nil
}

// Del removes key. Deleting a missing key is not an error.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	rdb, err := c.handle(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return c.wrapOpErr("del", err)
	}
	return nil
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return false, err
	}
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, c.wrapOpErr("exists", err)
	}
	return n > 0, nil
}

// Expire resets the TTL of key. Returns false when the key does not exist.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("%w: got %v", ErrInvalidTTL, ttl)
	}
	rdb, err := c.handle(ctx)
	if err != nil {
		return false, err
	}
	ok, err := rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, c.wrapOpErr("expire", err)
	}
	return ok, nil
}

// TTL reports the remaining lifetime of key. Missing keys report zero.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return 0, err
	}
	d, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, c.wrapOpErr("ttl", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Incr atomically increments the integer at key and returns the new value.
// Atomicity is the store's per-key guarantee; no application lock is taken.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return 0, err
	}
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, c.wrapOpErr("incr", err)
	}
	return n, nil
}

// LPush serializes value and pushes it onto the head of the list at key.
func (c *Client) LPush(ctx context.Context, key string, value any) error {
	rdb, err := c.handle(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal %T: %v", ErrSerialization, value, err)
	}
	if err := rdb.LPush(ctx, key, raw).Err(); err != nil {
		return c.wrapOpErr("lpush", err)
	}
	return nil
}

// RPop pops the tail of the list at key into dest. A false with a nil error
// means the list was empty.
func (c *Client) RPop(ctx context.Context, key string, dest any) (bool, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return false, err
	}
	raw, err := rdb.RPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, c.wrapOpErr("rpop", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: unmarshal key %q: %v", ErrSerialization, key, err)
	}
	return true, nil
}

// LLen reports the length of the list at key. Missing lists report zero.
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return 0, err
	}
	n, err := rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, c.wrapOpErr("llen", err)
	}
	return n, nil
}

// Keys lists keys matching pattern via SCAN. Admin/ops use only; not a hot
// path.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	rdb, err := c.handle(ctx)
	if err != nil {
		return nil, err
	}

	var keys []string
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, c.wrapOpErr("scan", err)
	}
	return keys, nil
}

// Ping round-trips the connection and repairs the observable state: a
// successful ping on a client marked disconnected moves it back to connected.
func (c *Client) Ping(ctx context.Context) error {
	c.mu.Lock()
	rdb := c.rdb
	c.mu.Unlock()
	if rdb == nil {
		return ErrNotConnected
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	c.setState(StateConnected)
	return nil
}

// HealthReport is the ops-facing view of the connection.
type HealthReport struct {
	State   string `json:"state"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// Health pings the store and reports the resulting state.
func (c *Client) Health(ctx context.Context) HealthReport {
	if err := c.Ping(ctx); err != nil {
		return HealthReport{State: c.State().String(), Healthy: false, Message: err.Error()}
	}
	return HealthReport{State: StateConnected.String(), Healthy: true}
}
