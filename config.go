package authcore

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrEthical07/authcore/internal/otputil"
	"github.com/MrEthical07/authcore/redisstore"
)

// Config groups every tunable of the engine. Instances are configured during
// initialization and treated as immutable afterwards.
type Config struct {
	Store     StoreConfig
	OTP       OTPConfig
	RateLimit RateLimitConfig
	Session   SessionConfig
	Cache     CacheConfig
	Blacklist BlacklistConfig
}

// StoreConfig carries the fast-store endpoint, credential, and reconnect
// policy. It maps directly onto [redisstore.Config].
type StoreConfig struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	RetryBase    time.Duration
	RetryCeiling time.Duration
}

// OTPConfig tunes the verification-code service.
type OTPConfig struct {
	// Expiry is the fast-store TTL and the durable copy's lifetime.
	Expiry time.Duration
	// Digits is the fixed code length.
	Digits int
	// MaxAttempts bounds failed verifications before the record is deleted.
	MaxAttempts int
	// DebugCodes echoes the raw code in GenerateResult. Never enable in
	// production-equivalent deployments.
	DebugCodes bool
}

// RateLimitConfig tunes the fixed-window request limiter.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// SessionConfig tunes the session view.
type SessionConfig struct {
	TTL time.Duration
}

// CacheConfig tunes the generic cache view.
type CacheConfig struct {
	TTL time.Duration
}

// BlacklistConfig tunes the revocation check.
type BlacklistConfig struct {
	// FailClosed rejects requests when the blacklist store is unreachable.
	// The default is fail-open: availability wins over a revocation check
	// that cannot be performed. Security-sensitive deployments should flip
	// this deliberately.
	FailClosed bool
	// DefaultTTL is the flag lifetime used when a revoked token's own expiry
	// cannot be determined.
	DefaultTTL time.Duration
}

// DefaultConfig returns the documented defaults: 300s OTP expiry, 6 digits,
// 3 attempts, 100 requests per 15 minute window, 24h sessions, 1h cache.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Addr:         "localhost:6379",
			MaxRetries:   10,
			RetryBase:    100 * time.Millisecond,
			RetryCeiling: 3 * time.Second,
		},
		OTP: OTPConfig{
			Expiry:      300 * time.Second,
			Digits:      6,
			MaxAttempts: 3,
		},
		RateLimit: RateLimitConfig{
			Max:    100,
			Window: 15 * time.Minute,
		},
		Session:   SessionConfig{TTL: 86400 * time.Second},
		Cache:     CacheConfig{TTL: 3600 * time.Second},
		Blacklist: BlacklistConfig{DefaultTTL: 86400 * time.Second},
	}
}

// Validate rejects configurations the engine cannot honor.
func (c Config) Validate() error {
	if c.Store.Addr == "" {
		return errors.New("authcore: store address required")
	}
	if c.OTP.Expiry <= 0 {
		return errors.New("authcore: otp expiry must be positive")
	}
	if c.OTP.Digits < otputil.MinDigits || c.OTP.Digits > otputil.MaxDigits {
		return fmt.Errorf("authcore: otp digits must be between %d and %d", otputil.MinDigits, otputil.MaxDigits)
	}
	if c.OTP.MaxAttempts <= 0 {
		return errors.New("authcore: otp max attempts must be positive")
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("authcore: rate limit ceiling and window must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("authcore: session ttl must be positive")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("authcore: cache ttl must be positive")
	}
	if c.Blacklist.DefaultTTL <= 0 {
		return errors.New("authcore: blacklist default ttl must be positive")
	}
	return nil
}

func (c StoreConfig) storeConfig() redisstore.Config {
	return redisstore.Config{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		RetryBase:    c.RetryBase,
		RetryCeiling: c.RetryCeiling,
	}
}

// fileConfig is the on-disk YAML shape. Durations are plain seconds so the
// file stays readable by non-Go tooling.
type fileConfig struct {
	Store struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"store"`
	OTP struct {
		ExpirySeconds int  `yaml:"expiry_seconds"`
		Digits        int  `yaml:"digits"`
		MaxAttempts   int  `yaml:"max_attempts"`
		DebugCodes    bool `yaml:"debug_codes"`
	} `yaml:"otp"`
	RateLimit struct {
		Max           int `yaml:"max"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
	Session struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"session"`
	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	Blacklist struct {
		FailClosed        bool `yaml:"fail_closed"`
		DefaultTTLSeconds int  `yaml:"default_ttl_seconds"`
	} `yaml:"blacklist"`
}

// LoadConfig reads a YAML file and overlays it on [DefaultConfig]. Absent
// options keep their defaults; present ones are validated by the caller via
// [Config.Validate] (Build does this).
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("authcore: read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("authcore: parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Store.Addr != "" {
		cfg.Store.Addr = fc.Store.Addr
	}
	if fc.Store.Password != "" {
		cfg.Store.Password = fc.Store.Password
	}
	if fc.Store.DB != 0 {
		cfg.Store.DB = fc.Store.DB
	}
	if fc.Store.MaxRetries != 0 {
		cfg.Store.MaxRetries = fc.Store.MaxRetries
	}
	if fc.OTP.ExpirySeconds != 0 {
		cfg.OTP.Expiry = time.Duration(fc.OTP.ExpirySeconds) * time.Second
	}
	if fc.OTP.Digits != 0 {
		cfg.OTP.Digits = fc.OTP.Digits
	}
	if fc.OTP.MaxAttempts != 0 {
		cfg.OTP.MaxAttempts = fc.OTP.MaxAttempts
	}
	cfg.OTP.DebugCodes = fc.OTP.DebugCodes
	if fc.RateLimit.Max != 0 {
		cfg.RateLimit.Max = fc.RateLimit.Max
	}
	if fc.RateLimit.WindowSeconds != 0 {
		cfg.RateLimit.Window = time.Duration(fc.RateLimit.WindowSeconds) * time.Second
	}
	if fc.Session.TTLSeconds != 0 {
		cfg.Session.TTL = time.Duration(fc.Session.TTLSeconds) * time.Second
	}
	if fc.Cache.TTLSeconds != 0 {
		cfg.Cache.TTL = time.Duration(fc.Cache.TTLSeconds) * time.Second
	}
	cfg.Blacklist.FailClosed = fc.Blacklist.FailClosed
	if fc.Blacklist.DefaultTTLSeconds != 0 {
		cfg.Blacklist.DefaultTTL = time.Duration(fc.Blacklist.DefaultTTLSeconds) * time.Second
	}
	return cfg, nil
}
