package authcore

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OTP.Expiry != 300*time.Second {
		t.Fatalf("otp expiry = %v", cfg.OTP.Expiry)
	}
	if cfg.OTP.Digits != 6 {
		t.Fatalf("otp digits = %d", cfg.OTP.Digits)
	}
	if cfg.OTP.MaxAttempts != 3 {
		t.Fatalf("otp max attempts = %d", cfg.OTP.MaxAttempts)
	}
	if cfg.OTP.DebugCodes {
		t.Fatal("debug codes on by default")
	}
	if cfg.RateLimit.Max != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("rate limit = %+v", cfg.RateLimit)
	}
	if cfg.Session.TTL != 86400*time.Second {
		t.Fatalf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Cache.TTL != 3600*time.Second {
		t.Fatalf("cache ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Blacklist.FailClosed {
		t.Fatal("blacklist fail-closed by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults fail validation: %v", err)
	}
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"no store addr", func(c *Config) { c.Store.Addr = "" }},
		{"zero otp expiry", func(c *Config) { c.OTP.Expiry = 0 }},
		{"otp digits too small", func(c *Config) { c.OTP.Digits = 3 }},
		{"otp digits too large", func(c *Config) { c.OTP.Digits = 11 }},
		{"zero max attempts", func(c *Config) { c.OTP.MaxAttempts = 0 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.Max = 0 }},
		{"negative window", func(c *Config) { c.RateLimit.Window = -time.Second }},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"zero blacklist ttl", func(c *Config) { c.Blacklist.DefaultTTL = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mut(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("validation passed")
			}
		})
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authcore.yaml")
	raw := []byte(`
store:
  addr: redis.internal:6380
  db: 2
otp:
  expiry_seconds: 120
  max_attempts: 5
  debug_codes: true
rate_limit:
  max: 20
blacklist:
  fail_closed: true
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Store.Addr != "redis.internal:6380" || cfg.Store.DB != 2 {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.OTP.Expiry != 120*time.Second || cfg.OTP.MaxAttempts != 5 || !cfg.OTP.DebugCodes {
		t.Fatalf("otp = %+v", cfg.OTP)
	}
	if cfg.RateLimit.Max != 20 {
		t.Fatalf("rate limit max = %d", cfg.RateLimit.Max)
	}
	if !cfg.Blacklist.FailClosed {
		t.Fatal("fail_closed not applied")
	}

	// Untouched options keep their defaults.
	if cfg.OTP.Digits != 6 {
		t.Fatalf("digits = %d, want default 6", cfg.OTP.Digits)
	}
	if cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("window = %v, want default 15m", cfg.RateLimit.Window)
	}
	if cfg.Session.TTL != 86400*time.Second {
		t.Fatalf("session ttl = %v, want default", cfg.Session.TTL)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("store: [not: a: mapping"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}

func TestBuilderRejectsInvalidConfigAndReuse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OTP.Digits = 1
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("invalid config built")
	}

	b := New()
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("builder reuse accepted")
	}
}
