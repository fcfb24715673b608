// Command authcore-smoke runs every engine flow once against a live Redis
// (or an embedded miniredis when none is configured) and reports the
// outcomes. Useful as a deployment smoke check and as a runnable tour of the
// API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/authcore"
)

func main() {
	var (
		redisAddr  = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		configPath = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	var rdb *redis.Client
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = rdb.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := authcore.DefaultConfig()
	if *configPath != "" {
		loaded, err := authcore.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.OTP.DebugCodes = true

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	engine, err := authcore.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithLogger(log).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	check := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Printf("FAIL %-22s %v\n", name, err)
			return
		}
		fmt.Printf("ok   %s\n", name)
	}

	check("otp generate+verify", smokeOTP(ctx, engine))
	check("otp wrong-code budget", smokeOTPBudget(ctx, engine))
	check("cache round-trip", smokeCache(ctx, engine))
	check("session lifecycle", smokeSession(ctx, engine))
	check("rate limit window", smokeRateLimit(ctx, engine))
	check("queue fifo", smokeQueue(ctx, engine))
	check("token blacklist", smokeBlacklist(ctx, engine))

	fmt.Println("---- metrics ----")
	for name, v := range engine.MetricsSnapshot() {
		if v > 0 {
			fmt.Printf("%s=%d\n", name, v)
		}
	}

	if failed > 0 {
		fmt.Printf("%d flow(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("all flows passed")
}

func smokeOTP(ctx context.Context, engine *authcore.Engine) error {
	res, err := engine.GenerateOTP(ctx, "smoke@example.com", "Smoke")
	if err != nil {
		return err
	}
	vr, err := engine.VerifyOTP(ctx, "smoke@example.com", res.Code)
	if err != nil {
		return err
	}
	if vr.Email != "smoke@example.com" {
		return fmt.Errorf("verify payload mismatch: %+v", vr)
	}
	if _, err := engine.VerifyOTP(ctx, "smoke@example.com", res.Code); !errors.Is(err, authcore.ErrOTPNotFound) {
		return fmt.Errorf("consumed code still verifies: %v", err)
	}
	return nil
}

func smokeOTPBudget(ctx context.Context, engine *authcore.Engine) error {
	res, err := engine.GenerateOTP(ctx, "budget@example.com", "Smoke")
	if err != nil {
		return err
	}
	max := engine.Config().OTP.MaxAttempts
	for i := 0; i < max; i++ {
		vr, err := engine.VerifyOTP(ctx, "budget@example.com", "000000")
		if !errors.Is(err, authcore.ErrOTPInvalidCode) {
			return fmt.Errorf("attempt %d: %v", i+1, err)
		}
		if want := max - i - 1; vr.AttemptsRemaining != want {
			return fmt.Errorf("attempt %d remaining=%d want %d", i+1, vr.AttemptsRemaining, want)
		}
	}
	if _, err := engine.VerifyOTP(ctx, "budget@example.com", res.Code); !errors.Is(err, authcore.ErrOTPNotFound) {
		return fmt.Errorf("exhausted record still present: %v", err)
	}
	return nil
}

func smokeCache(ctx context.Context, engine *authcore.Engine) error {
	type payload struct {
		N int `json:"n"`
	}
	if !engine.SetCache(ctx, "smoke:1", payload{N: 7}, time.Minute) {
		return fmt.Errorf("set failed")
	}
	var p payload
	if !engine.GetCache(ctx, "smoke:1", &p) || p.N != 7 {
		return fmt.Errorf("get = %+v", p)
	}
	if n := engine.ClearCache(ctx, "smoke:"); n != 1 {
		return fmt.Errorf("cleared %d", n)
	}
	return nil
}

func smokeSession(ctx context.Context, engine *authcore.Engine) error {
	id := authcore.NewSessionID()
	if !engine.SetSession(ctx, id, map[string]string{"user": "smoke"}, time.Minute) {
		return fmt.Errorf("set failed")
	}
	var data map[string]string
	if !engine.GetSession(ctx, id, &data) || data["user"] != "smoke" {
		return fmt.Errorf("get = %+v", data)
	}
	if !engine.ExtendSession(ctx, id, time.Hour) {
		return fmt.Errorf("extend failed")
	}
	if !engine.DeleteSession(ctx, id) {
		return fmt.Errorf("delete failed")
	}
	return nil
}

func smokeRateLimit(ctx context.Context, engine *authcore.Engine) error {
	for want := int64(1); want <= 3; want++ {
		if got := engine.IncrementRateLimit(ctx, "smoke-client", time.Minute); got != want {
			return fmt.Errorf("count=%d want %d", got, want)
		}
	}
	if w := engine.RateLimitWindow(ctx, "smoke-client"); w <= 0 {
		return fmt.Errorf("window=%v", w)
	}
	return nil
}

func smokeQueue(ctx context.Context, engine *authcore.Engine) error {
	for i := 0; i < 3; i++ {
		if !engine.AddToQueue(ctx, "smoke-jobs", i) {
			return fmt.Errorf("push %d failed", i)
		}
	}
	for want := 0; want < 3; want++ {
		var got int
		if !engine.GetFromQueue(ctx, "smoke-jobs", &got) || got != want {
			return fmt.Errorf("pop=%d want %d", got, want)
		}
	}
	return nil
}

func smokeBlacklist(ctx context.Context, engine *authcore.Engine) error {
	if !engine.AddToBlacklist(ctx, "smoke-token", time.Minute) {
		return fmt.Errorf("add failed")
	}
	revoked, err := engine.IsBlacklisted(ctx, "smoke-token")
	if err != nil {
		return err
	}
	if !revoked {
		return fmt.Errorf("token not flagged")
	}
	return nil
}
