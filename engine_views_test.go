package authcore

import (
	"testing"
	"time"
)

type profile struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestCacheRoundTripAndClear(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := t.Context()

	if !engine.SetCache(ctx, "users:1", profile{Name: "Dana", Age: 34}, time.Minute) {
		t.Fatal("set failed")
	}
	engine.SetCache(ctx, "users:2", profile{Name: "Sam", Age: 41}, time.Minute)
	engine.SetCache(ctx, "posts:1", "hello", time.Minute)

	var p profile
	if !engine.GetCache(ctx, "users:1", &p) {
		t.Fatal("get missed")
	}
	if p.Name != "Dana" || p.Age != 34 {
		t.Fatalf("payload = %+v", p)
	}

	if n := engine.ClearCache(ctx, "users:"); n != 2 {
		t.Fatalf("cleared = %d, want 2", n)
	}
	if engine.GetCache(ctx, "users:1", &p) {
		t.Fatal("users:1 survived clear")
	}
	var s string
	if !engine.GetCache(ctx, "posts:1", &s) {
		t.Fatal("unrelated prefix was cleared")
	}

	snap := engine.MetricsSnapshot()
	if snap["cache_hit"] != 2 || snap["cache_miss"] != 1 {
		t.Fatalf("hit/miss = %d/%d", snap["cache_hit"], snap["cache_miss"])
	}
}

func TestCacheZeroTTLUsesDefault(t *testing.T) {
	engine, mr := newTestEngine(t, nil)

	engine.SetCache(t.Context(), "k", "v", 0)
	if ttl := mr.TTL("cache:k"); ttl != 3600*time.Second {
		t.Fatalf("default cache ttl = %v", ttl)
	}
}

func TestSessionLifecycle(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	ctx := t.Context()

	id := NewSessionID()
	if !engine.SetSession(ctx, id, profile{Name: "Dana"}, 10*time.Second) {
		t.Fatal("set failed")
	}

	var p profile
	if !engine.GetSession(ctx, id, &p) || p.Name != "Dana" {
		t.Fatalf("get = %+v", p)
	}

	if !engine.ExtendSession(ctx, id, time.Hour) {
		t.Fatal("extend failed")
	}
	if ttl := mr.TTL("session:" + id); ttl != time.Hour {
		t.Fatalf("extended ttl = %v", ttl)
	}

	if !engine.DeleteSession(ctx, id) {
		t.Fatal("delete failed")
	}
	if engine.GetSession(ctx, id, &p) {
		t.Fatal("session survived delete")
	}

	// Extending a session that never existed must report failure.
	if engine.ExtendSession(ctx, "ghost", time.Hour) {
		t.Fatal("extended a nonexistent session")
	}
}

func TestSessionExpiry(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	ctx := t.Context()

	id := NewSessionID()
	engine.SetSession(ctx, id, "payload", 5*time.Second)
	mr.FastForward(6 * time.Second)

	var s string
	if engine.GetSession(ctx, id, &s) {
		t.Fatal("expired session still readable")
	}
}

func TestRateLimitFixedWindow(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	ctx := t.Context()

	for want := int64(1); want <= 3; want++ {
		if got := engine.IncrementRateLimit(ctx, "10.0.0.1", time.Minute); got != want {
			t.Fatalf("count = %d, want %d", got, want)
		}
	}
	if got := engine.GetRateLimit(ctx, "10.0.0.1"); got != 3 {
		t.Fatalf("get = %d, want 3", got)
	}

	// Later hits never slide the window.
	mr.FastForward(30 * time.Second)
	engine.IncrementRateLimit(ctx, "10.0.0.1", time.Minute)
	if w := engine.RateLimitWindow(ctx, "10.0.0.1"); w > 30*time.Second {
		t.Fatalf("window slid to %v", w)
	}

	mr.FastForward(31 * time.Second)
	if got := engine.IncrementRateLimit(ctx, "10.0.0.1", time.Minute); got != 1 {
		t.Fatalf("count after window reset = %d, want 1", got)
	}
}

func TestRateLimitFailsOpenWhenStoreDown(t *testing.T) {
	engine, mr := newTestEngine(t, nil)
	mr.Close()

	if got := engine.IncrementRateLimit(t.Context(), "10.0.0.1", time.Minute); got != 0 {
		t.Fatalf("count with store down = %d, want 0", got)
	}
}

func TestQueueFIFO(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := t.Context()

	for _, job := range []string{"first", "second", "third"} {
		if !engine.AddToQueue(ctx, "emails", job) {
			t.Fatalf("push %q failed", job)
		}
	}
	if n := engine.GetQueueLength(ctx, "emails"); n != 3 {
		t.Fatalf("length = %d, want 3", n)
	}

	for _, want := range []string{"first", "second", "third"} {
		var job string
		if !engine.GetFromQueue(ctx, "emails", &job) {
			t.Fatalf("pop %q failed", want)
		}
		if job != want {
			t.Fatalf("popped %q, want %q", job, want)
		}
	}

	var job string
	if engine.GetFromQueue(ctx, "emails", &job) {
		t.Fatal("pop on drained queue reported success")
	}
	if n := engine.GetQueueLength(ctx, "emails"); n != 0 {
		t.Fatalf("drained length = %d", n)
	}
}

func TestMetricsSnapshotNamesEveryCounter(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	snap := engine.MetricsSnapshot()
	for _, name := range []string{
		"otp_generated", "otp_verified", "otp_invalid", "otp_exhausted",
		"otp_fallback", "otp_delivery_failed", "cache_hit", "cache_miss",
		"rate_limited", "token_revoked", "blacklist_hit",
	} {
		if _, ok := snap[name]; !ok {
			t.Fatalf("snapshot missing %q", name)
		}
	}
}

func TestHealthReportsStoreAndDurable(t *testing.T) {
	repo := newFakeRepo()
	engine, mr := newTestEngine(t, func(cfg *Config, b *Builder) {
		b.WithOTPRepository(repo)
	})
	ctx := t.Context()

	status := engine.Health(ctx)
	if !status.Store.Healthy {
		t.Fatalf("store unhealthy: %+v", status.Store)
	}
	if status.Durable != "ok" {
		t.Fatalf("durable = %q", status.Durable)
	}

	mr.Close()
	status = engine.Health(ctx)
	if status.Store.Healthy {
		t.Fatal("closed store reported healthy")
	}
}
