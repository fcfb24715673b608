package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	c := New(Config{Addr: mr.Addr(), MaxRetries: 3, RetryBase: time.Millisecond})
	if err := c.Connect(context.Background()); err != nil {
		mr.Close()
		t.Fatalf("connect: %v", err)
	}
	return c, mr, func() {
		c.Close()
		mr.Close()
	}
}

type payload struct {
	Email string `json:"email"`
	Count int    `json:"count"`
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	in := payload{Email: "a@x.com", Count: 7}
	if err := c.Set(ctx, "k1", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	found, err := c.Get(ctx, "k1", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist")
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestSetRejectsNonPositiveTTL(t *testing.T) {
	c, mr, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Second} {
		err := c.Set(ctx, "bad", "v", ttl)
		if !errors.Is(err, ErrInvalidTTL) {
			t.Fatalf("ttl %v: expected ErrInvalidTTL, got %v", ttl, err)
		}
	}
	if mr.Exists("bad") {
		t.Fatal("rejected set must not write the key")
	}
}

func TestGetMissIsNotAnError(t *testing.T) {
	c, _, done := newTestClient(t)
	defer done()

	var out string
	found, err := c.Get(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("get miss: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestOperationsShortCircuitWhenDisconnected(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:0"})
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("set: expected ErrNotConnected, got %v", err)
	}
	var out string
	if _, err := c.Get(ctx, "k", &out); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("get: expected ErrNotConnected, got %v", err)
	}
	if _, err := c.Incr(ctx, "k"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("incr: expected ErrNotConnected, got %v", err)
	}
}

func TestCanceledContextDoesNotPoisonClient(t *testing.T) {
	c, _, done := newTestClient(t)
	defer done()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	var out string
	if _, err := c.Get(canceled, "k", &out); err == nil {
		t.Fatal("expected error from canceled context")
	}
	if c.State() != StateConnected {
		t.Fatalf("caller cancellation changed state to %v", c.State())
	}

	// The next operation with a healthy context must go through.
	ctx := context.Background()
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set after canceled op: %v", err)
	}
	found, err := c.Get(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get after canceled op: %v", err)
	}
	if !found || out != "v" {
		t.Fatalf("round trip after canceled op: found=%v out=%q", found, out)
	}
}

func TestClientRecoversAfterOutage(t *testing.T) {
	c, mr, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	mr.Close()
	if err := c.Set(ctx, "k", "v", time.Minute); err == nil {
		t.Fatal("expected error while store is down")
	}
	if c.State() != StateDisconnected {
		t.Fatalf("outage not observed, state %v", c.State())
	}

	if err := mr.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	time.Sleep(2 * time.Millisecond) // past the probe throttle (RetryBase 1ms)

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set after recovery: %v", err)
	}
	if c.State() != StateConnected {
		t.Fatalf("recovery not observed, state %v", c.State())
	}
}

func TestServerErrorReplyKeepsConnection(t *testing.T) {
	c, mr, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	mr.SetError("LOADING Redis is loading the dataset in memory")
	var out string
	if _, err := c.Get(ctx, "k", &out); err == nil {
		t.Fatal("expected error reply to surface")
	}
	if c.State() != StateConnected {
		t.Fatalf("error reply changed state to %v", c.State())
	}

	mr.SetError("")
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set after error reply: %v", err)
	}
}

func TestConnectExhaustsRetryBudget(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:1", MaxRetries: 2, RetryBase: time.Millisecond})

	err := c.Connect(context.Background())
	if !errors.Is(err, ErrConnectionExhausted) {
		t.Fatalf("expected ErrConnectionExhausted, got %v", err)
	}
	if c.State() != StateDisconnected {
		t.Fatalf("expected disconnected state, got %v", c.State())
	}
}

func TestStateTransitionsObservable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()

	c := New(Config{Addr: mr.Addr(), MaxRetries: 1})
	var seen []State
	c.OnStateChange = func(s State) { seen = append(seen, s) }

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	want := []State{StateConnecting, StateConnected, StateDisconnected}
	if len(seen) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestExpiryRemovesKey(t *testing.T) {
	c, mr, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	if err := c.Set(ctx, "short", "v", 10*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	ttl, err := c.TTL(ctx, "short")
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > 10*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	mr.FastForward(11 * time.Second)

	var out string
	found, err := c.Get(ctx, "short", &out)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if found {
		t.Fatal("expected key to be gone after ttl")
	}
}

func TestIncrIsMonotonic(t *testing.T) {
	c, _, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		n, err := c.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if n != want {
			t.Fatalf("expected %d, got %d", want, n)
		}
	}
}

func TestListFIFO(t *testing.T) {
	c, _, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	for _, v := range []string{"first", "second", "third"} {
		if err := c.LPush(ctx, "q", v); err != nil {
			t.Fatalf("lpush: %v", err)
		}
	}
	if n, err := c.LLen(ctx, "q"); err != nil || n != 3 {
		t.Fatalf("llen: n=%d err=%v", n, err)
	}

	var got string
	for _, want := range []string{"first", "second", "third"} {
		found, err := c.RPop(ctx, "q", &got)
		if err != nil {
			t.Fatalf("rpop: %v", err)
		}
		if !found || got != want {
			t.Fatalf("expected %q, got %q (found=%v)", want, got, found)
		}
	}

	found, err := c.RPop(ctx, "q", &got)
	if err != nil {
		t.Fatalf("rpop empty: %v", err)
	}
	if found {
		t.Fatal("expected empty queue to report a miss")
	}
	if n, err := c.LLen(ctx, "q"); err != nil || n != 0 {
		t.Fatalf("llen after drain: n=%d err=%v", n, err)
	}
}
