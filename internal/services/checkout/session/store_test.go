package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/credix-checkout/internal/checkout"
	"github.com/shopspring/decimal"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testCart(t *testing.T) checkout.Cart {
	t.Helper()
	cart, err := checkout.NewCart([]checkout.CartItem{{SKU: "a", Name: "A", Price: decimal.NewFromInt(10), Quantity: 1}})
	if err != nil {
		t.Fatalf("NewCart() error = %v", err)
	}
	return cart
}

func sequentialIDs() func() string {
	ids := []string{"s-1", "s-2", "s-3", "s-4"}
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[next]
		next++
		return id
	}
}

func TestGetOrCreateReusesLiveSession(t *testing.T) {
	t.Parallel()

	store := NewStore(testCart(t), WithIDGenerator(sequentialIDs()))
	id, first, created := store.GetOrCreate("")
	if !created || id != "s-1" {
		t.Fatalf("GetOrCreate(\"\") = %q created=%v, want s-1 created", id, created)
	}
	again, second, created := store.GetOrCreate(" s-1 ")
	if created || again != "s-1" || second != first {
		t.Fatalf("GetOrCreate(s-1) = %q created=%v same=%v", again, created, second == first)
	}
	if got := len(second.View().Cart); got != 1 {
		t.Fatalf("cart lines = %d, want 1", got)
	}
}

func TestGetOrCreateReplacesUnknownSession(t *testing.T) {
	t.Parallel()

	store := NewStore(testCart(t), WithIDGenerator(sequentialIDs()))
	id, _, created := store.GetOrCreate("forged")
	if !created || id != "s-1" {
		t.Fatalf("GetOrCreate(forged) = %q created=%v, want fresh s-1", id, created)
	}
	if _, ok := store.Get("forged"); ok {
		t.Fatal("forged id was stored")
	}
}

func TestIdleSessionsExpire(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(testCart(t), WithIdleTTL(time.Minute), WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	id, _, _ := store.GetOrCreate("")

	clock.Advance(50 * time.Second)
	if _, ok := store.Get(id); !ok {
		t.Fatal("session expired before ttl")
	}
	clock.Advance(50 * time.Second)
	if _, ok := store.Get(id); !ok {
		t.Fatal("access did not refresh idle timer")
	}
	clock.Advance(time.Minute)
	if _, ok := store.Get(id); ok {
		t.Fatal("session survived past ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after lazy eviction", store.Len())
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(testCart(t), WithIdleTTL(time.Minute), WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	store.GetOrCreate("")
	clock.Advance(2 * time.Minute)
	store.GetOrCreate("")

	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("Sweep() = %d, want 1", removed)
	}
	if _, ok := store.Get("s-2"); !ok {
		t.Fatal("fresh session was swept")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := NewStore(testCart(t))
	id, _, _ := store.GetOrCreate("")
	store.Delete(id)
	if _, ok := store.Get(id); ok {
		t.Fatal("deleted session still present")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := NewStore(testCart(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestGetOrCreateEvictsLeastRecentWhenFull(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(testCart(t), WithIDGenerator(sequentialIDs()), WithClock(clock.Now), WithMaxSessions(2))
	store.GetOrCreate("")
	clock.Advance(time.Minute)
	store.GetOrCreate("")
	clock.Advance(time.Minute)
	if _, ok := store.Get("s-1"); !ok {
		t.Fatal("Get(s-1) ok = false, want true")
	}
	clock.Advance(time.Minute)

	id, _, created := store.GetOrCreate("")
	if !created || id != "s-3" {
		t.Fatalf("GetOrCreate(\"\") = %q created=%v, want s-3 created", id, created)
	}
	if got := store.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if _, ok := store.Get("s-2"); ok {
		t.Fatal("least recently seen session s-2 survived")
	}
	if _, ok := store.Get("s-1"); !ok {
		t.Fatal("recently seen session s-1 was evicted")
	}
}

func TestGetOrCreateDropsExpiredBeforeEvicting(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(testCart(t),
		WithIDGenerator(sequentialIDs()),
		WithClock(clock.Now),
		WithIdleTTL(5*time.Minute),
		WithMaxSessions(3),
	)
	store.GetOrCreate("")
	store.GetOrCreate("")
	clock.Advance(6 * time.Minute)
	store.GetOrCreate("")
	store.GetOrCreate("")

	if got := store.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	for _, id := range []string{"s-3", "s-4"} {
		if _, ok := store.Get(id); !ok {
			t.Fatalf("Get(%s) ok = false, want true", id)
		}
	}
}
