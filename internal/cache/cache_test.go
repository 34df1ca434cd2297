package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(3310, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryValidity(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	m := NewMemory[string](2*time.Minute, clk.Now)

	if _, ok := m.Get(ctx, "SOL"); ok {
		t.Fatal("empty cache should miss")
	}
	m.Put(ctx, "SOL", Entry[string]{Value: "sol", FetchedAt: clk.Now()})
	e, ok := m.Get(ctx, "SOL")
	if !ok || e.Value != "sol" {
		t.Fatalf("Get = %+v, %v", e, ok)
	}
	if !m.IsValid(e) {
		t.Error("fresh entry should be valid")
	}
	clk.Advance(2*time.Minute - time.Second)
	if !m.IsValid(e) {
		t.Error("entry should be valid just before TTL")
	}
	clk.Advance(time.Second)
	if m.IsValid(e) {
		t.Error("entry should be invalid at exactly FetchedAt+TTL")
	}
	if _, ok := m.Get(ctx, "SOL"); !ok {
		t.Error("expired entries stay in their slot")
	}
}

func TestMemoryPutReplaces(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	m := NewMemory[[]string](time.Minute, clk.Now)
	m.Put(ctx, "K", Entry[[]string]{Value: []string{"a", "b"}, FetchedAt: clk.Now()})
	m.Put(ctx, "K", Entry[[]string]{Value: []string{"c"}, FetchedAt: clk.Now()})
	e, _ := m.Get(ctx, "K")
	if len(e.Value) != 1 || e.Value[0] != "c" {
		t.Errorf("Put should replace, got %v", e.Value)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestTieredPromotesFromSecond(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	a := NewMemory[int](time.Minute, clk.Now)
	b := NewMemory[int](time.Minute, clk.Now)
	tc := NewTiered[int](a, b)

	b.Put(ctx, "K", Entry[int]{Value: 7, FetchedAt: clk.Now()})
	e, ok := tc.Get(ctx, "K")
	if !ok || e.Value != 7 {
		t.Fatalf("Get = %+v, %v", e, ok)
	}
	if got, ok := a.Get(ctx, "K"); !ok || got.Value != 7 {
		t.Error("hit in second tier should be promoted")
	}
}

func TestTieredPrefersNewerSecond(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	a := NewMemory[int](time.Minute, clk.Now)
	b := NewMemory[int](time.Minute, clk.Now)
	tc := NewTiered[int](a, b)

	a.Put(ctx, "K", Entry[int]{Value: 1, FetchedAt: clk.Now()})
	clk.Advance(90 * time.Second)
	b.Put(ctx, "K", Entry[int]{Value: 2, FetchedAt: clk.Now()})

	e, ok := tc.Get(ctx, "K")
	if !ok || e.Value != 2 || !tc.IsValid(e) {
		t.Errorf("Get = %+v, %v; want fresh value 2", e, ok)
	}
}

func TestTieredStaleFirstWithoutSecond(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	a := NewMemory[int](time.Minute, clk.Now)
	tc := NewTiered[int](a, nil)

	tc.Put(ctx, "K", Entry[int]{Value: 1, FetchedAt: clk.Now()})
	clk.Advance(time.Hour)
	e, ok := tc.Get(ctx, "K")
	if !ok || e.Value != 1 {
		t.Fatalf("Get = %+v, %v", e, ok)
	}
	if tc.IsValid(e) {
		t.Error("stale entry should not be valid")
	}
}

func TestTieredPutWritesBoth(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	a := NewMemory[int](time.Minute, clk.Now)
	b := NewMemory[int](time.Minute, clk.Now)
	NewTiered[int](a, b).Put(ctx, "K", Entry[int]{Value: 3, FetchedAt: clk.Now()})
	if _, ok := a.Get(ctx, "K"); !ok {
		t.Error("first tier missing entry")
	}
	if _, ok := b.Get(ctx, "K"); !ok {
		t.Error("second tier missing entry")
	}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func TestRedisStoresJSONUnderPrefix(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mr, rc := newMiniredis(t)
	r := NewRedis[string](rc, "galaxy:system:", time.Minute, clk.Now)

	if _, ok := r.Get(ctx, "SOL"); ok {
		t.Fatal("empty redis should miss")
	}
	r.Put(ctx, "SOL", Entry[string]{Value: "sol", FetchedAt: clk.Now()})

	const key = "galaxy:system:SOL"
	if !mr.Exists(key) {
		t.Fatalf("key %q not written", key)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Errorf("redis ttl = %v, want 1m", ttl)
	}
	raw, err := mr.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	var stored Entry[string]
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Value != "sol" || !stored.FetchedAt.Equal(clk.Now()) {
		t.Errorf("stored = %q (%v)", raw, err)
	}

	e, ok := r.Get(ctx, "SOL")
	if !ok || e.Value != "sol" || !r.IsValid(e) {
		t.Fatalf("Get = %+v, %v", e, ok)
	}
	clk.Advance(time.Minute)
	if r.IsValid(e) {
		t.Error("entry should be invalid at exactly FetchedAt+TTL")
	}
}

func TestRedisKeyExpires(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mr, rc := newMiniredis(t)
	r := NewRedis[int](rc, "p:", time.Minute, clk.Now)
	r.Put(ctx, "K", Entry[int]{Value: 1, FetchedAt: clk.Now()})
	mr.FastForward(time.Minute)
	if _, ok := r.Get(ctx, "K"); ok {
		t.Error("expired key should miss")
	}
}

func TestRedisUndecodableIsMiss(t *testing.T) {
	mr, rc := newMiniredis(t)
	if err := mr.Set("p:K", "{not json"); err != nil {
		t.Fatal(err)
	}
	r := NewRedis[int](rc, "p:", time.Minute, nil)
	if _, ok := r.Get(context.Background(), "K"); ok {
		t.Error("undecodable value should miss")
	}
}

func TestTieredPromotesFromRedis(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	_, rc := newMiniredis(t)
	a := NewMemory[int](time.Minute, clk.Now)
	b := NewRedis[int](rc, "p:", time.Minute, clk.Now)
	b.Put(ctx, "K", Entry[int]{Value: 9, FetchedAt: clk.Now()})

	tiered := NewTiered[int](a, b)
	e, ok := tiered.Get(ctx, "K")
	if !ok || e.Value != 9 || !tiered.IsValid(e) {
		t.Fatalf("Get = %+v, %v", e, ok)
	}
	if got, ok := a.Get(ctx, "K"); !ok || got.Value != 9 {
		t.Error("redis hit should be promoted to memory")
	}
}

func TestRedisStoppedIsMiss(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	mr, rc := newMiniredis(t)
	r := NewRedis[int](rc, "p:", time.Minute, clk.Now)
	r.Put(ctx, "K", Entry[int]{Value: 1, FetchedAt: clk.Now()})
	mr.Close()

	if _, ok := r.Get(ctx, "K"); ok {
		t.Error("stopped redis should miss")
	}
	r.Put(ctx, "K", Entry[int]{Value: 2, FetchedAt: clk.Now()})

	tc := NewTiered[int](NewMemory[int](time.Minute, clk.Now), r)
	if _, ok := tc.Get(ctx, "K"); ok {
		t.Error("tiered over stopped redis should miss")
	}
	tc.Put(ctx, "K", Entry[int]{Value: 3, FetchedAt: clk.Now()})
	if e, ok := tc.Get(ctx, "K"); !ok || e.Value != 3 {
		t.Errorf("memory tier should still serve, got %+v, %v", e, ok)
	}
}
