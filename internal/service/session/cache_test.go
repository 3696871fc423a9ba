package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oakview/vacationdesk/internal/service/session"
)

// lazyConfig disables the background sweeper so tests control expiry.
func lazyConfig(ttl time.Duration) session.Config {
	return session.Config{TTL: ttl, SweepInterval: -1}
}

func TestGetOrCreateBuildsOncePerSession(t *testing.T) {
	var calls atomic.Int32
	cache := session.New(lazyConfig(time.Minute), func(_ context.Context, id string) (string, error) {
		calls.Add(1)
		return "agent-" + id, nil
	})
	defer cache.Close()
	ctx := context.Background()

	v, created, err := cache.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if !created {
		t.Fatal("expected first access to create the value")
	}
	if v != "agent-s1" {
		t.Fatalf("unexpected value: %s", v)
	}

	v, created, err = cache.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if created {
		t.Fatal("second access must reuse the cached value")
	}
	if v != "agent-s1" {
		t.Fatalf("unexpected value on reuse: %s", v)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("factory ran %d times, want 1", n)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	cache := session.New(lazyConfig(time.Minute), func(_ context.Context, id string) (string, error) {
		return "agent-" + id, nil
	})
	defer cache.Close()
	ctx := context.Background()

	a, _, _ := cache.GetOrCreate(ctx, "alice")
	b, _, _ := cache.GetOrCreate(ctx, "bob")
	if a == b {
		t.Fatalf("sessions must not share values: %s", a)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", cache.Len())
	}
}

func TestConcurrentFirstAccessSharesOneBuild(t *testing.T) {
	var calls atomic.Int32
	cache := session.New(lazyConfig(time.Minute), func(_ context.Context, id string) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond) // widen the race window
		return "shared-" + id, nil
	})
	defer cache.Close()

	const workers = 16
	var wg sync.WaitGroup
	results := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := cache.GetOrCreate(context.Background(), "hot")
			if err != nil {
				t.Errorf("GetOrCreate err: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("factory ran %d times for one session, want 1", n)
	}
	for i, v := range results {
		if v != "shared-hot" {
			t.Fatalf("worker %d got %q", i, v)
		}
	}
}

func TestFactoryErrorStoresNothing(t *testing.T) {
	boom := errors.New("model unavailable")
	var calls atomic.Int32
	cache := session.New(lazyConfig(time.Minute), func(_ context.Context, _ string) (string, error) {
		if calls.Add(1) == 1 {
			return "", boom
		}
		return "recovered", nil
	})
	defer cache.Close()
	ctx := context.Background()

	if _, _, err := cache.GetOrCreate(ctx, "s1"); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if cache.Contains("s1") {
		t.Fatal("failed build must not be cached")
	}

	v, created, err := cache.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("retry err: %v", err)
	}
	if !created || v != "recovered" {
		t.Fatalf("expected a fresh build after failure, got created=%v value=%q", created, v)
	}
}

func TestExpiredEntryIsRebuilt(t *testing.T) {
	var calls atomic.Int32
	cache := session.New(lazyConfig(40*time.Millisecond), func(_ context.Context, _ string) (string, error) {
		return fmt.Sprintf("gen-%d", calls.Add(1)), nil
	})
	defer cache.Close()
	ctx := context.Background()

	first, _, err := cache.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	if cache.Contains("s1") {
		t.Fatal("expired session must not report as present")
	}
	if _, ok := cache.Get("s1"); ok {
		t.Fatal("Get must never return an expired value")
	}

	second, created, err := cache.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if !created {
		t.Fatal("expected a rebuild after expiry")
	}
	if second == first {
		t.Fatal("rebuild must produce a new value")
	}
}

func TestAccessRefreshesTTL(t *testing.T) {
	cache := session.New(lazyConfig(60*time.Millisecond), func(_ context.Context, _ string) (string, error) {
		return "sticky", nil
	})
	defer cache.Close()
	ctx := context.Background()

	if _, _, err := cache.GetOrCreate(ctx, "s1"); err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	// Keep touching at intervals shorter than the TTL; total elapsed time
	// exceeds it, so the entry survives only if reads refresh last access.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, created, err := cache.GetOrCreate(ctx, "s1"); err != nil || created {
			t.Fatalf("iteration %d: created=%v err=%v, want a plain hit", i, created, err)
		}
	}
}

func TestEvictExpiredRemovesOnlyStale(t *testing.T) {
	cache := session.New(lazyConfig(50*time.Millisecond), func(_ context.Context, id string) (string, error) {
		return id, nil
	})
	defer cache.Close()
	ctx := context.Background()

	cache.GetOrCreate(ctx, "old")
	time.Sleep(70 * time.Millisecond)
	cache.GetOrCreate(ctx, "fresh")

	if n := cache.EvictExpired(); n != 1 {
		t.Fatalf("evicted %d entries, want 1", n)
	}
	if cache.Contains("old") {
		t.Fatal("stale session should be gone")
	}
	if !cache.Contains("fresh") {
		t.Fatal("fresh session should survive eviction")
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 entry after eviction, got %d", cache.Len())
	}
}

func TestSweeperReclaimsInBackground(t *testing.T) {
	cache := session.New(session.Config{TTL: 30 * time.Millisecond, SweepInterval: 20 * time.Millisecond},
		func(_ context.Context, id string) (string, error) { return id, nil })
	defer cache.Close()

	cache.GetOrCreate(context.Background(), "s1")

	deadline := time.Now().Add(time.Second)
	for cache.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper never reclaimed the entry, Len=%d", cache.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	cache := session.New(session.Config{TTL: time.Minute, SweepInterval: time.Millisecond},
		func(_ context.Context, id string) (string, error) { return id, nil })

	cache.Close()
	cache.Close()
}
