// Package session keeps per-session state alive between requests. Entries
// expire after a period of inactivity and are reclaimed by a background
// sweeper, so an abandoned chat does not pin its agent forever.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long a session survives without being touched.
	DefaultTTL = time.Hour
	// DefaultSweepInterval is how often the sweeper scans for dead sessions.
	DefaultSweepInterval = 5 * time.Minute
)

// Factory builds the value for a session on first access.
type Factory[T any] func(ctx context.Context, sessionID string) (T, error)

// Config controls expiry behaviour. Zero fields fall back to the defaults;
// a negative SweepInterval disables the background sweeper so expired
// entries are only reclaimed lazily or via EvictExpired.
type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type entry[T any] struct {
	value      T
	lastAccess time.Time
}

type buildResult[T any] struct {
	value   T
	created bool
}

// Cache maps session ids to values built by a Factory. Every read refreshes
// the entry's last-access time; entries idle longer than the TTL are treated
// as absent and rebuilt on next access.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]

	ttl     time.Duration
	factory Factory[T]
	group   singleflight.Group

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates a Cache and, unless disabled, starts its sweeper goroutine.
func New[T any](cfg Config, factory Factory[T]) *Cache[T] {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[T]{
		entries: make(map[string]*entry[T]),
		ttl:     cfg.TTL,
		factory: factory,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	if cfg.SweepInterval > 0 {
		go c.sweep(ctx, cfg.SweepInterval)
	} else {
		close(c.done)
	}
	return c
}

// GetOrCreate returns the session's value, building it with the factory when
// the session is new or its previous value has expired. The bool reports
// whether the value was built during this call, including waiters that
// shared the build. Concurrent calls for the same absent session share a
// single factory invocation; a factory error is returned to every waiter and
// nothing is stored.
func (c *Cache[T]) GetOrCreate(ctx context.Context, sessionID string) (T, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[sessionID]; ok && !c.expired(e, time.Now()) {
		e.lastAccess = time.Now()
		v := e.value
		c.mu.Unlock()
		return v, false, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(sessionID, func() (any, error) {
		// Re-check under the group: another call may have stored the value
		// between our miss and this closure running.
		c.mu.Lock()
		if e, ok := c.entries[sessionID]; ok && !c.expired(e, time.Now()) {
			e.lastAccess = time.Now()
			v := e.value
			c.mu.Unlock()
			return buildResult[T]{value: v}, nil
		}
		c.mu.Unlock()

		value, err := c.factory(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[sessionID] = &entry[T]{value: value, lastAccess: time.Now()}
		c.mu.Unlock()
		return buildResult[T]{value: value, created: true}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	r := v.(buildResult[T])
	return r.value, r.created, nil
}

// Contains reports whether the session currently holds a fresh value. It
// does not refresh the entry's last-access time.
func (c *Cache[T]) Contains(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	return ok && !c.expired(e, time.Now())
}

// Get returns the session's value without creating one, refreshing its
// last-access time on a hit.
func (c *Cache[T]) Get(sessionID string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	if !ok || c.expired(e, time.Now()) {
		var zero T
		return zero, false
	}
	e.lastAccess = time.Now()
	return e.value, true
}

// EvictExpired removes every entry idle longer than the TTL and returns how
// many were removed.
func (c *Cache[T]) EvictExpired() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for id, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Len counts the live entries, expired ones included until they are swept.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the sweeper and waits for it to exit. Safe to call more than
// once.
func (c *Cache[T]) Close() {
	c.once.Do(func() {
		c.cancel()
		<-c.done
	})
}

func (c *Cache[T]) expired(e *entry[T], now time.Time) bool {
	return now.Sub(e.lastAccess) > c.ttl
}

func (c *Cache[T]) sweep(ctx context.Context, interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.EvictExpired(); n > 0 {
				log.Printf("[session] evicted %d expired session(s), %d remaining", n, c.Len())
			}
		}
	}
}
