package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store caches rendered list responses. Misses and backend failures look the
// same to callers: the handler just goes to the database.
//
// Generation and Bump version a namespace: readers put the current
// generation into their keys, so a page loaded before a Bump is written under
// a key nobody reads anymore. ok=false means the generation is unknown and the
// caller must not cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	DeletePrefix(ctx context.Context, prefix string)
	Generation(ctx context.Context, name string) (gen int64, ok bool)
	Bump(ctx context.Context, name string)
}

const defaultMaxEntries = 1024

// Cache is the in-process Store. Entries expire after the TTL; once
// maxEntries is reached, expired entries are swept and, failing that, the
// entry closest to expiry is evicted.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry
	gens       map[string]int64
	now        func() time.Time
}

type entry struct {
	val       []byte
	expiresAt time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		entries:    make(map[string]entry),
		gens:       make(map[string]int64),
		now:        time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return e.val, true
}

func (c *Cache) Set(_ context.Context, key string, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.makeRoom(now)
	}

	c.entries[key] = entry{
		val:       append([]byte(nil), val...),
		expiresAt: now.Add(c.ttl),
	}
}

func (c *Cache) makeRoom(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.expiresAt
		}
	}

	if len(c.entries) >= c.maxEntries && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) DeletePrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) Generation(_ context.Context, name string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[name], true
}

func (c *Cache) Bump(_ context.Context, name string) {
	c.mu.Lock()
	c.gens[name]++
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Nop never stores anything; used when CACHE_DRIVER=none.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)       { return nil, false }
func (Nop) Set(context.Context, string, []byte)              {}
func (Nop) DeletePrefix(context.Context, string)             {}
func (Nop) Generation(context.Context, string) (int64, bool) { return 0, false }
func (Nop) Bump(context.Context, string)                     {}
