package openweather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
)

// Fetcher is the contract CachedFetcher decorates; *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64, apiKey string) (domain.Forecast, error)
}

// CachedFetcher wraps a Fetcher with an in-memory LRU cache keyed by position.
// Entries expire after ttl so a later run never reuses a stale forecast.
type CachedFetcher struct {
	inner Fetcher
	ttl   time.Duration
	cache *lruCache
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner Fetcher, maxEntries int, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		inner: inner,
		ttl:   ttl,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, lat, lon float64, apiKey string) (domain.Forecast, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)
	now := domain.Now()
	if fc, ok := c.cache.get(key, now); ok {
		return fc, nil
	}
	fc, err := c.inner.Fetch(ctx, lat, lon, apiKey)
	if err != nil {
		// Failures are not cached so the next run retries the provider.
		return fc, err
	}
	c.cache.put(key, fc, now.Add(c.ttl))
	return fc, nil
}

// lruCache is a thread-safe LRU cache of forecasts with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.Forecast
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string, now time.Time) (domain.Forecast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Forecast{}, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.Forecast{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Forecast, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
