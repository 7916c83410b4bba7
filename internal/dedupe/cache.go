// ABOUTME: Thread-safe TTL cache mapping upload content digests to stored paths.
// ABOUTME: Lets repeated uploads of identical bytes share one file on disk.

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// cacheEntry stores the stored path, timestamp, and list element for a digest.
type cacheEntry struct {
	src       string
	timestamp time.Time
	element   *list.Element
}

// Cache provides a thread-safe, TTL-based, size-limited cache mapping content
// digests to stored file paths. The upload handler consults it so identical
// bytes uploaded within the window reuse one file instead of writing a copy.
// Uses a doubly-linked list to maintain insertion order for O(1) eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   *list.List // List of digests in insertion order (oldest at front)
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a dedupe cache with the specified TTL and maximum size.
// A background goroutine periodically cleans up expired entries.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Lookup returns the stored path for a digest if it is cached and not
// expired. A hit refreshes the entry's timestamp so actively reused content
// stays cached.
func (c *Cache) Lookup(digest string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[digest]
	if !ok || time.Since(entry.timestamp) >= c.ttl {
		return "", false
	}

	entry.timestamp = time.Now()
	c.order.MoveToBack(entry.element)
	return entry.src, true
}

// Remember records the stored path for a digest. If the cache is at
// capacity, the oldest entry is evicted to make room.
func (c *Cache) Remember(digest, src string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	// If the digest already exists, update in place and move to back
	if entry, exists := c.entries[digest]; exists {
		entry.src = src
		entry.timestamp = now
		c.order.MoveToBack(entry.element)
		return
	}

	// Evict oldest if at capacity
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(digest)
	c.entries[digest] = &cacheEntry{
		src:       src,
		timestamp: now,
		element:   elem,
	}
}

// evictOldest removes the oldest entry from the cache.
// Must be called with mu held. O(1) operation using linked list.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	digest, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, digest)
}

// cleanup runs in a background goroutine, periodically removing expired entries.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

// runCleanup removes all expired entries from the cache.
func (c *Cache) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for digest, entry := range c.entries {
		if now.Sub(entry.timestamp) > c.ttl {
			c.order.Remove(entry.element)
			delete(c.entries, digest)
		}
	}
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
