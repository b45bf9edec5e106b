package media

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultCacheCapacity bounds how many decoded clips stay resident. A decoded
// entry for a typical lesson clip runs tens of megabytes.
const DefaultCacheCapacity = 10

// DecodeCache memoizes decoded audio by content fingerprint.
//
// Concurrent Gets for one key coalesce onto a single decode and every caller
// observes the same *Audio. When the cache grows past its capacity the oldest
// entry by insertion order is evicted. A failed decode is never stored, so
// the next request for that key decodes again.
type DecodeCache struct {
	capacity int
	logger   *slog.Logger

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string // insertion order, oldest first; may hold stale keys
}

type cacheEntry struct {
	done  chan struct{}
	audio *Audio
	err   error
}

// NewDecodeCache creates a cache bounded to capacity entries. A capacity <= 0
// uses DefaultCacheCapacity; a nil logger uses slog.Default().
func NewDecodeCache(capacity int, logger *slog.Logger) *DecodeCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DecodeCache{
		capacity: capacity,
		logger:   logger,
		entries:  make(map[string]*cacheEntry),
	}
}

// Get returns the decoded audio for blob, decoding each fingerprint at most
// once however many callers ask concurrently. The context only bounds the
// wait for an in-flight decode started by another caller.
func (c *DecodeCache) Get(ctx context.Context, blob []byte) (*Audio, error) {
	key := Fingerprint(blob)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.wait(ctx)
	}
	e := &cacheEntry{done: make(chan struct{})}
	c.entries[key] = e
	c.order = append(c.order, key)
	c.evictLocked()
	c.mu.Unlock()

	e.audio, e.err = Decode(blob)
	if e.err != nil {
		c.mu.Lock()
		c.removeLocked(key, e)
		c.mu.Unlock()
		c.logger.Debug("media: decode failed, not cached", "key", key, "err", e.err)
	}
	close(e.done)
	return e.audio, e.err
}

// Len returns the number of resident entries.
func (c *DecodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (e *cacheEntry) wait(ctx context.Context) (*Audio, error) {
	select {
	case <-e.done:
		return e.audio, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *DecodeCache) evictLocked() {
	for len(c.entries) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			c.logger.Debug("media: decode cache evicted", "key", oldest)
		}
	}
}

// removeLocked drops the entry for key only if the map still holds e; the
// slot may have been evicted and re-filled while e was decoding.
func (c *DecodeCache) removeLocked(key string, e *cacheEntry) {
	cur, ok := c.entries[key]
	if !ok || cur != e {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
