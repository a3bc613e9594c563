package pdf

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// defaultReportCacheSize bounds how many declarations keep their report
const defaultReportCacheSize = 32

// reportCache is a thread-safe LRU of extraction results keyed by the
// SHA-256 of the declaration bytes. Cached results are shared and must not be
// modified; callers copy before setting per-request fields.
type reportCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	items    map[string]*list.Element
	hits     int64
	misses   int64
}

type cacheEntry struct {
	key    string
	result *ExtractResult
}

func newReportCache(capacity int) *reportCache {
	if capacity <= 0 {
		capacity = defaultReportCacheSize
	}
	return &reportCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// contentKey identifies a declaration by its bytes, whatever its path
func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *reportCache) get(key string) (*ExtractResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		c.hits++
		return el.Value.(*cacheEntry).result, true
	}
	c.misses++
	return nil, false
}

func (c *reportCache) put(key string, result *ExtractResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, result: result})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *reportCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// stats returns hit and miss counts
func (c *reportCache) stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
