package pdf

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matidigital/Contapyme-sub001/internal/f29"
)

func TestReportCache_Eviction(t *testing.T) {
	cache := newReportCache(2)

	cache.put("a", &ExtractResult{TextLength: 1})
	cache.put("b", &ExtractResult{TextLength: 2})

	// touching "a" makes "b" the oldest
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", &ExtractResult{TextLength: 3})
	assert.Equal(t, 2, cache.len())

	_, ok = cache.get("b")
	assert.False(t, ok, "least recently used entry should be evicted")

	got, ok := cache.get("c")
	require.True(t, ok)
	assert.Equal(t, 3, got.TextLength)

	hits, misses := cache.stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestReportCache_Update(t *testing.T) {
	cache := newReportCache(0)
	assert.Equal(t, defaultReportCacheSize, cache.capacity)

	cache.put("k", &ExtractResult{TextLength: 1})
	cache.put("k", &ExtractResult{TextLength: 9})

	got, ok := cache.get("k")
	require.True(t, ok)
	assert.Equal(t, 9, got.TextLength)
	assert.Equal(t, 1, cache.len())
}

func TestReportCache_Concurrent(t *testing.T) {
	cache := newReportCache(8)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			cache.put(key, &ExtractResult{Report: &f29.Report{RunID: key}})
			cache.get(key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.len(), 8)
}

func TestContentKey(t *testing.T) {
	assert.Equal(t, contentKey([]byte("abc")), contentKey([]byte("abc")))
	assert.NotEqual(t, contentKey([]byte("abc")), contentKey([]byte("abd")))
	assert.Len(t, contentKey(nil), 64)
}
