package ui

import (
	"hash/fnv"
	"math"
	"sync"
)

// RenderCache memoises rendered strings by a hash of their inputs. When full,
// the least recently used entry is evicted.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]*cacheEntry
	tick    uint64
	maxSize int
	hits    int
	misses  int
}

type cacheEntry struct {
	content  string
	lastUsed uint64
}

// NewRenderCache creates a cache holding at most maxSize entries.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &RenderCache{entries: make(map[uint64]*cacheEntry), maxSize: maxSize}
}

// ComputeKey hashes the inputs with FNV-1a. Strings, ints, float64s and
// bools contribute; other types are skipped.
func ComputeKey(inputs ...interface{}) uint64 {
	h := fnv.New64a()
	var b [8]byte
	put := func(u uint64) {
		for i := range b {
			b[i] = byte(u >> (8 * i))
		}
		h.Write(b[:])
	}
	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			put(uint64(len(v)))
			h.Write([]byte(v))
		case int:
			put(uint64(v))
		case float64:
			put(math.Float64bits(v))
		case bool:
			if v {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return h.Sum64()
}

// Get retrieves cached content if available.
func (rc *RenderCache) Get(key uint64) (string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	e, ok := rc.entries[key]
	if !ok {
		rc.misses++
		return "", false
	}
	rc.hits++
	rc.tick++
	e.lastUsed = rc.tick
	return e.content, true
}

// Set stores rendered content in the cache.
func (rc *RenderCache) Set(key uint64, content string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.tick++
	if e, ok := rc.entries[key]; ok {
		e.content, e.lastUsed = content, rc.tick
		return
	}
	if len(rc.entries) >= rc.maxSize {
		var oldest uint64
		var oldestTick uint64 = math.MaxUint64
		for k, e := range rc.entries {
			if e.lastUsed < oldestTick {
				oldest, oldestTick = k, e.lastUsed
			}
		}
		delete(rc.entries, oldest)
	}
	rc.entries[key] = &cacheEntry{content: content, lastUsed: rc.tick}
}

// GetOrCompute retrieves from cache or computes if missing.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	if content, ok := rc.Get(key); ok {
		return content
	}
	content := compute()
	rc.Set(key, content)
	return content
}

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// Stats returns hit and miss counts.
func (rc *RenderCache) Stats() (hits, misses int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits, rc.misses
}

// Clear empties the cache.
func (rc *RenderCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[uint64]*cacheEntry)
}
