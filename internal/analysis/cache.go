package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// ResultCache deduplicates analyses of the same image bytes within a
// session. Keys are content hashes, so re-uploading the same photo
// never pays for a second fallback call. Entries live for the process
// lifetime by default.
type ResultCache struct {
	cache     *cache.Cache
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a cache; ttl <= 0 means entries never expire.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &ResultCache{cache: cache.New(ttl, 10*time.Minute)}
}

// CacheKey hashes image content into a cache key.
func CacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cached analysis result.
func (rc *ResultCache) Get(key string) *AnalysisResult {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if v, found := rc.cache.Get(key); found {
		rc.hitCount++
		rc.updateMetrics()
		if result, ok := v.(*AnalysisResult); ok {
			return result
		}
	}
	rc.missCount++
	rc.updateMetrics()
	return nil
}

// Set stores an analysis result.
func (rc *ResultCache) Set(key string, result *AnalysisResult) {
	rc.cache.SetDefault(key, result)
}

// Clear flushes the cache and resets counters.
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns hit/miss counts and the hit ratio.
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.stats()
}

func (rc *ResultCache) stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached results.
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}

func (rc *ResultCache) updateMetrics() {
	_, _, ratio := rc.stats()
	CacheHitRatio.Set(ratio)
}
