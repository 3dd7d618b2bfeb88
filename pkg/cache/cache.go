// Package cache is the content-addressed translation cache. Entries are
// keyed by (sha256(source), model), bounded by a 30-day TTL and a maximum
// entry count, and persisted synchronously in the JSON store.
package cache

import (
	"crypto/sha256"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/store"
)

const (
	entriesKey = "translation_cache"
	statsKey   = "cache_stats"
)

// Cache wraps the JSON store with translation-cache semantics. A single
// mutex makes each lookup and store read-modify-write cycle atomic with
// respect to concurrent requests.
type Cache struct {
	mu         sync.Mutex
	store      *store.Store
	enabled    bool
	maxEntries int
	ttl        time.Duration

	now func() time.Time // overridable in tests
}

// New creates a Cache over the given store.
func New(st *store.Store, cfg config.CacheConfig) *Cache {
	return &Cache{
		store:      st,
		enabled:    cfg.Enabled,
		maxEntries: cfg.MaxEntries,
		ttl:        cfg.TTL,
		now:        time.Now,
	}
}

// SetEnabled toggles caching at runtime. Entries are kept; a disabled
// cache simply stops serving and recording them.
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

// HashText computes the cache key digest of a source text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum)
}

// Lookup returns the cached translation for (text, model) if present and
// not expired. Hit/miss counters are bumped on every call; when caching is
// disabled it returns immediately with no side effects.
func (c *Cache) Lookup(text, model string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return "", false
	}

	hash := HashText(text)
	now := c.now().Unix()

	var translated string
	var hit bool
	for _, e := range c.entries() {
		if e.SourceHash == hash && e.Model == model && now-e.Timestamp < int64(c.ttl.Seconds()) {
			translated = e.TranslatedText
			hit = true
			break
		}
	}

	stats := c.stats()
	if hit {
		stats.Hits++
	} else {
		stats.Misses++
	}
	if err := c.store.Set(statsKey, stats); err != nil {
		log.Printf("cache: persist stats: %v", err)
	}

	return translated, hit
}

// Store saves a translation. Expired entries are purged first; an existing
// (hash, model) entry is refreshed in place; above capacity the oldest
// entries by timestamp are evicted. The store file is written before Store
// returns. A no-op when caching is disabled.
func (c *Cache) Store(text, translatedText, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return nil
	}

	hash := HashText(text)
	now := c.now().Unix()

	entries := c.entries()

	// Drop expired entries.
	kept := entries[:0]
	for _, e := range entries {
		if now-e.Timestamp < int64(c.ttl.Seconds()) {
			kept = append(kept, e)
		}
	}
	entries = kept

	refreshed := false
	for i := range entries {
		if entries[i].SourceHash == hash && entries[i].Model == model {
			entries[i].Timestamp = now
			entries[i].TranslatedText = translatedText
			refreshed = true
			break
		}
	}
	if !refreshed {
		entries = append(entries, models.CacheEntry{
			SourceHash:     hash,
			SourcePreview:  safePreview(text),
			TranslatedText: translatedText,
			Model:          model,
			Timestamp:      now,
		})
	}

	// Evict oldest-by-timestamp above capacity. Lookups never refresh a
	// timestamp, so this stays a write-time eviction order.
	if c.maxEntries > 0 && len(entries) > c.maxEntries {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp > entries[j].Timestamp
		})
		entries = entries[:c.maxEntries]
	}

	stats := c.stats()
	stats.EntryCount = len(entries)

	return c.store.SetAll(map[string]any{
		entriesKey: entries,
		statsKey:   stats,
	})
}

// PurgeExpired removes entries past the TTL and returns how many were
// dropped. Used by the scheduled maintenance job.
func (c *Cache) PurgeExpired() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return 0, nil
	}

	entries := c.entries()
	now := c.now().Unix()

	kept := entries[:0]
	for _, e := range entries {
		if now-e.Timestamp < int64(c.ttl.Seconds()) {
			kept = append(kept, e)
		}
	}
	dropped := len(entries) - len(kept)
	if dropped == 0 {
		return 0, nil
	}

	stats := c.stats()
	stats.EntryCount = len(kept)

	err := c.store.SetAll(map[string]any{
		entriesKey: kept,
		statsKey:   stats,
	})
	return dropped, err
}

// Stats returns the current cache counters.
func (c *Cache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats()
}

// Clear removes all entries and resets the counters.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.SetAll(map[string]any{
		entriesKey: []models.CacheEntry{},
		statsKey:   models.CacheStats{},
	})
}

// entries loads the persisted entry list. Callers must hold c.mu.
func (c *Cache) entries() []models.CacheEntry {
	var entries []models.CacheEntry
	if _, err := c.store.Get(entriesKey, &entries); err != nil {
		log.Printf("cache: load entries: %v", err)
	}
	return entries
}

// stats loads the persisted counters. Callers must hold c.mu.
func (c *Cache) stats() models.CacheStats {
	var stats models.CacheStats
	if _, err := c.store.Get(statsKey, &stats); err != nil {
		log.Printf("cache: load stats: %v", err)
	}
	return stats
}
