package cache

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/store"
)

func newTestCache(t *testing.T, cfg config.CacheConfig) *Cache {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatal(err)
	}
	return New(st, cfg)
}

func defaultCfg() config.CacheConfig {
	return config.CacheConfig{Enabled: true, MaxEntries: 100, TTL: 30 * 24 * time.Hour}
}

func TestStoreAndLookup(t *testing.T) {
	c := newTestCache(t, defaultCfg())

	if err := c.Store("hello", "こんにちは", "model-a"); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Lookup("hello", "model-a")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "こんにちは" {
		t.Errorf("unexpected translation: %s", got)
	}

	// Same text, different model is a miss.
	if _, ok := c.Lookup("hello", "model-b"); ok {
		t.Error("expected miss for different model")
	}
}

func TestLookupDisabledNoSideEffects(t *testing.T) {
	cfg := defaultCfg()
	cfg.Enabled = false
	c := newTestCache(t, cfg)

	if _, ok := c.Lookup("hello", "model-a"); ok {
		t.Error("expected miss when disabled")
	}
	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("disabled lookup must not touch stats: %+v", stats)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t, defaultCfg())

	base := time.Now()
	c.now = func() time.Time { return base }
	if err := c.Store("old text", "vieux", "model-a"); err != nil {
		t.Fatal(err)
	}

	// 31 days later the entry is stale.
	c.now = func() time.Time { return base.Add(31 * 24 * time.Hour) }
	if _, ok := c.Lookup("old text", "model-a"); ok {
		t.Error("expected expired entry to miss")
	}

	// The next write purges it.
	if err := c.Store("new text", "nouveau", "model-a"); err != nil {
		t.Fatal(err)
	}
	if got := c.Stats().EntryCount; got != 1 {
		t.Errorf("expected 1 entry after purge, got %d", got)
	}
}

func TestRefreshInPlace(t *testing.T) {
	c := newTestCache(t, defaultCfg())

	base := time.Now()
	c.now = func() time.Time { return base }
	if err := c.Store("text", "first", "model-a"); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return base.Add(time.Hour) }
	if err := c.Store("text", "second", "model-a"); err != nil {
		t.Fatal(err)
	}

	if got := c.Stats().EntryCount; got != 1 {
		t.Fatalf("expected 1 entry after refresh, got %d", got)
	}
	got, ok := c.Lookup("text", "model-a")
	if !ok || got != "second" {
		t.Errorf("expected refreshed translation, got %q ok=%v", got, ok)
	}
}

func TestEvictionOldestFirst(t *testing.T) {
	cfg := defaultCfg()
	cfg.MaxEntries = 3
	c := newTestCache(t, cfg)

	base := time.Now()
	for i := 0; i < 5; i++ {
		i := i
		c.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if err := c.Store(fmt.Sprintf("text-%d", i), fmt.Sprintf("out-%d", i), "model-a"); err != nil {
			t.Fatal(err)
		}
	}

	if got := c.Stats().EntryCount; got != 3 {
		t.Fatalf("expected capacity 3 after eviction, got %d", got)
	}

	c.now = func() time.Time { return base.Add(5 * time.Minute) }
	for i := 0; i < 2; i++ {
		if _, ok := c.Lookup(fmt.Sprintf("text-%d", i), "model-a"); ok {
			t.Errorf("expected oldest entry text-%d to be evicted", i)
		}
	}
	for i := 2; i < 5; i++ {
		if _, ok := c.Lookup(fmt.Sprintf("text-%d", i), "model-a"); !ok {
			t.Errorf("expected newest entry text-%d to survive", i)
		}
	}
}

func TestStatsCounters(t *testing.T) {
	c := newTestCache(t, defaultCfg())

	if err := c.Store("text", "out", "model-a"); err != nil {
		t.Fatal(err)
	}
	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("store must not touch hit/miss counters: %+v", stats)
	}

	c.Lookup("text", "model-a") // hit
	c.Lookup("other", "model-a") // miss

	stats = c.Stats()
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.EntryCount != 1 {
		t.Errorf("expected 1 entry, got %d", stats.EntryCount)
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t, defaultCfg())

	_ = c.Store("a", "x", "m")
	_ = c.Store("b", "y", "m")
	c.Lookup("a", "m")

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}

	stats := c.Stats()
	if stats.EntryCount != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("expected zeroed stats after clear: %+v", stats)
	}
	if _, ok := c.Lookup("a", "m"); ok {
		t.Error("expected miss after clear")
	}
}

func TestPurgeExpired(t *testing.T) {
	c := newTestCache(t, defaultCfg())

	base := time.Now()
	c.now = func() time.Time { return base }
	_ = c.Store("a", "x", "m")
	_ = c.Store("b", "y", "m")

	c.now = func() time.Time { return base.Add(31 * 24 * time.Hour) }
	_ = c.Store("c", "z", "m") // purges a and b on write

	c.now = func() time.Time { return base.Add(62 * 24 * time.Hour) }
	dropped, err := c.PurgeExpired()
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped entry, got %d", dropped)
	}
	if got := c.Stats().EntryCount; got != 0 {
		t.Errorf("expected empty cache, got %d entries", got)
	}
}
