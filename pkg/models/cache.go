package models

// CacheEntry stores one cached translation. SourcePreview is truncated and
// masked for diagnostics only; the full source text is never persisted.
type CacheEntry struct {
	SourceHash     string `json:"source_hash"`
	SourcePreview  string `json:"source_preview"`
	TranslatedText string `json:"translated_text"`
	Model          string `json:"model"`
	Timestamp      int64  `json:"timestamp"`
}

// CacheStats reports cache performance counters.
type CacheStats struct {
	EntryCount int   `json:"entry_count"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
}
