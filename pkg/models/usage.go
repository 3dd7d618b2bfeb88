package models

import "time"

// TranslationRecord tracks one completed translation for the usage ledger.
type TranslationRecord struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	Cached       bool      `json:"cached"`
	CreatedAt    time.Time `json:"created_at"`
}

// ModelSummary aggregates ledger rows per model.
type ModelSummary struct {
	Model        string  `json:"model"`
	RequestCount int     `json:"request_count"`
	CacheHits    int     `json:"cache_hits"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}
