package models

// Event names emitted to the UI collaborator, keyed by session ID.
const (
	EventChunk = "translate-chunk"
	EventUsage = "translate-usage"
	EventDone  = "translate-done"
	EventError = "translate-error"
)

// UsagePayload is the terminal usage/cost summary for one request.
type UsagePayload struct {
	SessionID     string  `json:"session_id"`
	InputTokens   int     `json:"input_tokens"`
	OutputTokens  int     `json:"output_tokens"`
	EstimatedCost float64 `json:"estimated_cost"`
	Cached        bool    `json:"cached"`
}
