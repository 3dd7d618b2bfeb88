package models

// Message represents a single message in the outbound request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CacheControl is the prompt-caching hint attached to a system block.
type CacheControl struct {
	Type string `json:"type"`
}

// SystemBlock is one block of system instructions.
type SystemBlock struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *CacheControl `json:"cache_control,omitempty"`
}

// MessageRequest is the outbound payload for the completion endpoint.
type MessageRequest struct {
	Model       string        `json:"model"`
	Messages    []Message     `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
	System      []SystemBlock `json:"system"`
	Temperature float64       `json:"temperature"`
}

// Usage holds token counts reported by the endpoint.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ContentDelta is the incremental text carried by a content_block_delta event.
type ContentDelta struct {
	Type string  `json:"type,omitempty"`
	Text *string `json:"text,omitempty"`
}

// StreamEvent is one decoded SSE data payload. Unknown fields are ignored
// so new event kinds from the endpoint never break decoding.
type StreamEvent struct {
	Type  string        `json:"type"`
	Index *int          `json:"index,omitempty"`
	Delta *ContentDelta `json:"delta,omitempty"`
	Usage *Usage        `json:"usage,omitempty"`
}

// ContentBlock is one block of a non-streaming response body.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessageResponse is the complete non-streaming response body.
type MessageResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      *Usage         `json:"usage,omitempty"`
}

// ErrorEnvelope is the structured error body returned by the endpoint.
// Only error.message is ever surfaced to users.
type ErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
