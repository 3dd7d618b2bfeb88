package models

// ErrorRecord is one entry of the diagnostics error history. It carries the
// input length, never the input content.
type ErrorRecord struct {
	Timestamp   int64  `json:"timestamp"`
	Kind        string `json:"error_type"`
	Message     string `json:"error_message"`
	InputLength int    `json:"input_length"`
	Model       string `json:"model"`
}
