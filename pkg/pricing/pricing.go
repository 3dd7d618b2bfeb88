// Package pricing maps model identifiers to per-token prices and computes
// request cost from token counts.
package pricing

// Pricing holds USD prices per million tokens.
type Pricing struct {
	InputPerMillion  float64 `json:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million"`
}

// ModelInfo pairs a model identifier with its display name.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultModel is the model assumed when none is configured.
const DefaultModel = "claude-haiku-4-5-20251001"

// AvailableModels lists the models offered for selection.
var AvailableModels = []ModelInfo{
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5 (Fast, Cheap)"},
	{ID: "claude-sonnet-4-5-20250514", Name: "Claude Sonnet 4.5 (Best Quality)"},
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet"},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku"},
}

var prices = map[string]Pricing{
	"claude-haiku-4-5-20251001":  {InputPerMillion: 1.0, OutputPerMillion: 5.0},
	"claude-sonnet-4-5-20250514": {InputPerMillion: 3.0, OutputPerMillion: 15.0},
	"claude-3-5-sonnet-20241022": {InputPerMillion: 3.0, OutputPerMillion: 15.0},
	"claude-3-5-haiku-20241022":  {InputPerMillion: 0.8, OutputPerMillion: 4.0},
}

// fallback is the cheap default tier applied to unknown model identifiers.
var fallback = Pricing{InputPerMillion: 1.0, OutputPerMillion: 5.0}

// For returns the pricing for a model, falling back to the default cheap
// tier for unknown identifiers. It is total: every input yields a price.
func For(model string) Pricing {
	if p, ok := prices[model]; ok {
		return p
	}
	return fallback
}

// Cost computes the estimated USD cost of a request.
func Cost(inputTokens, outputTokens int, model string) float64 {
	p := For(model)
	inputCost := float64(inputTokens) / 1e6 * p.InputPerMillion
	outputCost := float64(outputTokens) / 1e6 * p.OutputPerMillion
	return inputCost + outputCost
}
