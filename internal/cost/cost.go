package cost

// Model pricing in USD per 1M tokens.
var modelPricing = map[string]struct {
	Input  float64
	Output float64
}{
	"gpt-4o":                 {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":            {Input: 0.15, Output: 0.60},
	"gpt-4-turbo":            {Input: 10.00, Output: 30.00},
	"gpt-3.5-turbo":          {Input: 0.50, Output: 1.50},
	"text-embedding-3-small": {Input: 0.02, Output: 0.0},
	"text-embedding-3-large": {Input: 0.13, Output: 0.0},
	"claude-3-5-sonnet":      {Input: 3.00, Output: 15.00},
	"claude-3-5-haiku":       {Input: 0.80, Output: 4.00},
}

// Calculate returns the USD cost of an API call. Unknown models cost 0.0
// rather than failing.
func Calculate(model string, promptTokens int, completionTokens int) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0.0
	}
	inputCost := float64(promptTokens) * pricing.Input / 1_000_000
	outputCost := float64(completionTokens) * pricing.Output / 1_000_000
	return inputCost + outputCost
}

// TokenUsage holds token counts for one or more API calls.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add sums two usages.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}
