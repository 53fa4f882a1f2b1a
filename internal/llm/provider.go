package llm

import "context"

// Provider is a chat-completion client. Implementations bind a default model;
// a request may override it via Request.Model.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// Embedder converts text into a fixed-length vector and reports token usage.
type Embedder interface {
	Embed(ctx context.Context, model string, text string) ([]float64, int, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Model       string
	Messages    []Message
	System      string
	MaxTokens   int
	Temperature float64
}

type ContentBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// TotalTokens returns input plus output tokens.
func (u Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

type Response struct {
	Content    []ContentBlock
	Usage      Usage
	StopReason string
}
