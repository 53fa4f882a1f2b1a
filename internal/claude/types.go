package claude

import (
	"net/http"
	"time"
)

// Client holds configuration for Claude API requests.
type Client struct {
	apiKey     string
	authToken  string
	baseURL    string
	httpClient *http.Client
	model      string
	retryMax   int
	retryBase  time.Duration
}

// Message represents a single role/content message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request defines a Claude messages API request payload.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// ContentBlock represents a single content item in a response.
type ContentBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

// Usage reports token usage for a response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response represents a Claude messages API response.
type Response struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}
