package llm

import (
	"context"
	"testing"

	"github.com/stellarlinkco/openeval/internal/config"
)

type staticProvider struct{ name string }

func (p staticProvider) Name() string { return p.name }
func (p staticProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	return &Response{Content: []ContentBlock{{Type: "text", Text: "ok"}}}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(staticProvider{name: "alpha"})
	r.Register(staticProvider{name: "beta"})

	if _, ok := r.Get("alpha"); !ok {
		t.Fatalf("Get(alpha) ok=false")
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("Get(missing) ok=true")
	}
	if names := r.Names(); len(names) != 2 {
		t.Fatalf("Names: %v", names)
	}
}

func TestDefaultProviderFromConfig(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {APIKey: "sk-test"},
			},
		},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("provider: %q", p.Name())
	}
}

func TestDefaultProviderAnthropicKey(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "anthropic",
			Providers: map[string]config.ProviderConfig{
				"anthropic": {APIKey: "sk-ant"},
				"openai":    {APIKey: "sk-test"},
			},
		},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("provider: %q", p.Name())
	}
}

func TestDefaultProviderSingleFallback(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"claude": {APIKey: "sk-ant"},
			},
		},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("provider: %q", p.Name())
	}
}

func TestDefaultProviderUnknown(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			Providers: map[string]config.ProviderConfig{
				"whatgpt": {APIKey: "x"},
			},
		},
	}
	if _, err := NewRegistryFromConfig(cfg); err == nil {
		t.Fatalf("unknown provider: expected error")
	}
}

func TestEmbedderFromConfig(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			Providers: map[string]config.ProviderConfig{
				"claude": {APIKey: "sk-ant"},
			},
		},
	}
	if _, err := EmbedderFromConfig(cfg); err == nil {
		t.Fatalf("expected error without openai entry")
	}

	cfg.LLM.Providers["openai"] = config.ProviderConfig{APIKey: "sk-test"}
	if _, err := EmbedderFromConfig(cfg); err != nil {
		t.Fatalf("EmbedderFromConfig: %v", err)
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	resp := &Response{Content: []ContentBlock{
		{Type: "text", Text: "hello"},
		{Type: "tool_use"},
		{Type: "text", Text: " world"},
	}}
	if got := Text(resp); got != "hello world" {
		t.Fatalf("Text: %q", got)
	}
	if got := Text(nil); got != "" {
		t.Fatalf("Text(nil): %q", got)
	}
}
