package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stellarlinkco/openeval/internal/dataset"
	"github.com/stellarlinkco/openeval/internal/llm"
	"github.com/stellarlinkco/openeval/internal/prompt"
	"github.com/stellarlinkco/openeval/internal/runner"
)

// LoadDataset reads test cases from a JSON or CSV file, switching on the
// extension.
func LoadDataset(path string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return dataset.FromJSON(path)
	case ".csv":
		return dataset.FromCSV(path)
	default:
		return nil, fmt.Errorf("app: unsupported dataset format %q", filepath.Ext(path))
	}
}

// NewLLMTask returns a task that sends each input to the provider as a
// single user message. It is the task the CLI uses to evaluate a model or a
// system prompt directly, without custom code.
func NewLLMTask(provider llm.Provider, model, system string) runner.Task {
	return func(ctx context.Context, input string) (string, error) {
		resp, err := provider.Complete(ctx, &llm.Request{
			Model:     model,
			System:    system,
			Messages:  []llm.Message{{Role: "user", Content: input}},
			MaxTokens: 1024,
		})
		if err != nil {
			return "", err
		}
		return llm.Text(resp), nil
	}
}

// NewPromptTask is like NewLLMTask but renders each input through a prompt
// template first and uses the template's system prompt.
func NewPromptTask(provider llm.Provider, model string, p *prompt.Prompt) runner.Task {
	return func(ctx context.Context, input string) (string, error) {
		rendered, err := p.Render(input)
		if err != nil {
			return "", err
		}
		resp, err := provider.Complete(ctx, &llm.Request{
			Model:     model,
			System:    p.System,
			Messages:  []llm.Message{{Role: "user", Content: rendered}},
			MaxTokens: 1024,
		})
		if err != nil {
			return "", err
		}
		return llm.Text(resp), nil
	}
}
