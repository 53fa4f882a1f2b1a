// Package prompt loads reusable task prompt templates from YAML. A template
// turns each test case input into the message actually sent to the model,
// with an optional system prompt alongside.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Prompt defines a task prompt template and metadata.
type Prompt struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	System      string `yaml:"system,omitempty"`
	Template    string `yaml:"template"`
}

// Load reads a prompt definition from a YAML file.
func Load(path string) (*Prompt, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read %q: %w", path, err)
	}

	var p Prompt
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("prompt: parse %q: %w", path, err)
	}
	if strings.TrimSpace(p.Template) == "" {
		return nil, fmt.Errorf("prompt: %q has no template", path)
	}
	return &p, nil
}

// Render substitutes the test case input into the template. Templates use Go
// template syntax with {{.Input}} as the only binding.
func (p *Prompt) Render(input string) (string, error) {
	if p == nil {
		return "", errors.New("prompt: nil prompt")
	}

	tmpl, err := template.New(p.Name).Option("missingkey=error").Parse(p.Template)
	if err != nil {
		return "", fmt.Errorf("prompt: parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"Input": input}); err != nil {
		return "", fmt.Errorf("prompt: render template: %w", err)
	}
	return buf.String(), nil
}
