package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Storage    StorageConfig    `yaml:"storage"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	JudgeModel     string  `yaml:"judge_model,omitempty"`
	EmbeddingModel string  `yaml:"embedding_model,omitempty"`
	Threshold      float64 `yaml:"threshold,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// Default returns a config usable without a config file; API keys come from
// the environment.
func Default() *Config {
	cfg := &Config{
		LLM: LLMConfig{
			DefaultProvider: "openai",
			Providers:       make(map[string]ProviderConfig),
		},
		Evaluation: EvaluationConfig{
			JudgeModel:     "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Threshold:      0.5,
		},
		Storage: StorageConfig{Path: "openeval.db"},
	}
	applyEnv(cfg)
	return cfg
}

// Load reads a YAML config file and applies environment overrides.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "openai"
	}
	if strings.TrimSpace(cfg.Evaluation.JudgeModel) == "" {
		cfg.Evaluation.JudgeModel = "gpt-4o-mini"
	}
	if strings.TrimSpace(cfg.Evaluation.EmbeddingModel) == "" {
		cfg.Evaluation.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Evaluation.Threshold <= 0 {
		cfg.Evaluation.Threshold = 0.5
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = "openeval.db"
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}
}
