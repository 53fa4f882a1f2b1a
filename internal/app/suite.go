// Package app wires configuration, scorer suites, and storage into the
// pieces the CLI and API server share.
package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/openeval/internal/config"
	"github.com/stellarlinkco/openeval/internal/llm"
	"github.com/stellarlinkco/openeval/internal/scorer"
)

// ScorerSpec is one scorer entry in a suite file. Fields irrelevant to the
// chosen type are ignored.
type ScorerSpec struct {
	Type       string   `yaml:"type"`
	Label      string   `yaml:"label,omitempty"`
	Keywords   []string `yaml:"keywords,omitempty"`
	Criteria   string   `yaml:"criteria,omitempty"`
	Model      string   `yaml:"model,omitempty"`
	MinScore   float64  `yaml:"min_score,omitempty"`
	IgnoreCase bool     `yaml:"ignore_case,omitempty"`
	CheckOrder bool     `yaml:"check_order,omitempty"`
}

// ScorerSuite is a named list of scorer specs loaded from YAML.
type ScorerSuite struct {
	Name    string       `yaml:"name"`
	Scorers []ScorerSpec `yaml:"scorers"`
}

// LoadScorerSuite reads a scorer suite file.
func LoadScorerSuite(path string) (*ScorerSuite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: read suite %q: %w", path, err)
	}

	var suite ScorerSuite
	if err := yaml.Unmarshal(b, &suite); err != nil {
		return nil, fmt.Errorf("app: parse suite %q: %w", path, err)
	}
	if len(suite.Scorers) == 0 {
		return nil, fmt.Errorf("app: suite %q has no scorers", path)
	}
	return &suite, nil
}

// BuildScorers turns a suite into live scorers. LLM-backed entries take the
// judge or embedding clients; unneeded clients may be nil as long as no
// entry requires them.
func BuildScorers(cfg *config.Config, suite *ScorerSuite, chat llm.Provider, embedder llm.Embedder) ([]scorer.Scorer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	if suite == nil || len(suite.Scorers) == 0 {
		return nil, fmt.Errorf("app: empty scorer suite")
	}

	out := make([]scorer.Scorer, 0, len(suite.Scorers))
	for i, spec := range suite.Scorers {
		s, err := buildScorer(cfg, spec, chat, embedder)
		if err != nil {
			return nil, fmt.Errorf("app: scorer %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func buildScorer(cfg *config.Config, spec ScorerSpec, chat llm.Provider, embedder llm.Embedder) (scorer.Scorer, error) {
	// An unset min_score falls back to the global threshold. Similarity and
	// faithfulness take spec.MinScore untouched instead, so their stricter
	// 0.7 defaults survive a lower global setting.
	minScore := spec.MinScore
	if minScore <= 0 {
		minScore = cfg.Evaluation.Threshold
	}

	switch strings.ToLower(strings.TrimSpace(spec.Type)) {
	case "exact_match":
		return scorer.ExactMatch{IgnoreCase: spec.IgnoreCase, MinScore: minScore}, nil
	case "contains_any":
		if len(spec.Keywords) == 0 {
			return nil, fmt.Errorf("contains_any needs keywords")
		}
		return scorer.ContainsAny{Keywords: spec.Keywords, MinScore: minScore}, nil
	case "contains_all":
		if len(spec.Keywords) == 0 {
			return nil, fmt.Errorf("contains_all needs keywords")
		}
		return scorer.ContainsAll{Keywords: spec.Keywords, MinScore: minScore}, nil
	case "similarity":
		if embedder == nil {
			return nil, fmt.Errorf("similarity needs an embedding client")
		}
		model := spec.Model
		if model == "" {
			model = cfg.Evaluation.EmbeddingModel
		}
		return scorer.Similarity{Embedder: embedder, Model: model, MinScore: spec.MinScore}, nil
	case "judge":
		if chat == nil {
			return nil, fmt.Errorf("judge needs an llm client")
		}
		if strings.TrimSpace(spec.Criteria) == "" {
			return nil, fmt.Errorf("judge needs criteria")
		}
		model := spec.Model
		if model == "" {
			model = cfg.Evaluation.JudgeModel
		}
		return scorer.Judge{Label: spec.Label, Criteria: spec.Criteria, Client: chat, Model: model, MinScore: minScore}, nil
	case "faithfulness":
		if chat == nil {
			return nil, fmt.Errorf("faithfulness needs an llm client")
		}
		model := spec.Model
		if model == "" {
			model = cfg.Evaluation.JudgeModel
		}
		return scorer.Faithfulness{Client: chat, Model: model, MinScore: spec.MinScore}, nil
	case "tool_correctness":
		return scorer.ToolCorrectness{CheckOrder: spec.CheckOrder, MinScore: minScore}, nil
	case "":
		return nil, fmt.Errorf("missing scorer type")
	default:
		return nil, fmt.Errorf("unknown scorer type %q", spec.Type)
	}
}
