package runner

import (
	"context"
	"time"

	"github.com/stellarlinkco/openeval/internal/scorer"
	"github.com/stellarlinkco/openeval/internal/trace"
)

// Task produces the system-under-test's output for one input. A panic inside
// a task is recovered and recorded as that case's error.
type Task func(ctx context.Context, input string) (string, error)

// EvalResult holds everything known about one test case after a run. A
// non-empty Error means the task failed and the case was not scored.
type EvalResult struct {
	TestCaseID     string                    `json:"test_case_id"`
	Input          string                    `json:"input"`
	ActualOutput   string                    `json:"actual_output,omitempty"`
	ExpectedOutput string                    `json:"expected_output,omitempty"`
	Scores         map[string]*scorer.Result `json:"scores,omitempty"`
	Error          string                    `json:"error,omitempty"`
}

// ScorerSummary aggregates one scorer's values across all scored cases.
type ScorerSummary struct {
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	PassRate float64 `json:"pass_rate"`
	Count    int     `json:"count"`
}

// ExperimentResult is the outcome of one evaluation run.
type ExperimentResult struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	CreatedAt    time.Time                `json:"created_at"`
	Results      []*EvalResult            `json:"results"`
	Summary      map[string]ScorerSummary `json:"summary"`
	DurationMs   int64                    `json:"duration_ms"`
	TotalTokens  int                      `json:"total_tokens"`
	TotalCostUSD float64                  `json:"total_cost_usd"`
	CostByScorer map[string]float64       `json:"cost_by_scorer,omitempty"`
	Spans        []trace.Span             `json:"spans,omitempty"`
}

// ScorerDelta compares one scorer's mean between two experiments.
type ScorerDelta struct {
	BaselineMean  float64 `json:"baseline_mean"`
	CandidateMean float64 `json:"candidate_mean"`
	Delta         float64 `json:"delta"`
	Improved      bool    `json:"improved"`
}

// Comparison relates a candidate experiment to a baseline, scorer by scorer.
type Comparison struct {
	Baseline  string                 `json:"baseline"`
	Candidate string                 `json:"candidate"`
	Scorers   map[string]ScorerDelta `json:"scorers"`
}
