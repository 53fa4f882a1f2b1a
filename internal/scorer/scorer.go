package scorer

import (
	"context"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// Scorer evaluates a single test case. A returned error means the scorer was
// misused (e.g. a required test-case field is missing) or an external call
// failed in a way the scorer could not absorb; a bad output is never an
// error, it is a low score.
type Scorer interface {
	Name() string
	Score(ctx context.Context, tc *testcase.TestCase) (*Result, error)
}

// Thresholder is implemented by scorers with a pass/fail cutoff. The
// aggregate pass rate uses it; scorers without one count every score as
// passing.
type Thresholder interface {
	Threshold() float64
}

// Result holds the outcome of scoring one test case with one scorer.
type Result struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"` // 0.0 - 1.0
	Reason     string  `json:"reason,omitempty"`
	Passed     bool    `json:"passed"`
	Threshold  float64 `json:"threshold,omitempty"`
	TokenUsage int     `json:"token_usage,omitempty"`
	CostUSD    float64 `json:"cost_usd,omitempty"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// effectiveThreshold resolves a configured threshold, falling back to a
// scorer-specific default when unset.
func effectiveThreshold(v float64, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
