package scorer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stellarlinkco/openeval/internal/cost"
	"github.com/stellarlinkco/openeval/internal/llm"
	"github.com/stellarlinkco/openeval/internal/testcase"
)

// Similarity scores semantic closeness of actual vs expected output via
// embedding cosine similarity.
type Similarity struct {
	Embedder llm.Embedder
	Model    string  // embedding model, default text-embedding-3-small
	MinScore float64 // pass threshold, default 0.7
}

// Name returns the scorer identifier.
func (Similarity) Name() string {
	return "Similarity"
}

// Threshold returns the pass cutoff.
func (s Similarity) Threshold() float64 {
	return effectiveThreshold(s.MinScore, 0.7)
}

// Score embeds both outputs independently and returns their cosine
// similarity, clamped to [0,1]. Token usage covers both embedding calls;
// embedding cost has no output-token component.
func (s Similarity) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: similarity: nil test case")
	}
	if s.Embedder == nil {
		return nil, errors.New("scorer: similarity: nil embedder")
	}
	if tc.ExpectedOutput == "" {
		return nil, errors.New("scorer: similarity requires expected_output")
	}

	threshold := s.Threshold()
	if tc.ActualOutput == "" {
		return &Result{
			Name:      s.Name(),
			Value:     0.0,
			Reason:    "actual_output is empty",
			Passed:    false,
			Threshold: threshold,
		}, nil
	}

	model := strings.TrimSpace(s.Model)
	if model == "" {
		model = "text-embedding-3-small"
	}

	expectedVec, expectedTokens, err := s.Embedder.Embed(ctx, model, tc.ExpectedOutput)
	if err != nil {
		return nil, fmt.Errorf("scorer: similarity: embed expected: %w", err)
	}
	actualVec, actualTokens, err := s.Embedder.Embed(ctx, model, tc.ActualOutput)
	if err != nil {
		return nil, fmt.Errorf("scorer: similarity: embed actual: %w", err)
	}

	value := clamp01(cosineSimilarity(expectedVec, actualVec))
	totalTokens := expectedTokens + actualTokens

	return &Result{
		Name:       s.Name(),
		Value:      value,
		Reason:     fmt.Sprintf("cosine similarity: %.4f", value),
		Passed:     value >= threshold,
		Threshold:  threshold,
		TokenUsage: totalTokens,
		CostUSD:    cost.Calculate(model, totalTokens, 0),
	}, nil
}

// cosineSimilarity returns dot(a,b) / (|a|*|b|), or 0 for mismatched or
// zero-norm vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}
