package scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// ContainsAny checks whether any keyword appears in the actual output.
// Matching is case-insensitive substring search.
type ContainsAny struct {
	Keywords []string
	MinScore float64 // pass threshold, default 0.5
}

// Name returns the scorer identifier.
func (ContainsAny) Name() string {
	return "ContainsAny"
}

// Threshold returns the pass cutoff.
func (s ContainsAny) Threshold() float64 {
	return effectiveThreshold(s.MinScore, 0.5)
}

// Score returns 1.0 if at least one keyword is found, 0.0 otherwise.
func (s ContainsAny) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: contains_any: nil test case")
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

	found := matchKeywords(s.Keywords, tc.ActualOutput)

	value := 0.0
	reason := fmt.Sprintf("None of %v found in output", s.Keywords)
	if len(found) > 0 {
		value = 1.0
		reason = "Found keywords: " + strings.Join(found, ", ")
	}

	return &Result{
		Name:      s.Name(),
		Value:     value,
		Reason:    reason,
		Passed:    value >= threshold,
		Threshold: threshold,
	}, nil
}

// ContainsAll scores the fraction of keywords present in the actual output.
type ContainsAll struct {
	Keywords []string
	MinScore float64 // pass threshold, default 0.5
}

// Name returns the scorer identifier.
func (ContainsAll) Name() string {
	return "ContainsAll"
}

// Threshold returns the pass cutoff.
func (s ContainsAll) Threshold() float64 {
	return effectiveThreshold(s.MinScore, 0.5)
}

// Score returns (keywords found) / (total keywords). An empty keyword list
// trivially scores 1.0.
func (s ContainsAll) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: contains_all: nil test case")
	}

	threshold := s.Threshold()
	if len(s.Keywords) == 0 {
		return &Result{
			Name:      s.Name(),
			Value:     1.0,
			Reason:    "No keywords specified",
			Passed:    true,
			Threshold: threshold,
		}, nil
	}
	if tc.ActualOutput == "" {
		return &Result{
			Name:      s.Name(),
			Value:     0.0,
			Reason:    "actual_output is empty",
			Passed:    false,
			Threshold: threshold,
		}, nil
	}

	found := matchKeywords(s.Keywords, tc.ActualOutput)
	value := float64(len(found)) / float64(len(s.Keywords))
	reason := fmt.Sprintf("Found %d/%d keywords: %s", len(found), len(s.Keywords), strings.Join(found, ", "))

	return &Result{
		Name:      s.Name(),
		Value:     value,
		Reason:    reason,
		Passed:    value >= threshold,
		Threshold: threshold,
	}, nil
}

func matchKeywords(keywords []string, text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}
