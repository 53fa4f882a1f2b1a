package scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// ExactMatch compares actual output to expected output by string equality.
type ExactMatch struct {
	IgnoreCase bool
	MinScore   float64 // pass threshold, default 0.5
}

// Name returns the scorer identifier.
func (ExactMatch) Name() string {
	return "ExactMatch"
}

// Threshold returns the pass cutoff.
func (e ExactMatch) Threshold() float64 {
	return effectiveThreshold(e.MinScore, 0.5)
}

// Score returns 1.0 on an exact match, 0.0 otherwise. A missing
// expected_output is a usage error; an empty actual_output is a legitimate
// zero-score outcome.
func (e ExactMatch) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: exact_match: nil test case")
	}
	if tc.ExpectedOutput == "" {
		return nil, errors.New("scorer: exact_match requires expected_output")
	}

	threshold := e.Threshold()
	if tc.ActualOutput == "" {
		return &Result{
			Name:      e.Name(),
			Value:     0.0,
			Reason:    "actual_output is empty",
			Passed:    false,
			Threshold: threshold,
		}, nil
	}

	matches := tc.ActualOutput == tc.ExpectedOutput
	if e.IgnoreCase {
		matches = strings.EqualFold(tc.ActualOutput, tc.ExpectedOutput)
	}

	value := 0.0
	reason := fmt.Sprintf("Expected '%s', got '%s'", tc.ExpectedOutput, tc.ActualOutput)
	if matches {
		value = 1.0
		reason = "Outputs match exactly"
	}

	return &Result{
		Name:      e.Name(),
		Value:     value,
		Reason:    reason,
		Passed:    value >= threshold,
		Threshold: threshold,
	}, nil
}
