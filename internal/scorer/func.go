package scorer

import (
	"context"
	"errors"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// Func adapts a plain scoring function into a Scorer. The function's return
// value is used as-is, so custom metrics outside [0,1] are possible.
type Func struct {
	Label    string // result name, default "Func"
	Fn       func(tc *testcase.TestCase) float64
	MinScore float64 // pass threshold, default 0.5
}

// Name returns the scorer identifier.
func (f Func) Name() string {
	if f.Label != "" {
		return f.Label
	}
	return "Func"
}

// Threshold returns the pass cutoff.
func (f Func) Threshold() float64 {
	return effectiveThreshold(f.MinScore, 0.5)
}

// Score invokes the wrapped function.
func (f Func) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: func: nil test case")
	}
	if f.Fn == nil {
		return nil, errors.New("scorer: func: nil scoring function")
	}

	threshold := f.Threshold()
	value := f.Fn(tc)

	return &Result{
		Name:      f.Name(),
		Value:     value,
		Passed:    value >= threshold,
		Threshold: threshold,
	}, nil
}
