package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stellarlinkco/openeval/internal/cost"
	"github.com/stellarlinkco/openeval/internal/dataset"
	"github.com/stellarlinkco/openeval/internal/scorer"
	"github.com/stellarlinkco/openeval/internal/testcase"
	"github.com/stellarlinkco/openeval/internal/trace"
)

// Evaluate runs every test case through the task, scores the outputs, and
// aggregates per-scorer statistics. A nil task skips generation and scores
// the actual_output each case already carries. A failing task isolates the
// failure to its own case; a failing scorer aborts the run, since it usually
// means the scorer is misconfigured rather than the output being bad.
func Evaluate(ctx context.Context, name string, data any, task Task, scorers []scorer.Scorer) (*ExperimentResult, error) {
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}
	if len(scorers) == 0 {
		return nil, errors.New("runner: no scorers given")
	}

	cases, err := normalizeData(data)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, errors.New("runner: no test cases given")
	}

	collector := trace.NewCollector()
	ctx = trace.NewContext(ctx, collector)

	tracker := &cost.Tracker{}
	start := time.Now()

	results := make([]*EvalResult, 0, len(cases))
	for i, tc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}

		res := &EvalResult{
			TestCaseID:     tc.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}

		scored := *tc
		if task != nil {
			output, taskErr := runTask(ctx, task, tc)
			if taskErr != nil {
				res.Error = taskErr.Error()
				results = append(results, res)
				continue
			}
			scored.ActualOutput = output
		}
		res.ActualOutput = scored.ActualOutput
		res.Scores = make(map[string]*scorer.Result, len(scorers))

		for _, s := range scorers {
			var sr *scorer.Result
			_, err := trace.DoCapture(ctx, "score:"+s.Name(), scored.ActualOutput, func(ctx context.Context) (string, error) {
				var err error
				sr, err = s.Score(ctx, &scored)
				if err != nil {
					return "", err
				}
				return sr.Reason, nil
			})
			if err != nil {
				return nil, fmt.Errorf("runner: case %d (%s): scorer %s: %w", i, tc.ID, s.Name(), err)
			}
			res.Scores[sr.Name] = sr
			tracker.Add(sr.Name, sr.TokenUsage, sr.CostUSD)
		}
		results = append(results, res)
	}

	return &ExperimentResult{
		ID:           uuid.NewString(),
		Name:         name,
		CreatedAt:    start.UTC(),
		Results:      results,
		Summary:      summarize(results),
		DurationMs:   time.Since(start).Milliseconds(),
		TotalTokens:  tracker.TotalTokens(),
		TotalCostUSD: tracker.TotalCost(),
		CostByScorer: costByScorer(tracker),
		Spans:        collector.Spans(),
	}, nil
}

// runTask invokes the task under a trace span, converting a panic into an
// error so one broken case cannot take down the run.
func runTask(ctx context.Context, task Task, tc *testcase.TestCase) (string, error) {
	return trace.DoCapture(ctx, "task:"+tc.ID, tc.Input, func(ctx context.Context) (output string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return task(ctx, tc.Input)
	})
}

// summarize computes per-scorer statistics over the scored cases. Scorers
// that never produced a result are left out.
func summarize(results []*EvalResult) map[string]ScorerSummary {
	values := make(map[string][]float64)
	passed := make(map[string]int)
	for _, res := range results {
		for name, sr := range res.Scores {
			values[name] = append(values[name], sr.Value)
			if sr.Passed {
				passed[name]++
			}
		}
	}

	summary := make(map[string]ScorerSummary, len(values))
	for name, vs := range values {
		if len(vs) == 0 {
			continue
		}
		min, max, sum := vs[0], vs[0], 0.0
		for _, v := range vs {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		summary[name] = ScorerSummary{
			Mean:     sum / float64(len(vs)),
			Min:      min,
			Max:      max,
			PassRate: float64(passed[name]) / float64(len(vs)),
			Count:    len(vs),
		}
	}
	return summary
}

func costByScorer(tracker *cost.Tracker) map[string]float64 {
	byLabel := tracker.ByLabel()
	if len(byLabel) == 0 {
		return nil
	}
	out := make(map[string]float64, len(byLabel))
	for label, totals := range byLabel {
		out[label] = totals.CostUSD
	}
	return out
}

// normalizeData accepts the input shapes callers actually have on hand:
// a *dataset.Dataset, test cases, or raw maps straight from decoded JSON.
func normalizeData(data any) ([]*testcase.TestCase, error) {
	switch d := data.(type) {
	case nil:
		return nil, errors.New("runner: nil data")
	case *dataset.Dataset:
		return d.Items(), nil
	case []*testcase.TestCase:
		for i, tc := range d {
			if err := tc.Validate(); err != nil {
				return nil, fmt.Errorf("runner: case %d: %w", i, err)
			}
		}
		return d, nil
	case []map[string]any:
		cases := make([]*testcase.TestCase, 0, len(d))
		for i, m := range d {
			tc, err := testcase.FromMap(m)
			if err != nil {
				return nil, fmt.Errorf("runner: case %d: %w", i, err)
			}
			cases = append(cases, tc)
		}
		return cases, nil
	case []any:
		cases := make([]*testcase.TestCase, 0, len(d))
		for i, item := range d {
			switch v := item.(type) {
			case *testcase.TestCase:
				if err := v.Validate(); err != nil {
					return nil, fmt.Errorf("runner: case %d: %w", i, err)
				}
				cases = append(cases, v)
			case map[string]any:
				tc, err := testcase.FromMap(v)
				if err != nil {
					return nil, fmt.Errorf("runner: case %d: %w", i, err)
				}
				cases = append(cases, tc)
			default:
				return nil, fmt.Errorf("runner: case %d: unsupported type %T", i, item)
			}
		}
		return cases, nil
	default:
		return nil, fmt.Errorf("runner: unsupported data type %T", data)
	}
}
