package scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/stellarlinkco/openeval/internal/cost"
	"github.com/stellarlinkco/openeval/internal/llm"
	"github.com/stellarlinkco/openeval/internal/testcase"
)

const faithfulnessPromptText = `You are a faithfulness evaluator.
Given the context and the output, score from 0.0 to 1.0
how well the output is supported by ONLY the information in the context.
Score 0.0 if the output contains fabricated information.
Score 1.0 if every claim in the output is directly supported by context.

Context:
{{.Context}}

Output:
{{.Actual}}

Return ONLY valid JSON: {"score": <float>, "reason": "<explanation>"}`

var faithfulnessTmpl = template.Must(template.New("faithfulness").Parse(faithfulnessPromptText))

// Faithfulness checks that the actual output only makes claims supported by
// the test case's retrieval context, using an LLM grader.
type Faithfulness struct {
	Client   llm.Provider
	Model    string  // judge model, default gpt-4o-mini
	MinScore float64 // pass threshold, default 0.7
}

// Name returns the scorer identifier.
func (Faithfulness) Name() string {
	return "Faithfulness"
}

// Threshold returns the pass cutoff.
func (f Faithfulness) Threshold() float64 {
	return effectiveThreshold(f.MinScore, 0.7)
}

// Score grades the output against the context. Unlike the generic judge, the
// grader response must be a bare JSON object; anything else is a zero score.
func (f Faithfulness) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: faithfulness: nil test case")
	}
	if f.Client == nil {
		return nil, errors.New("scorer: faithfulness: nil client")
	}
	if tc.Context == nil {
		return nil, errors.New("scorer: faithfulness requires context")
	}

	threshold := f.Threshold()
	if tc.ActualOutput == "" {
		return &Result{
			Name:      f.Name(),
			Value:     0.0,
			Reason:    "actual_output is empty",
			Passed:    false,
			Threshold: threshold,
		}, nil
	}

	var prompt strings.Builder
	err := faithfulnessTmpl.Execute(&prompt, map[string]string{
		"Context": strings.Join(tc.Context, "\n"),
		"Actual":  tc.ActualOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("scorer: faithfulness: render prompt: %w", err)
	}

	model := strings.TrimSpace(f.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	resp, err := f.Client.Complete(ctx, &llm.Request{
		Model:     model,
		Messages:  []llm.Message{{Role: "user", Content: prompt.String()}},
		MaxTokens: 512,
	})
	if err != nil {
		return nil, fmt.Errorf("scorer: faithfulness: complete: %w", err)
	}

	value, reason := parseStrictScoreOutput(llm.Text(resp))
	value = clamp01(value)

	return &Result{
		Name:       f.Name(),
		Value:      value,
		Reason:     reason,
		Passed:     value >= threshold,
		Threshold:  threshold,
		TokenUsage: resp.Usage.TotalTokens(),
		CostUSD:    cost.Calculate(model, resp.Usage.InputTokens, resp.Usage.OutputTokens),
	}, nil
}
