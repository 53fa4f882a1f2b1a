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

const judgePromptText = `You are an evaluation judge. Score the output from 0.0 to 1.0.

Criteria: {{.Criteria}}
Input: {{.Input}}
Expected output: {{.Expected}}
Actual output: {{.Actual}}

Return ONLY valid JSON: {"score": <float 0.0-1.0>, "reason": "<explanation>"}`

var judgeTmpl = template.Must(template.New("judge").Parse(judgePromptText))

// Judge scores a test case by asking an LLM to grade the actual output
// against free-text criteria.
type Judge struct {
	Label    string // result name, default "Judge"
	Criteria string
	Client   llm.Provider
	Model    string  // judge model, default gpt-4o-mini
	MinScore float64 // pass threshold, default 0.5
}

// Name returns the scorer identifier.
func (j Judge) Name() string {
	if j.Label != "" {
		return j.Label
	}
	return "Judge"
}

// Threshold returns the pass cutoff.
func (j Judge) Threshold() float64 {
	return effectiveThreshold(j.MinScore, 0.5)
}

// Score renders the judge prompt, calls the model, and leniently parses the
// graded score out of the response. Model misbehavior (prose, fenced JSON,
// garbage) degrades to a zero score rather than an error.
func (j Judge) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: judge: nil test case")
	}
	if j.Client == nil {
		return nil, errors.New("scorer: judge: nil client")
	}
	if strings.TrimSpace(j.Criteria) == "" {
		return nil, errors.New("scorer: judge requires criteria")
	}

	threshold := j.Threshold()
	if tc.ActualOutput == "" {
		return &Result{
			Name:      j.Name(),
			Value:     0.0,
			Reason:    "No actual output to judge",
			Passed:    false,
			Threshold: threshold,
		}, nil
	}

	expected := tc.ExpectedOutput
	if expected == "" {
		expected = "None provided"
	}

	var prompt strings.Builder
	err := judgeTmpl.Execute(&prompt, map[string]string{
		"Criteria": j.Criteria,
		"Input":    tc.Input,
		"Expected": expected,
		"Actual":   tc.ActualOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("scorer: judge: render prompt: %w", err)
	}

	model := strings.TrimSpace(j.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	resp, err := j.Client.Complete(ctx, &llm.Request{
		Model:     model,
		Messages:  []llm.Message{{Role: "user", Content: prompt.String()}},
		MaxTokens: 512,
	})
	if err != nil {
		return nil, fmt.Errorf("scorer: judge: complete: %w", err)
	}

	value, reason := parseScoreOutput(llm.Text(resp))
	value = clamp01(value)
	tokens := resp.Usage.TotalTokens()

	return &Result{
		Name:       j.Name(),
		Value:      value,
		Reason:     reason,
		Passed:     value >= threshold,
		Threshold:  threshold,
		TokenUsage: tokens,
		CostUSD:    cost.Calculate(model, resp.Usage.InputTokens, resp.Usage.OutputTokens),
	}, nil
}
