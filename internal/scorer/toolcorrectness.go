package scorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// ToolCorrectness scores an agent's tool usage against the expected tool
// list. Unordered mode measures coverage of the expected set; ordered mode
// additionally requires the expected tools to appear as a subsequence of the
// calls actually made.
type ToolCorrectness struct {
	CheckOrder bool
	MinScore   float64 // pass threshold, default 0.5
}

// Name returns the scorer identifier.
func (ToolCorrectness) Name() string {
	return "ToolCorrectness"
}

// Threshold returns the pass cutoff.
func (t ToolCorrectness) Threshold() float64 {
	return effectiveThreshold(t.MinScore, 0.5)
}

// Score returns (matched expected tools) / (total expected tools). A test
// case with no expected-tool annotation is a usage error; an agent that
// recorded no tool calls scores 0.0.
func (t ToolCorrectness) Score(ctx context.Context, tc *testcase.TestCase) (*Result, error) {
	if tc == nil {
		return nil, errors.New("scorer: tool_correctness: nil test case")
	}
	if tc.ExpectedTools == nil {
		return nil, errors.New("scorer: tool_correctness requires expected_tools")
	}

	threshold := t.Threshold()
	if len(tc.ExpectedTools) == 0 {
		return &Result{
			Name:      t.Name(),
			Value:     1.0,
			Reason:    "No tools expected",
			Passed:    true,
			Threshold: threshold,
		}, nil
	}
	if tc.ToolsCalled == nil {
		return &Result{
			Name:      t.Name(),
			Value:     0.0,
			Reason:    "No tools were called",
			Passed:    false,
			Threshold: threshold,
		}, nil
	}

	var matched int
	var reason string
	if t.CheckOrder {
		matched = matchOrdered(tc.ExpectedTools, tc.ToolsCalled)
		reason = fmt.Sprintf("Matched %d/%d tools in order", matched, len(tc.ExpectedTools))
	} else {
		matched = matchUnordered(tc.ExpectedTools, tc.ToolsCalled)
		extra := len(tc.ToolsCalled) - matched
		reason = fmt.Sprintf("Matched %d/%d expected tools (extra tools: %d)", matched, len(tc.ExpectedTools), extra)
	}

	value := float64(matched) / float64(len(tc.ExpectedTools))
	return &Result{
		Name:      t.Name(),
		Value:     value,
		Reason:    reason,
		Passed:    value >= threshold,
		Threshold: threshold,
	}, nil
}

// matchOrdered counts expected tools that appear as a subsequence of the
// calls. The scan over calls never backtracks, so an out-of-order call
// consumes positions without matching.
func matchOrdered(expected, called []string) int {
	matched := 0
	pos := 0
	for _, want := range expected {
		for pos < len(called) {
			got := called[pos]
			pos++
			if got == want {
				matched++
				break
			}
		}
	}
	return matched
}

// matchUnordered counts expected entries present anywhere in the calls.
// Each expected entry is checked against the called set independently, so a
// duplicated expected tool counts once per occurrence.
func matchUnordered(expected, called []string) int {
	calledSet := make(map[string]bool, len(called))
	for _, name := range called {
		calledSet[name] = true
	}

	matched := 0
	for _, want := range expected {
		if calledSet[want] {
			matched++
		}
	}
	return matched
}
