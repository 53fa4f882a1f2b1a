package cost

import (
	"math"
	"testing"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	// 1000 prompt + 500 completion tokens on gpt-4o-mini:
	// 1000*0.15/1M + 500*0.60/1M = 0.00015 + 0.0003 = 0.00045
	got := Calculate("gpt-4o-mini", 1000, 500)
	if math.Abs(got-0.00045) > 1e-12 {
		t.Fatalf("Calculate: got %v", got)
	}
}

func TestCalculateUnknownModel(t *testing.T) {
	t.Parallel()

	if got := Calculate("some-future-model", 1000, 1000); got != 0.0 {
		t.Fatalf("unknown model: got %v, want 0", got)
	}
}

func TestCalculateEmbeddingHasNoOutputCost(t *testing.T) {
	t.Parallel()

	withOutput := Calculate("text-embedding-3-small", 100, 100)
	withoutOutput := Calculate("text-embedding-3-small", 100, 0)
	if withOutput != withoutOutput {
		t.Fatalf("embedding output tokens should be free: %v != %v", withOutput, withoutOutput)
	}
}

func TestTokenUsageAdd(t *testing.T) {
	t.Parallel()

	a := TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}
	b := TokenUsage{PromptTokens: 200, CompletionTokens: 100, TotalTokens: 300}
	sum := a.Add(b)
	if sum.PromptTokens != 300 || sum.CompletionTokens != 150 || sum.TotalTokens != 450 {
		t.Fatalf("Add: got %+v", sum)
	}
}

func TestTracker(t *testing.T) {
	t.Parallel()

	var tr Tracker
	tr.Add("LLMJudge", 1500, 0.00045)
	tr.Add("LLMJudge", 700, 0.0002)
	tr.Add("Similarity", 100, 0.000002)

	if got := tr.TotalTokens(); got != 2300 {
		t.Fatalf("TotalTokens: got %d", got)
	}
	if got := tr.TotalCost(); math.Abs(got-0.000652) > 1e-12 {
		t.Fatalf("TotalCost: got %v", got)
	}

	byLabel := tr.ByLabel()
	if byLabel["LLMJudge"].Tokens != 2200 {
		t.Fatalf("ByLabel judge tokens: got %d", byLabel["LLMJudge"].Tokens)
	}
	if byLabel["Similarity"].Tokens != 100 {
		t.Fatalf("ByLabel similarity tokens: got %d", byLabel["Similarity"].Tokens)
	}
}

func TestNilTracker(t *testing.T) {
	t.Parallel()

	var tr *Tracker
	tr.Add("x", 1, 1)
	if tr.TotalCost() != 0 || tr.TotalTokens() != 0 {
		t.Fatalf("nil tracker should report zero totals")
	}
}
